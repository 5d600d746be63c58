package etl

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/mapharvest/internal/arcgis"
	"github.com/mrlokans/mapharvest/internal/datacite"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// IsYearTag reports whether a tag is a four digit calendar year.
func IsYearTag(tag string) bool {
	return yearPattern.MatchString(tag)
}

// Titles returns the item title and its file name as an alternative title.
func Titles(m arcgis.Map) []datacite.Title {
	var titles []datacite.Title
	if title := strings.TrimSpace(m.Title); title != "" {
		titles = append(titles, datacite.Title{Value: title, Lang: m.Culture})
	}
	if name := strings.TrimSpace(m.Name); name != "" {
		titles = append(titles, datacite.Title{Value: name, Type: datacite.TitleAlternative, Lang: m.Culture})
	}
	return titles
}

// Descriptions returns the full description and the snippet as abstracts.
func Descriptions(m arcgis.Map) []datacite.Description {
	var descriptions []datacite.Description
	for _, text := range []string{m.Description, m.Snippet} {
		if text == "" {
			continue
		}
		descriptions = append(descriptions, datacite.Description{
			Value: text,
			Type:  datacite.DescriptionAbstract,
			Lang:  m.Culture,
		})
	}
	return descriptions
}

// Dates returns creation and update timestamps and one collection date per year tag.
func Dates(m arcgis.Map) []datacite.Date {
	var dates []datacite.Date
	if m.Created != 0 {
		dates = append(dates, datacite.Date{Value: formatMillis(m.Created), Type: datacite.DateCreated})
	}
	if m.Modified != 0 {
		dates = append(dates, datacite.Date{Value: formatMillis(m.Modified), Type: datacite.DateUpdated})
	}
	for _, tag := range m.Tags {
		if !IsYearTag(tag) {
			continue
		}
		year, _ := strconv.Atoi(tag)
		dates = append(dates, datacite.Date{
			Value: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
			Type:  datacite.DateCollected,
		})
	}
	return dates
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// Creators returns the item owner as its only creator, or nil without an owner.
func Creators(owner *arcgis.User) []datacite.Creator {
	if owner == nil {
		return nil
	}

	name := owner.FullName
	if name == "" {
		name = owner.Username
	}
	creator := datacite.Creator{
		Name:       datacite.PersonName{Value: name, Type: datacite.NamePersonal},
		GivenName:  owner.FirstName,
		FamilyName: owner.LastName,
	}
	if owner.Provider != "" {
		creator.Affiliations = []string{owner.Provider}
	}
	return []datacite.Creator{creator}
}

// Rights wraps the license text; nil when the item has none.
func Rights(m arcgis.Map) []datacite.Rights {
	if m.LicenseInfo == "" {
		return nil
	}
	return []datacite.Rights{{Value: m.LicenseInfo}}
}

// GeoLocations converts the first two extent corners into a bounding box.
// Corners are normalised so either corner order yields the same box.
func GeoLocations(m arcgis.Map) []datacite.GeoLocation {
	if len(m.Extent) < 2 {
		return nil
	}
	a, b := m.Extent[0], m.Extent[1]
	box := &datacite.Box{
		West:  math.Min(a.Lon, b.Lon),
		East:  math.Max(a.Lon, b.Lon),
		South: math.Min(a.Lat, b.Lat),
		North: math.Max(a.Lat, b.Lat),
	}
	return []datacite.GeoLocation{{Box: box}}
}

// Subjects returns non-year tags, then type keywords, then the spatial reference.
func Subjects(m arcgis.Map) []datacite.Subject {
	var subjects []datacite.Subject
	for _, tag := range m.Tags {
		if IsYearTag(tag) {
			continue
		}
		subjects = append(subjects, datacite.Subject{Value: tag, Lang: m.Culture})
	}
	for _, keyword := range m.TypeKeywords {
		subjects = append(subjects, datacite.Subject{Value: keyword})
	}
	if m.SpatialReference != "" {
		subjects = append(subjects, datacite.Subject{Value: m.SpatialReference})
	}
	return subjects
}

// GroupSubjects flattens the tags of all groups into subjects.
func GroupSubjects(groups []arcgis.FeaturedGroup) []datacite.Subject {
	var subjects []datacite.Subject
	for _, group := range groups {
		for _, tag := range group.Tags {
			subjects = append(subjects, datacite.Subject{Value: tag})
		}
	}
	return subjects
}

// ResourceType labels the item as a model of its portal type.
func ResourceType(m arcgis.Map) *datacite.ResourceType {
	if m.Type == "" {
		return nil
	}
	return &datacite.ResourceType{Value: m.Type, General: datacite.ResourceModel}
}
