package etl

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mapharvest/internal/arcgis"
	"github.com/mrlokans/mapharvest/internal/datacite"
)

func TestIsYearTag(t *testing.T) {
	tests := []struct {
		tag      string
		expected bool
	}{
		{"2016", true},
		{"0999", true},
		{"river", false},
		{"201", false},
		{"20160", false},
		{"2016 ", false},
		{"16th century", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsYearTag(tt.tag))
		})
	}
}

func TestYearTagsBecomeDatesNotSubjects(t *testing.T) {
	m := arcgis.Map{Tags: []string{"2016", "river"}, Culture: "en"}

	dates := Dates(m)
	require.Len(t, dates, 1)
	assert.Equal(t, datacite.DateCollected, dates[0].Type)

	parsed, err := time.Parse(time.RFC3339, dates[0].Value)
	require.NoError(t, err)
	assert.Equal(t, 2016, parsed.Year())

	assert.Equal(t, []datacite.Subject{{Value: "river", Lang: "en"}}, Subjects(m))
}

func TestTitles(t *testing.T) {
	tests := []struct {
		name     string
		m        arcgis.Map
		expected []datacite.Title
	}{
		{
			name: "title and name",
			m:    arcgis.Map{Title: "  Rivers of Europe ", Name: "rivers.json", Culture: "en"},
			expected: []datacite.Title{
				{Value: "Rivers of Europe", Lang: "en"},
				{Value: "rivers.json", Type: datacite.TitleAlternative, Lang: "en"},
			},
		},
		{
			name:     "title only",
			m:        arcgis.Map{Title: "Roads"},
			expected: []datacite.Title{{Value: "Roads"}},
		},
		{
			name:     "blank",
			m:        arcgis.Map{Title: "   "},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Titles(tt.m))
		})
	}
}

func TestDescriptions(t *testing.T) {
	m := arcgis.Map{Description: "<p>Long</p>", Snippet: "Short", Culture: "de"}
	assert.Equal(t, []datacite.Description{
		{Value: "<p>Long</p>", Type: datacite.DescriptionAbstract, Lang: "de"},
		{Value: "Short", Type: datacite.DescriptionAbstract, Lang: "de"},
	}, Descriptions(m))

	assert.Nil(t, Descriptions(arcgis.Map{}))
	assert.Len(t, Descriptions(arcgis.Map{Snippet: "Short"}), 1)
}

func TestDates(t *testing.T) {
	m := arcgis.Map{
		Created:  1609459200000,
		Modified: 1612137600000,
		Tags:     []string{"1999", "maps", "2020"},
	}

	assert.Equal(t, []datacite.Date{
		{Value: "2021-01-01T00:00:00Z", Type: datacite.DateCreated},
		{Value: "2021-02-01T00:00:00Z", Type: datacite.DateUpdated},
		{Value: "1999-01-01T00:00:00Z", Type: datacite.DateCollected},
		{Value: "2020-01-01T00:00:00Z", Type: datacite.DateCollected},
	}, Dates(m))

	assert.Nil(t, Dates(arcgis.Map{}))
}

func TestCreators(t *testing.T) {
	assert.Nil(t, Creators(nil))

	owner := &arcgis.User{Username: "jdoe", FullName: "Jane Doe", FirstName: "Jane", LastName: "Doe", Provider: "enterprise"}
	assert.Equal(t, []datacite.Creator{{
		Name:         datacite.PersonName{Value: "Jane Doe", Type: datacite.NamePersonal},
		GivenName:    "Jane",
		FamilyName:   "Doe",
		Affiliations: []string{"enterprise"},
	}}, Creators(owner))

	creators := Creators(&arcgis.User{Username: "esri_atlas"})
	require.Len(t, creators, 1)
	assert.Equal(t, "esri_atlas", creators[0].Name.Value)
	assert.Nil(t, creators[0].Affiliations)
}

func TestRights(t *testing.T) {
	assert.Nil(t, Rights(arcgis.Map{}))
	assert.Equal(t, []datacite.Rights{{Value: "CC-BY"}}, Rights(arcgis.Map{LicenseInfo: "CC-BY"}))
}

func TestGeoLocations(t *testing.T) {
	tests := []struct {
		name     string
		extent   []arcgis.Point
		expected []datacite.GeoLocation
	}{
		{
			name:     "missing",
			extent:   nil,
			expected: nil,
		},
		{
			name:     "single point",
			extent:   []arcgis.Point{{Lon: 1, Lat: 2}},
			expected: nil,
		},
		{
			name:   "north-west then south-east",
			extent: []arcgis.Point{{Lon: -10, Lat: 60}, {Lon: 30, Lat: 35}},
			expected: []datacite.GeoLocation{{Box: &datacite.Box{
				West: -10, East: 30, South: 35, North: 60,
			}}},
		},
		{
			name:   "south-west then north-east",
			extent: []arcgis.Point{{Lon: -10, Lat: 35}, {Lon: 30, Lat: 60}},
			expected: []datacite.GeoLocation{{Box: &datacite.Box{
				West: -10, East: 30, South: 35, North: 60,
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GeoLocations(arcgis.Map{Extent: tt.extent}))
		})
	}
}

func TestSubjects_Order(t *testing.T) {
	m := arcgis.Map{
		Tags:             []string{"hydrology", "2019", "rivers"},
		TypeKeywords:     []string{"ArcGIS Online", "Map"},
		SpatialReference: "WGS84",
		Culture:          "en",
	}

	assert.Equal(t, []datacite.Subject{
		{Value: "hydrology", Lang: "en"},
		{Value: "rivers", Lang: "en"},
		{Value: "ArcGIS Online"},
		{Value: "Map"},
		{Value: "WGS84"},
	}, Subjects(m))

	assert.Nil(t, Subjects(arcgis.Map{Tags: []string{"2019"}}))
}

func TestGroupSubjects(t *testing.T) {
	groups := []arcgis.FeaturedGroup{
		{ID: "a", Tags: []string{"atlas", "esri"}},
		{ID: "b"},
		{ID: "c", Tags: []string{"living"}},
	}
	assert.Equal(t, []datacite.Subject{{Value: "atlas"}, {Value: "esri"}, {Value: "living"}}, GroupSubjects(groups))
	assert.Nil(t, GroupSubjects(nil))
}

func TestResourceType(t *testing.T) {
	assert.Nil(t, ResourceType(arcgis.Map{}))
	assert.Equal(t, &datacite.ResourceType{Value: "Web Map", General: datacite.ResourceModel}, ResourceType(arcgis.Map{Type: "Web Map"}))
}

func TestFieldMappersAreIdempotent(t *testing.T) {
	m := arcgis.Map{
		ID:               "abc",
		Title:            " Title ",
		Name:             "file.lpk",
		Type:             TypeLayerPackage,
		Tags:             []string{"2001", "soil"},
		TypeKeywords:     []string{"Metadata"},
		Extent:           []arcgis.Point{{Lon: 1, Lat: 4}, {Lon: 3, Lat: 2}},
		SpatialReference: "102100",
		LicenseInfo:      "Public",
		Created:          1,
		Culture:          "en",
	}

	render := func() []byte {
		out, err := json.Marshal([]any{
			Titles(m), Descriptions(m), Dates(m), Rights(m), GeoLocations(m),
			Subjects(m), ResourceType(m), WebLinks(m, arcgis.ArcGISBaseURL), ResearchData(m),
		})
		require.NoError(t, err)
		return out
	}

	first := render()
	assert.Equal(t, first, render())
	assert.Equal(t, []string{"2001", "soil"}, m.Tags)
}
