package arcgis

import (
	"encoding/json"
	"fmt"
)

// Map is a single item returned by the portal search endpoint.
type Map struct {
	ID                string   `json:"id"`
	Owner             string   `json:"owner"`
	Created           int64    `json:"created"`
	Modified          int64    `json:"modified"`
	Name              string   `json:"name"`
	Title             string   `json:"title"`
	Type              string   `json:"type"`
	TypeKeywords      []string `json:"typeKeywords"`
	Description       string   `json:"description"`
	Tags              []string `json:"tags"`
	Snippet           string   `json:"snippet"`
	Thumbnail         string   `json:"thumbnail"`
	LargeThumbnail    string   `json:"largeThumbnail"`
	Extent            []Point  `json:"extent"`
	SpatialReference  string   `json:"spatialReference"`
	AccessInformation string   `json:"accessInformation"`
	LicenseInfo       string   `json:"licenseInfo"`
	Culture           string   `json:"culture"`
	URL               string   `json:"url"`
	Access            string   `json:"access"`
	Size              int64    `json:"size"`
	Listed            bool     `json:"listed"`
	NumComments       int      `json:"numComments"`
	NumRatings        int      `json:"numRatings"`
	AvgRating         float64  `json:"avgRating"`
	NumViews          int      `json:"numViews"`
}

// Point is one corner of an item extent, encoded as [longitude, latitude].
type Point struct {
	Lon float64
	Lat float64
}

// UnmarshalJSON reads a [longitude, latitude] pair. Coordinates past the
// second, such as a z value, are ignored.
func (p *Point) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("invalid extent point: %w", err)
	}
	if len(coords) < 2 {
		return fmt.Errorf("invalid extent point: expected 2 coordinates, got %d", len(coords))
	}
	p.Lon, p.Lat = coords[0], coords[1]
	return nil
}

// MarshalJSON writes the point as [longitude, latitude].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{p.Lon, p.Lat})
}

// User is a portal user profile; only the owner of each map is fetched.
type User struct {
	Username    string   `json:"username"`
	FullName    string   `json:"fullName"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Culture     string   `json:"culture"`
	Region      string   `json:"region"`
	Units       string   `json:"units"`
	Thumbnail   string   `json:"thumbnail"`
	Created     int64    `json:"created"`
	Modified    int64    `json:"modified"`
	Provider    string   `json:"provider"`

	Err *APIError `json:"error,omitempty"`
}

// FeaturedGroup is a group whose tags are shared by every map harvested under it.
type FeaturedGroup struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Owner string   `json:"owner"`
	Tags  []string `json:"tags"`
}

// SearchResponse is the paging envelope shared by search style endpoints.
// NextStart is -1 once the last page has been returned.
type SearchResponse[T any] struct {
	Query     string `json:"query"`
	Total     int    `json:"total"`
	Start     int    `json:"start"`
	Num       int    `json:"num"`
	NextStart int    `json:"nextStart"`
	Results   []T    `json:"results"`

	Err *APIError `json:"error,omitempty"`
}

// Overview is the subset of the portal self description used to discover groups.
type Overview struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Culture               string          `json:"culture"`
	Region                string          `json:"region"`
	FeaturedGroups        []FeaturedGroup `json:"featuredGroups"`
	LivingAtlasGroupQuery string          `json:"livingAtlasGroupQuery"`

	Err *APIError `json:"error,omitempty"`
}

func (r *User) apiError() *APIError              { return r.Err }
func (r *SearchResponse[T]) apiError() *APIError { return r.Err }
func (r *Overview) apiError() *APIError          { return r.Err }
