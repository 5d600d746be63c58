package arcgis

import "fmt"

// Portal base hosts harvested by default.
const (
	EsriBaseURL   = "http://esri.maps.arcgis.com"
	ArcGISBaseURL = "http://arcgis.com"
)

// PageSize is the number of items requested per search page.
const PageSize = 100

const (
	searchPath   = "/sharing/rest/search"
	userPath     = "/sharing/rest/community/users/{username}"
	groupsPath   = "/sharing/rest/community/groups"
	overviewPath = "/sharing/rest/portals/self"
)

// GroupQuery is the search expression selecting every item shared with a group.
func GroupQuery(groupID string) string {
	return fmt.Sprintf(" group:%s ", groupID)
}

// ItemViewURL is the public landing page of an item.
func ItemViewURL(baseURL, id string) string {
	return fmt.Sprintf("%s/home/item.html?id=%s", baseURL, id)
}

// ItemThumbnailURL resolves a thumbnail path relative to its item.
func ItemThumbnailURL(baseURL, id, path string) string {
	return fmt.Sprintf("%s/sharing/rest/content/items/%s/info/%s", baseURL, id, path)
}
