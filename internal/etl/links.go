package etl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mrlokans/mapharvest/internal/arcgis"
	"github.com/mrlokans/mapharvest/internal/datacite"
)

// Portal item types that drive link and file derivation.
const (
	TypeFeatureCollection     = "Feature Collection"
	TypeVectorTileService     = "Vector Tile Service"
	TypeMobileApplication     = "Mobile Application"
	TypeWebMappingApplication = "Web Mapping Application"
	TypeDocumentLink          = "Document Link"
	TypeWebScene              = "Web Scene"
	TypeWebMap                = "Web Map"
	TypeCodeAttachment        = "Code Attachment"
	TypeMapService            = "Map Service"
	TypeImageService          = "Image Service"
	TypeFeatureService        = "Feature Service"
	TypeRulePackage           = "Rule Package"
	TypeLayerPackage          = "Layer Package"
	TypeWMS                   = "WMS"
)

// MetadataKeyword marks items that publish an ISO metadata document.
const MetadataKeyword = "Metadata"

const (
	linkNameView        = "View map on arcgis.com"
	linkNameThumbnail   = "Thumbnail"
	linkNameSceneViewer = "Open in Scene Viewer"
	linkNameMapViewer   = "Open in Map Viewer"
	linkNameStyle       = "View Style"
	linkNameMetadata    = "View Metadata"
	linkNameApplication = "View Application"
	linkNameOpen        = "Open"
	fileNameDesktop     = "ArcGis Desktop"
)

const (
	downloadURL           = "http://esri.maps.arcgis.com/sharing/rest/content/items/%s/data"
	mapViewerMapService   = "http://esri.maps.arcgis.com/home/signin.html?returnUrl=http%%3A%%2F%%2Fesri.maps.arcgis.com%%2Fhome%%2Fwebmap%%2Fviewer.html%%3FuseExisting%%3D1%%26layers%%3D%s"
	mapViewerLayers       = "http://esri.maps.arcgis.com/home/webmap/viewer.html?useExisting=1&layers=%s"
	mapViewerWebMap       = "http://esri.maps.arcgis.com/home/webmap/viewer.html?webmap=%s"
	sceneViewerLayers     = "http://esri.maps.arcgis.com/home/webscene/viewer.html?layers=%s"
	sceneViewerWebScene   = "http://esri.maps.arcgis.com/home/webscene/viewer.html?webscene=%s"
	styleURL              = "http://esri.maps.arcgis.com/sharing/rest/content/items/%s/resources/styles/root.json?f=pjson"
	metadataURL           = "http://esri.maps.arcgis.com/sharing/rest/content/items/%s/info/metadata/metadata.xml?format=default&output=html"
	desktopServiceFileURL = "http://esri.maps.arcgis.com/sharing/rest/content/items/%s/item.pitem"
	desktopWebMapFileURL  = "http://esri.maps.arcgis.com/sharing/rest/content/items/%s/item.pkinfo"
)

type (
	// linkBuilder derives one web link; ok is false when the item lacks what the link needs.
	linkBuilder func(m arcgis.Map) (link datacite.WebLink, ok bool)
	fileBuilder func(m arcgis.Map) datacite.ResearchData
)

func itemLink(name, template string) linkBuilder {
	return func(m arcgis.Map) (datacite.WebLink, bool) {
		return datacite.WebLink{URL: fmt.Sprintf(template, m.ID), Name: name}, true
	}
}

func urlLink(name string) linkBuilder {
	return func(m arcgis.Map) (datacite.WebLink, bool) {
		if m.URL == "" {
			return datacite.WebLink{}, false
		}
		return datacite.WebLink{URL: m.URL, Name: name}, true
	}
}

func desktopFile(template, fileType string) fileBuilder {
	return func(m arcgis.Map) datacite.ResearchData {
		return datacite.ResearchData{URL: fmt.Sprintf(template, m.ID), Label: fileNameDesktop, Type: fileType}
	}
}

func downloadFile(m arcgis.Map) datacite.ResearchData {
	return datacite.ResearchData{URL: fmt.Sprintf(downloadURL, m.ID), Label: DownloadLabel(m), Type: m.Type}
}

// Lookup tables keyed by item type. Built once, never modified.
var (
	sceneViewerLinks = map[string]linkBuilder{
		TypeMapService:        itemLink(linkNameSceneViewer, sceneViewerLayers),
		TypeImageService:      itemLink(linkNameSceneViewer, sceneViewerLayers),
		TypeVectorTileService: itemLink(linkNameSceneViewer, sceneViewerLayers),
		TypeFeatureService:    itemLink(linkNameSceneViewer, sceneViewerLayers),
		TypeWebScene:          itemLink(linkNameSceneViewer, sceneViewerWebScene),
	}

	mapViewerLinks = map[string]linkBuilder{
		TypeMapService:        itemLink(linkNameMapViewer, mapViewerMapService),
		TypeImageService:      itemLink(linkNameMapViewer, mapViewerMapService),
		TypeFeatureCollection: itemLink(linkNameMapViewer, mapViewerLayers),
		TypeVectorTileService: itemLink(linkNameMapViewer, mapViewerLayers),
		TypeFeatureService:    itemLink(linkNameMapViewer, mapViewerLayers),
		TypeWMS:               itemLink(linkNameMapViewer, mapViewerLayers),
		TypeWebMap:            itemLink(linkNameMapViewer, mapViewerWebMap),
	}

	styleLinks = map[string]linkBuilder{
		TypeVectorTileService: itemLink(linkNameStyle, styleURL),
	}

	applicationLinks = map[string]linkBuilder{
		TypeMobileApplication:     urlLink(linkNameApplication),
		TypeWebMappingApplication: urlLink(linkNameApplication),
	}

	documentLinks = map[string]linkBuilder{
		TypeDocumentLink: urlLink(linkNameOpen),
	}

	desktopFiles = map[string]fileBuilder{
		TypeMapService:     desktopFile(desktopServiceFileURL, "pitem"),
		TypeImageService:   desktopFile(desktopServiceFileURL, "pitem"),
		TypeWMS:            desktopFile(desktopServiceFileURL, "pitem"),
		TypeFeatureService: desktopFile(desktopServiceFileURL, "pitem"),
		TypeWebMap:         desktopFile(desktopWebMapFileURL, "pkinfo"),
	}

	downloadFiles = map[string]fileBuilder{
		TypeLayerPackage:   downloadFile,
		TypeCodeAttachment: downloadFile,
		TypeRulePackage:    downloadFile,
	}
)

// WebLinks derives every link of an item. The provider logo and the view
// link are always present.
func WebLinks(m arcgis.Map, baseURL string) []datacite.WebLink {
	links := []datacite.WebLink{
		{URL: datacite.ProviderLogoURL, Name: datacite.ProviderLogoName, Type: datacite.LinkProviderLogo},
		{URL: arcgis.ItemViewURL(baseURL, m.ID), Name: linkNameView, Type: datacite.LinkView},
	}

	if thumbnail, ok := thumbnailLink(m, baseURL); ok {
		links = append(links, thumbnail)
	}
	for _, table := range []map[string]linkBuilder{sceneViewerLinks, mapViewerLinks, styleLinks} {
		if link, ok := lookupLink(table, m); ok {
			links = append(links, link)
		}
	}
	if slices.Contains(m.TypeKeywords, MetadataKeyword) {
		links = append(links, datacite.WebLink{URL: fmt.Sprintf(metadataURL, m.ID), Name: linkNameMetadata})
	}
	for _, table := range []map[string]linkBuilder{applicationLinks, documentLinks} {
		if link, ok := lookupLink(table, m); ok {
			links = append(links, link)
		}
	}
	return links
}

// ResearchData derives the downloadable files of an item, nil when there are none.
func ResearchData(m arcgis.Map) []datacite.ResearchData {
	var files []datacite.ResearchData
	for _, table := range []map[string]fileBuilder{desktopFiles, downloadFiles} {
		if build, ok := table[m.Type]; ok {
			files = append(files, build(m))
		}
	}
	return files
}

// DownloadLabel is the file extension of the item name. Names without an
// extension are used whole; items without a name fall back to their type.
func DownloadLabel(m arcgis.Map) string {
	name := strings.TrimSpace(m.Name)
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	if name = strings.TrimSuffix(name, "."); name != "" {
		return name
	}
	return m.Type
}

func lookupLink(table map[string]linkBuilder, m arcgis.Map) (datacite.WebLink, bool) {
	build, ok := table[m.Type]
	if !ok {
		return datacite.WebLink{}, false
	}
	return build(m)
}

func thumbnailLink(m arcgis.Map, baseURL string) (datacite.WebLink, bool) {
	path := m.LargeThumbnail
	if path == "" {
		path = m.Thumbnail
	}
	if path == "" {
		return datacite.WebLink{}, false
	}
	return datacite.WebLink{
		URL:  arcgis.ItemThumbnailURL(baseURL, m.ID, path),
		Name: linkNameThumbnail,
		Type: datacite.LinkThumbnail,
	}, true
}
