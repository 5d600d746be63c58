// Package datacite models the harvested output document, a DataCite-like
// metadata record enriched with web links and downloadable files.
package datacite

// Static values shared by every harvested document.
const (
	Publisher       = "Esri"
	RepositoryID    = "ArcGIS"
	DefaultLanguage = "en"

	ProviderLogoURL  = "https://livingatlas.arcgis.com/emu/tailcoat/images/tailcoat/logo-esri.png"
	ProviderLogoName = "Logo"
)

// ResearchDisciplines are attached to every document.
var ResearchDisciplines = []string{"Physical Geography", "Human Geography"}

type TitleType string

const (
	TitleAlternative TitleType = "AlternativeTitle"
)

type DescriptionType string

const (
	DescriptionAbstract DescriptionType = "Abstract"
)

type DateType string

const (
	DateCreated   DateType = "Created"
	DateUpdated   DateType = "Updated"
	DateCollected DateType = "Collected"
)

type NameType string

const (
	NamePersonal NameType = "Personal"
)

type ResourceTypeGeneral string

const (
	ResourceModel ResourceTypeGeneral = "Model"
)

type WebLinkType string

const (
	LinkProviderLogo WebLinkType = "ProviderLogoURL"
	LinkView         WebLinkType = "ViewURL"
	LinkThumbnail    WebLinkType = "ThumbnailURL"
)

type (
	Document struct {
		Identifier          Identifier     `json:"identifier"`
		Language            string         `json:"language,omitempty"`
		Publisher           string         `json:"publisher"`
		RepositoryID        string         `json:"repositoryIdentifier"`
		ResearchDisciplines []string       `json:"researchDisciplines,omitempty"`
		Titles              []Title        `json:"titles,omitempty"`
		Descriptions        []Description  `json:"descriptions,omitempty"`
		Dates               []Date         `json:"dates,omitempty"`
		Creators            []Creator      `json:"creators,omitempty"`
		RightsList          []Rights       `json:"rightsList,omitempty"`
		GeoLocations        []GeoLocation  `json:"geoLocations,omitempty"`
		Subjects            []Subject      `json:"subjects,omitempty"`
		ResourceType        *ResourceType  `json:"resourceType,omitempty"`
		WebLinks            []WebLink      `json:"webLinks,omitempty"`
		ResearchData        []ResearchData `json:"researchDataList,omitempty"`
	}

	Identifier struct {
		Value string `json:"value"`
	}

	Title struct {
		Value string    `json:"value"`
		Type  TitleType `json:"titleType,omitempty"`
		Lang  string    `json:"lang,omitempty"`
	}

	Description struct {
		Value string          `json:"value"`
		Type  DescriptionType `json:"descriptionType"`
		Lang  string          `json:"lang,omitempty"`
	}

	// Date holds an RFC 3339 timestamp in UTC.
	Date struct {
		Value string   `json:"value"`
		Type  DateType `json:"dateType"`
	}

	PersonName struct {
		Value string   `json:"value"`
		Type  NameType `json:"nameType,omitempty"`
	}

	Creator struct {
		Name         PersonName `json:"creatorName"`
		GivenName    string     `json:"givenName,omitempty"`
		FamilyName   string     `json:"familyName,omitempty"`
		Affiliations []string   `json:"affiliations,omitempty"`
	}

	Rights struct {
		Value string `json:"value"`
	}

	Box struct {
		West  float64 `json:"westBoundLongitude"`
		East  float64 `json:"eastBoundLongitude"`
		South float64 `json:"southBoundLatitude"`
		North float64 `json:"northBoundLatitude"`
	}

	GeoLocation struct {
		Box *Box `json:"geoLocationBox,omitempty"`
	}

	Subject struct {
		Value string `json:"value"`
		Lang  string `json:"lang,omitempty"`
	}

	ResourceType struct {
		Value   string              `json:"value"`
		General ResourceTypeGeneral `json:"resourceTypeGeneral"`
	}

	WebLink struct {
		URL  string      `json:"webLinkURI"`
		Name string      `json:"webLinkName"`
		Type WebLinkType `json:"webLinkType,omitempty"`
	}

	// ResearchData is a downloadable file belonging to the harvested item.
	ResearchData struct {
		URL   string `json:"researchDataURL"`
		Label string `json:"researchDataLabel"`
		Type  string `json:"researchDataType,omitempty"`
	}
)

// New returns a document carrying identifier and the static repository fields.
func New(id, language string) *Document {
	if language == "" {
		language = DefaultLanguage
	}
	disciplines := make([]string, len(ResearchDisciplines))
	copy(disciplines, ResearchDisciplines)
	return &Document{
		Identifier:          Identifier{Value: id},
		Language:            language,
		Publisher:           Publisher,
		RepositoryID:        RepositoryID,
		ResearchDisciplines: disciplines,
	}
}
