package etl

import (
	"iter"

	"github.com/mrlokans/mapharvest/internal/arcgis"
	"github.com/mrlokans/mapharvest/internal/datacite"
)

// Transformer turns extracted units into documents for one run.
type Transformer struct {
	baseURL       string
	groupSubjects []datacite.Subject
}

// NewTransformer prepares a transformer for items of the portal at baseURL.
// Group subjects are derived here, once per run.
func NewTransformer(baseURL string, groups []arcgis.FeaturedGroup) *Transformer {
	return &Transformer{
		baseURL:       baseURL,
		groupSubjects: GroupSubjects(groups),
	}
}

// GroupSubjects returns the subjects shared by every document of the run.
func (t *Transformer) GroupSubjects() []datacite.Subject {
	return t.groupSubjects
}

// TransformUnit builds the document for a single unit. It never fails:
// absent source fields are omitted from the document.
func (t *Transformer) TransformUnit(u Unit) *datacite.Document {
	m := u.Map

	doc := datacite.New(m.ID, m.Culture)
	doc.Titles = Titles(m)
	doc.Descriptions = Descriptions(m)
	doc.Dates = Dates(m)
	doc.Creators = Creators(u.Owner)
	doc.RightsList = Rights(m)
	doc.GeoLocations = GeoLocations(m)
	doc.Subjects = t.subjects(m)
	doc.ResourceType = ResourceType(m)
	doc.WebLinks = WebLinks(m, t.baseURL)
	doc.ResearchData = ResearchData(m)
	return doc
}

func (t *Transformer) subjects(m arcgis.Map) []datacite.Subject {
	own := Subjects(m)
	if len(t.groupSubjects)+len(own) == 0 {
		return nil
	}
	subjects := make([]datacite.Subject, 0, len(t.groupSubjects)+len(own))
	subjects = append(subjects, t.groupSubjects...)
	return append(subjects, own...)
}

// Transform maps units to documents one to one, preserving order. Errors
// from units are passed through unchanged.
func (t *Transformer) Transform(units iter.Seq2[Unit, error]) iter.Seq2[*datacite.Document, error] {
	return func(yield func(*datacite.Document, error) bool) {
		for u, err := range units {
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(t.TransformUnit(u), nil) {
				return
			}
		}
	}
}
