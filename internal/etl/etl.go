package etl

import (
	"context"
	"iter"

	"github.com/mrlokans/mapharvest/internal/datacite"
)

// ETL harvests the items of one group of one portal.
type ETL struct {
	Name    string
	BaseURL string
	GroupID string

	extractor *Extractor
}

// New creates an ETL reading group groupID through src.
func New(name, baseURL, groupID string, src Source) *ETL {
	return &ETL{
		Name:      name,
		BaseURL:   baseURL,
		GroupID:   groupID,
		extractor: NewExtractor(src, groupID),
	}
}

// Init refreshes size, version and featured groups. It must precede Documents
// on every run.
func (e *ETL) Init(ctx context.Context) error {
	return e.extractor.Init(ctx)
}

// Size is the item count seen by the last Init, or -1.
func (e *ETL) Size() int {
	return e.extractor.Size()
}

// VersionString is the content fingerprint seen by the last Init.
func (e *ETL) VersionString() string {
	return e.extractor.VersionString()
}

// Documents returns the lazy sequence of harvested documents.
func (e *ETL) Documents(ctx context.Context) iter.Seq2[*datacite.Document, error] {
	transformer := NewTransformer(e.BaseURL, e.extractor.FeaturedGroups())
	return transformer.Transform(e.extractor.Extract(ctx))
}
