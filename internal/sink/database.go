package sink

import (
	"context"
	"fmt"

	"github.com/mrlokans/mapharvest/internal/datacite"
)

// DocumentStore persists documents keyed by identifier.
type DocumentStore interface {
	Upsert(etlName, version string, doc *datacite.Document) error
}

// DatabaseSink writes documents to the local database.
type DatabaseSink struct {
	store DocumentStore
}

func NewDatabaseSink(store DocumentStore) *DatabaseSink {
	return &DatabaseSink{store: store}
}

func (s *DatabaseSink) Put(_ context.Context, etlName, version string, doc *datacite.Document) error {
	if err := s.store.Upsert(etlName, version, doc); err != nil {
		return fmt.Errorf("failed to store document %s: %w", doc.Identifier.Value, err)
	}
	return nil
}
