// Package sink delivers harvested documents to their destinations.
package sink

import (
	"context"
	"errors"

	"github.com/mrlokans/mapharvest/internal/datacite"
)

// Sink receives every document of a harvest run, one at a time.
type Sink interface {
	Put(ctx context.Context, etlName, version string, doc *datacite.Document) error
}

// Multi fans documents out to several sinks. Every sink sees every document;
// the errors of all failing sinks are joined.
type Multi []Sink

func (m Multi) Put(ctx context.Context, etlName, version string, doc *datacite.Document) error {
	var errs []error
	for _, s := range m {
		if err := s.Put(ctx, etlName, version, doc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
