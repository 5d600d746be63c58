package etl

import (
	"context"
	"fmt"

	"github.com/mrlokans/mapharvest/internal/arcgis"
)

const (
	// StartCursor is the 1-based offset of the first search page.
	StartCursor = 1
	// EndCursor is the nextStart value the portal returns after the last page.
	EndCursor = -1
)

// Source is the subset of the portal API the extractor depends on.
type Source interface {
	SearchInfo(ctx context.Context, groupID string) (*arcgis.SearchResponse[arcgis.Map], error)
	SearchPage(ctx context.Context, groupID string, start int) (*arcgis.SearchResponse[arcgis.Map], error)
	User(ctx context.Context, username string) (*arcgis.User, error)
	GroupsByQuery(ctx context.Context, query string) ([]arcgis.FeaturedGroup, error)
}

// Cursor is the pagination state of one extraction.
type Cursor struct {
	Start int
}

// Done reports whether no more pages remain.
func (c Cursor) Done() bool {
	return c.Start == EndCursor
}

// NextBatch fetches the page at cur and returns its records with the cursor of
// the following page. A finished cursor returns no records and no request is made.
func NextBatch(ctx context.Context, src Source, groupID string, cur Cursor) ([]arcgis.Map, Cursor, error) {
	if cur.Done() {
		return nil, cur, nil
	}

	page, err := src.SearchPage(ctx, groupID, cur.Start)
	if err != nil {
		return nil, cur, &PageFetchError{GroupID: groupID, Start: cur.Start, Err: err}
	}
	if page == nil {
		return nil, cur, &PageFetchError{GroupID: groupID, Start: cur.Start, Err: arcgis.ErrEmptyResponse}
	}

	next := Cursor{Start: page.NextStart}
	if !next.Done() && next.Start <= cur.Start {
		return nil, cur, &PageFetchError{
			GroupID: groupID,
			Start:   cur.Start,
			Err:     fmt.Errorf("cursor did not advance: nextStart %d after start %d", next.Start, cur.Start),
		}
	}

	return page.Results, next, nil
}
