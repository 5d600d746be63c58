package etl

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strconv"

	"github.com/mrlokans/mapharvest/internal/arcgis"
)

var errMalformedInfo = errors.New("count query returned no usable total")

// Unit is one extracted item together with everything needed to transform it.
type Unit struct {
	Map    arcgis.Map
	Owner  *arcgis.User
	Groups []arcgis.FeaturedGroup
}

// Extractor walks all items shared with one group.
type Extractor struct {
	src     Source
	groupID string

	size        int
	version     string
	groups      []arcgis.FeaturedGroup
	initialized bool
}

// NewExtractor creates an extractor for groupID. Call Init before Extract.
func NewExtractor(src Source, groupID string) *Extractor {
	return &Extractor{
		src:     src,
		groupID: groupID,
		size:    -1,
	}
}

// Init sizes the group, computes its version fingerprint and loads the group
// records whose tags are shared by every item.
func (e *Extractor) Init(ctx context.Context) error {
	info, err := e.src.SearchInfo(ctx, e.groupID)
	if err != nil {
		return &InitializationError{GroupID: e.groupID, Err: err}
	}
	if info == nil || info.Total < 0 {
		return &InitializationError{GroupID: e.groupID, Err: errMalformedInfo}
	}

	groups, err := e.src.GroupsByQuery(ctx, e.groupID)
	if err != nil {
		return &InitializationError{GroupID: e.groupID, Err: err}
	}

	e.size = info.Total
	e.version = info.Query + strconv.Itoa(info.Total)
	e.groups = groups
	e.initialized = true

	slog.Debug("Extractor: initialized", "group", e.groupID, "total", e.size, "featured_groups", len(groups))
	return nil
}

// Size returns the number of items in the group, or -1 before Init.
func (e *Extractor) Size() int {
	return e.size
}

// VersionString identifies the group content seen by the last Init.
func (e *Extractor) VersionString() string {
	return e.version
}

// FeaturedGroups returns the group records loaded by Init.
func (e *Extractor) FeaturedGroups() []arcgis.FeaturedGroup {
	return e.groups
}

// Extract returns a lazy sequence over every item of the group, in server
// order. Only one page is buffered at a time. The sequence can be ranged over
// once; fatal errors are yielded last.
func (e *Extractor) Extract(ctx context.Context) iter.Seq2[Unit, error] {
	consumed := false
	return func(yield func(Unit, error) bool) {
		if !e.initialized {
			yield(Unit{}, ErrNotInitialized)
			return
		}
		if consumed {
			yield(Unit{}, ErrSequenceConsumed)
			return
		}
		consumed = true

		cursor := Cursor{Start: StartCursor}
		var page []arcgis.Map
		for {
			if len(page) == 0 {
				if cursor.Done() {
					return
				}
				var err error
				page, cursor, err = NextBatch(ctx, e.src, e.groupID, cursor)
				if err != nil {
					yield(Unit{}, err)
					return
				}
				continue
			}

			record := page[0]
			page = page[1:]

			if record.ID == "" {
				err := &MalformedRecordError{GroupID: e.groupID, Title: record.Title, Reason: "missing id"}
				if !yield(Unit{}, err) {
					return
				}
				continue
			}

			owner, err := e.owner(ctx, record.Owner)
			if err != nil {
				yield(Unit{}, err)
				return
			}

			if !yield(Unit{Map: record, Owner: owner, Groups: e.groups}, nil) {
				return
			}
		}
	}
}

func (e *Extractor) owner(ctx context.Context, username string) (*arcgis.User, error) {
	if username == "" {
		return nil, nil
	}
	user, err := e.src.User(ctx, username)
	if err != nil {
		return nil, &PageFetchError{GroupID: e.groupID, Owner: username, Err: err}
	}
	return user, nil
}
