package etl

import (
	"context"
	"fmt"

	"github.com/mrlokans/mapharvest/internal/arcgis"
)

type fakeSource struct {
	info      *arcgis.SearchResponse[arcgis.Map]
	infoErr   error
	pages     map[int]*arcgis.SearchResponse[arcgis.Map]
	pageErrs  map[int]error
	users     map[string]*arcgis.User
	userErr   error
	groups    []arcgis.FeaturedGroup
	groupsErr error

	pageCalls  []int
	userCalls  []string
	groupQuery string
}

func (f *fakeSource) SearchInfo(_ context.Context, groupID string) (*arcgis.SearchResponse[arcgis.Map], error) {
	return f.info, f.infoErr
}

func (f *fakeSource) SearchPage(_ context.Context, groupID string, start int) (*arcgis.SearchResponse[arcgis.Map], error) {
	f.pageCalls = append(f.pageCalls, start)
	if err := f.pageErrs[start]; err != nil {
		return nil, err
	}
	page, ok := f.pages[start]
	if !ok {
		return nil, fmt.Errorf("unexpected page %d", start)
	}
	return page, nil
}

func (f *fakeSource) User(_ context.Context, username string) (*arcgis.User, error) {
	f.userCalls = append(f.userCalls, username)
	if f.userErr != nil {
		return nil, f.userErr
	}
	if user, ok := f.users[username]; ok {
		return user, nil
	}
	return &arcgis.User{Username: username, FullName: username}, nil
}

func (f *fakeSource) GroupsByQuery(_ context.Context, query string) ([]arcgis.FeaturedGroup, error) {
	f.groupQuery = query
	return f.groups, f.groupsErr
}

func makeMaps(from, count int) []arcgis.Map {
	maps := make([]arcgis.Map, 0, count)
	for i := from; i < from+count; i++ {
		maps = append(maps, arcgis.Map{
			ID:    fmt.Sprintf("item-%03d", i),
			Title: fmt.Sprintf("Map %03d", i),
			Owner: fmt.Sprintf("owner-%d", i%3),
			Type:  TypeWebMap,
		})
	}
	return maps
}

// twoPageSource serves 100 items as two pages of 50.
func twoPageSource() *fakeSource {
	return &fakeSource{
		info: &arcgis.SearchResponse[arcgis.Map]{Query: " group:g1 ", Total: 100},
		pages: map[int]*arcgis.SearchResponse[arcgis.Map]{
			1:  {Total: 100, Start: 1, Num: 50, NextStart: 51, Results: makeMaps(1, 50)},
			51: {Total: 100, Start: 51, Num: 50, NextStart: -1, Results: makeMaps(51, 50)},
		},
		groups: []arcgis.FeaturedGroup{{ID: "g1", Title: "Atlas", Tags: []string{"atlas"}}},
	}
}
