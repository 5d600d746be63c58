package harvester

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mrlokans/mapharvest/internal/arcgis"
	"github.com/mrlokans/mapharvest/internal/datacite"
)

// fakePortal serves groups whose items are listed in single pages.
type fakePortal struct {
	overview  *arcgis.Overview
	atlas     []arcgis.FeaturedGroup
	items     map[string][]arcgis.Map
	pageErr   error
	infoErr   error
	pageCalls int
}

func (f *fakePortal) Overview(context.Context) (*arcgis.Overview, error) {
	if f.overview == nil {
		return nil, errors.New("portal unavailable")
	}
	return f.overview, nil
}

func (f *fakePortal) SearchInfo(_ context.Context, groupID string) (*arcgis.SearchResponse[arcgis.Map], error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	items := f.items[groupID]
	return &arcgis.SearchResponse[arcgis.Map]{Query: arcgis.GroupQuery(groupID), Total: len(items)}, nil
}

func (f *fakePortal) SearchPage(_ context.Context, groupID string, start int) (*arcgis.SearchResponse[arcgis.Map], error) {
	f.pageCalls++
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return &arcgis.SearchResponse[arcgis.Map]{Start: start, NextStart: -1, Results: f.items[groupID]}, nil
}

func (f *fakePortal) User(_ context.Context, username string) (*arcgis.User, error) {
	return &arcgis.User{Username: username, FullName: username}, nil
}

func (f *fakePortal) GroupsByQuery(_ context.Context, query string) ([]arcgis.FeaturedGroup, error) {
	if f.atlas != nil {
		return f.atlas, nil
	}
	return []arcgis.FeaturedGroup{{ID: query, Title: query, Tags: []string{"shared"}}}, nil
}

func itemsFor(group string, n int) []arcgis.Map {
	items := make([]arcgis.Map, n)
	for i := range items {
		items[i] = arcgis.Map{ID: fmt.Sprintf("%s-%d", group, i), Title: fmt.Sprintf("Item %d", i), Owner: "esri", Type: "Web Map"}
	}
	return items
}

type memoryStates struct {
	mu       sync.Mutex
	versions map[string]string
	status   map[string]string
	progress map[string]int
	errors   map[string]string
}

func newMemoryStates() *memoryStates {
	return &memoryStates{
		versions: make(map[string]string),
		status:   make(map[string]string),
		progress: make(map[string]int),
		errors:   make(map[string]string),
	}
}

func (m *memoryStates) LastVersion(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[name], nil
}

func (m *memoryStates) StartHarvest(name, _, _, _ string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[name] = "running"
	m.progress[name] = 0
	return nil
}

func (m *memoryStates) UpdateProgress(name string, processed, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[name] = processed
	return nil
}

func (m *memoryStates) CompleteHarvest(name, version string, succeeded bool, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if succeeded {
		m.status[name] = "completed"
		m.versions[name] = version
	} else {
		m.status[name] = "failed"
	}
	m.errors[name] = errorMsg
	return nil
}

func (m *memoryStates) MarkSkipped(name, _, _, _ string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[name] = "skipped"
	return nil
}

func (m *memoryStates) IsHarvestRunning(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status[name] == "running", nil
}

type memorySink struct {
	mu   sync.Mutex
	docs map[string][]string
	err  error
}

func (s *memorySink) Put(_ context.Context, etlName, _ string, doc *datacite.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.docs == nil {
		s.docs = make(map[string][]string)
	}
	s.docs[etlName] = append(s.docs[etlName], doc.Identifier.Value)
	return nil
}
