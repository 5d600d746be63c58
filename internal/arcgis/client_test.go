package arcgis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, Options{})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_SearchInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sharing/rest/search", r.URL.Path)
		assert.Equal(t, " group:abc123 ", r.URL.Query().Get("q"))
		assert.Equal(t, "0", r.URL.Query().Get("num"))
		assert.Equal(t, "json", r.URL.Query().Get("f"))
		writeJSON(t, w, map[string]any{"query": " group:abc123 ", "total": 240, "results": []any{}})
	})

	resp, err := client.SearchInfo(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, " group:abc123 ", resp.Query)
	assert.Equal(t, 240, resp.Total)
	assert.Empty(t, resp.Results)
}

func TestClient_SearchPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "title", q.Get("sortField"))
		assert.Equal(t, "asc", q.Get("sortOrder"))
		assert.Equal(t, "101", q.Get("start"))
		assert.Equal(t, "100", q.Get("num"))
		writeJSON(t, w, map[string]any{
			"query":     " group:g1 ",
			"total":     102,
			"start":     101,
			"num":       100,
			"nextStart": -1,
			"results": []map[string]any{
				{"id": "a1", "title": "Rivers", "type": "Web Map", "extent": [][]float64{{-10.5, 60}, {30, 35.25}}},
				{"id": "a2", "title": "Roads", "type": "Feature Service", "extent": []any{}},
			},
		})
	})

	resp, err := client.SearchPage(context.Background(), "g1", 101)
	require.NoError(t, err)
	assert.Equal(t, -1, resp.NextStart)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "a1", resp.Results[0].ID)
	assert.Equal(t, []Point{{Lon: -10.5, Lat: 60}, {Lon: 30, Lat: 35.25}}, resp.Results[0].Extent)
	assert.Empty(t, resp.Results[1].Extent)
}

func TestClient_User(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sharing/rest/community/users/jdoe", r.URL.Path)
		writeJSON(t, w, map[string]any{"username": "jdoe", "fullName": "Jane Doe", "firstName": "Jane", "lastName": "Doe", "provider": "arcgis"})
	})

	user, err := client.User(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", user.FullName)
	assert.Equal(t, "arcgis", user.Provider)
}

func TestClient_GroupsByQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sharing/rest/community/groups", r.URL.Path)
		assert.Equal(t, `title:"Living Atlas" AND owner:esri`, r.URL.Query().Get("q"))
		writeJSON(t, w, map[string]any{"results": []map[string]any{
			{"id": "g1", "title": "Living Atlas", "tags": []string{"atlas", "maps"}},
		}})
	})

	groups, err := client.GroupsByQuery(context.Background(), `title:"Living Atlas" AND owner:esri`)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"atlas", "maps"}, groups[0].Tags)
}

func TestClient_Overview(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sharing/rest/portals/self", r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("culture"))
		writeJSON(t, w, map[string]any{
			"name":                  "Esri",
			"featuredGroups":        []map[string]any{{"id": "", "title": "Featured"}},
			"livingAtlasGroupQuery": `title:"Living Atlas"`,
		})
	})

	overview, err := client.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `title:"Living Atlas"`, overview.LivingAtlasGroupQuery)
	require.Len(t, overview.FeaturedGroups, 1)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "error envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, map[string]any{"error": map[string]any{"code": 400, "message": "Invalid query"}})
			},
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, 400, apiErr.Code)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyResponse)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"total": "many"`))
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to decode")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.SearchInfo(context.Background(), "g1")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestPoint_UnmarshalJSON(t *testing.T) {
	var p Point
	require.NoError(t, json.Unmarshal([]byte(`[12.5, -3]`), &p))
	assert.Equal(t, Point{Lon: 12.5, Lat: -3}, p)

	require.NoError(t, json.Unmarshal([]byte(`[1, 2, 3]`), &p))
	assert.Equal(t, Point{Lon: 1, Lat: 2}, p)

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &p))
	assert.Error(t, json.Unmarshal([]byte(`"1,2"`), &p))
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "http://arcgis.com/home/item.html?id=abc", ItemViewURL(ArcGISBaseURL, "abc"))
	assert.Equal(t,
		"http://arcgis.com/sharing/rest/content/items/abc/info/thumbnail/big.png",
		ItemThumbnailURL(ArcGISBaseURL, "abc", "thumbnail/big.png"))
	assert.Equal(t, " group:g1 ", GroupQuery("g1"))
}
