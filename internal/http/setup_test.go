package http

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mapharvest/internal/arcgis"
	"github.com/mrlokans/mapharvest/internal/config"
	"github.com/mrlokans/mapharvest/internal/database"
	"github.com/mrlokans/mapharvest/internal/database/documents"
	"github.com/mrlokans/mapharvest/internal/database/harvests"
	"github.com/mrlokans/mapharvest/internal/etl"
	"github.com/mrlokans/mapharvest/internal/harvester"
	"github.com/mrlokans/mapharvest/internal/sink"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []backlite.Task
	statuses map[string]backlite.TaskStatus
	err      error
}

func (q *fakeQueue) Enqueue(task backlite.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.enqueued = append(q.enqueued, task)
	return "task-1", nil
}

func (q *fakeQueue) Status(_ context.Context, id string) (backlite.TaskStatus, error) {
	if q.err != nil {
		return backlite.TaskStatusNotFound, q.err
	}
	status, ok := q.statuses[id]
	if !ok {
		return backlite.TaskStatusNotFound, nil
	}
	return status, nil
}

type testEnv struct {
	db        *database.Database
	states    *harvests.Repository
	documents *documents.Repository
	registry  *harvester.Harvester
	queue     *fakeQueue
	router    *gin.Engine
}

func setupTestEnv(t *testing.T, authCfg config.Auth) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(database.DriverSQLite, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:        db,
		states:    harvests.NewRepository(db.DB),
		documents: documents.NewRepository(db.DB),
		queue:     &fakeQueue{statuses: map[string]backlite.TaskStatus{"task-1": backlite.TaskStatusRunning}},
	}
	env.registry = harvester.New(env.states, sink.NewDatabaseSink(env.documents))
	env.registry.Register(
		etl.New("Rivers_EsriHarvester", arcgis.EsriBaseURL, "g-rivers", nil),
		etl.New("Oceans_EsriHarvester", arcgis.EsriBaseURL, "g-oceans", nil),
	)

	env.router = NewRouter(RouterConfig{
		Database:  db,
		Registry:  env.registry,
		States:    env.states,
		Documents: env.documents,
		Tasks:     env.queue,
		Auth:      authCfg,
		Version:   "test",
	})
	return env
}

func (env *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

var errQueueDown = errors.New("queue down")
