package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mapharvest/internal/harvester"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "tasks.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "tasks.db")

	client, err := NewClient(dbPath, DefaultConfig())
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "tasks database should be created")
	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

type fakeRunner struct {
	mu     sync.Mutex
	runs   []HarvestETLTask
	all    []bool
	runErr error
	allErr error
	done   chan struct{}
}

func (f *fakeRunner) Run(_ context.Context, name string, force bool) (*harvester.Result, error) {
	f.mu.Lock()
	f.runs = append(f.runs, HarvestETLTask{Name: name, Force: force})
	f.mu.Unlock()
	if f.done != nil {
		defer close(f.done)
	}
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &harvester.Result{ETLName: name, Harvested: 3}, nil
}

func (f *fakeRunner) RunAll(_ context.Context, force bool) ([]harvester.Result, error) {
	f.mu.Lock()
	f.all = append(f.all, force)
	f.mu.Unlock()
	return []harvester.Result{{ETLName: "a", Harvested: 2}, {ETLName: "b", Skipped: true}}, f.allErr
}

func TestHarvestETLTask_Enqueue(t *testing.T) {
	client := newTestClient(t)
	runner := &fakeRunner{done: make(chan struct{})}
	client.Register(NewHarvestETLQueue(runner), NewHarvestAllQueue(runner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.Enqueue(HarvestETLTask{Name: "Rivers_EsriHarvester", Force: true})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case <-runner.done:
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Equal(t, []HarvestETLTask{{Name: "Rivers_EsriHarvester", Force: true}}, runner.runs)
}

func TestHarvestETLProcessor(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, HarvestETLProcessor(&fakeRunner{})(ctx, HarvestETLTask{Name: "x"}))

	busy := &fakeRunner{runErr: harvester.ErrAlreadyRunning}
	assert.NoError(t, HarvestETLProcessor(busy)(ctx, HarvestETLTask{Name: "x"}))

	failing := &fakeRunner{runErr: errors.New("portal down")}
	err := HarvestETLProcessor(failing)(ctx, HarvestETLTask{Name: "x"})
	assert.ErrorContains(t, err, "harvest x: portal down")

	assert.Error(t, HarvestETLProcessor(nil)(ctx, HarvestETLTask{Name: "x"}))
}

func TestHarvestAllProcessor(t *testing.T) {
	ctx := context.Background()

	runner := &fakeRunner{}
	require.NoError(t, HarvestAllProcessor(runner)(ctx, HarvestAllTask{Force: true}))
	assert.Equal(t, []bool{true}, runner.all)

	failing := &fakeRunner{allErr: errors.New("a: boom")}
	assert.ErrorContains(t, HarvestAllProcessor(failing)(ctx, HarvestAllTask{}), "harvest all")
}

func TestHarvestTaskConfig(t *testing.T) {
	Configure(Config{MaxRetries: 2, TaskTimeout: 30 * time.Minute})
	t.Cleanup(func() { Configure(DefaultConfig()) })

	cfg := HarvestETLTask{Name: "x"}.Config()
	assert.Equal(t, QueueHarvestETL, cfg.Name)
	assert.Equal(t, 2, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	assert.Equal(t, time.Minute, cfg.Backoff)
	require.NotNil(t, cfg.Retention)
	assert.Equal(t, 7*24*time.Hour, cfg.Retention.Duration)

	all := HarvestAllTask{}.Config()
	assert.Equal(t, QueueHarvestAll, all.Name)
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "pending", StatusName(backlite.TaskStatusPending))
	assert.Equal(t, "success", StatusName(backlite.TaskStatusSuccess))
	assert.Equal(t, "not_found", StatusName(backlite.TaskStatusNotFound))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, 2*time.Hour, cfg.TaskTimeout)
	assert.Equal(t, 3*time.Hour, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
