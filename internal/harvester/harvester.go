// Package harvester runs ETLs and keeps their harvest state.
//
// A run initialises the ETL, compares its version fingerprint with the last
// completed run and, when the group changed (or the run is forced), streams
// every document into the configured sink.
package harvester

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/mapharvest/internal/etl"
	"github.com/mrlokans/mapharvest/internal/sink"
)

const defaultProgressEvery = 25

var (
	// ErrUnknownETL indicates no ETL is registered under the requested name
	ErrUnknownETL = errors.New("unknown ETL")

	// ErrAlreadyRunning indicates the ETL is being harvested by another run
	ErrAlreadyRunning = errors.New("harvest already running")
)

// StateStore persists harvest progress and the last completed version.
type StateStore interface {
	LastVersion(etlName string) (string, error)
	StartHarvest(etlName, baseURL, groupID, runID string, totalItems int) error
	UpdateProgress(etlName string, processed, malformed int) error
	CompleteHarvest(etlName, version string, succeeded bool, errorMsg string) error
	MarkSkipped(etlName, baseURL, groupID, runID string, totalItems int) error
	IsHarvestRunning(etlName string) (bool, error)
}

// Result summarises one run.
type Result struct {
	ETLName   string        `json:"etl_name"`
	RunID     string        `json:"run_id"`
	Version   string        `json:"version"`
	Total     int           `json:"total"`
	Harvested int           `json:"harvested"`
	Malformed int           `json:"malformed"`
	Skipped   bool          `json:"skipped"`
	Duration  time.Duration `json:"duration"`
}

// Harvester is the registry of ETLs and the harness that runs them.
type Harvester struct {
	states        StateStore
	sink          sink.Sink
	progressEvery int

	mu      sync.Mutex
	etls    map[string]*etl.ETL
	order   []string
	running map[string]bool
}

// New creates a harvester writing documents to s and state to states.
func New(states StateStore, s sink.Sink) *Harvester {
	return &Harvester{
		states:        states,
		sink:          s,
		progressEvery: defaultProgressEvery,
		etls:          make(map[string]*etl.ETL),
		running:       make(map[string]bool),
	}
}

// Register adds ETLs to the registry; an ETL with a known name replaces the old one.
func (h *Harvester) Register(etls ...*etl.ETL) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.register(etls)
}

// ReplacePortal makes etls the full set of ETLs registered for baseURL.
// ETLs of that portal missing from etls are unregistered and their names
// returned. ETLs of other portals are untouched.
func (h *Harvester) ReplacePortal(baseURL string, etls ...*etl.ETL) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	keep := make(map[string]bool, len(etls))
	for _, e := range etls {
		keep[e.Name] = true
	}

	var removed []string
	order := h.order[:0]
	for _, name := range h.order {
		if h.etls[name].BaseURL == baseURL && !keep[name] {
			delete(h.etls, name)
			removed = append(removed, name)
			continue
		}
		order = append(order, name)
	}
	h.order = order

	h.register(etls)
	return removed
}

func (h *Harvester) register(etls []*etl.ETL) {
	for _, e := range etls {
		if _, exists := h.etls[e.Name]; !exists {
			h.order = append(h.order, e.Name)
		}
		h.etls[e.Name] = e
	}
}

// ETLs returns the registered ETLs in registration order.
func (h *Harvester) ETLs() []*etl.ETL {
	h.mu.Lock()
	defer h.mu.Unlock()
	etls := make([]*etl.ETL, 0, len(h.order))
	for _, name := range h.order {
		etls = append(etls, h.etls[name])
	}
	return etls
}

// Get returns a registered ETL by name.
func (h *Harvester) Get(name string) (*etl.ETL, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.etls[name]
	return e, ok
}

// IsRunning reports whether a run of the named ETL is in progress.
func (h *Harvester) IsRunning(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running[name]
}

func (h *Harvester) acquire(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running[name] {
		return false
	}
	h.running[name] = true
	return true
}

func (h *Harvester) release(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.running, name)
}

// Run harvests one ETL. Unless force is set, a group whose version matches the
// last completed run is skipped without fetching any page.
func (h *Harvester) Run(ctx context.Context, name string, force bool) (*Result, error) {
	e, ok := h.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownETL, name)
	}
	if !h.acquire(name) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, name)
	}
	defer h.release(name)

	// a run started by another process
	busy, err := h.states.IsHarvestRunning(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read state of %s: %w", name, err)
	}
	if busy {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, name)
	}

	started := time.Now()
	result := &Result{ETLName: name, RunID: uuid.NewString()}
	logger := slog.With("etl", name, "run_id", result.RunID)

	if err := e.Init(ctx); err != nil {
		logger.Error("Harvest: initialization failed", "error", err)
		h.recordFailure(e, result.RunID, 0, err)
		return result, err
	}
	result.Version = e.VersionString()
	result.Total = e.Size()

	if !force {
		last, err := h.states.LastVersion(name)
		if err != nil {
			return result, fmt.Errorf("failed to read last version of %s: %w", name, err)
		}
		if last != "" && last == result.Version {
			if err := h.states.MarkSkipped(name, e.BaseURL, e.GroupID, result.RunID, result.Total); err != nil {
				logger.Warn("Harvest: failed to record skipped run", "error", err)
			}
			result.Skipped = true
			result.Duration = time.Since(started)
			logger.Info("Harvest: group unchanged, skipping", "version", result.Version)
			return result, nil
		}
	}

	if err := h.states.StartHarvest(name, e.BaseURL, e.GroupID, result.RunID, result.Total); err != nil {
		return result, fmt.Errorf("failed to record start of %s: %w", name, err)
	}
	logger.Info("Harvest: starting", "total", result.Total, "force", force)

	err = h.consume(ctx, e, result, logger)
	result.Duration = time.Since(started)
	if err != nil {
		logger.Error("Harvest: failed", "harvested", result.Harvested, "error", err)
		if cerr := h.states.CompleteHarvest(name, "", false, err.Error()); cerr != nil {
			logger.Warn("Harvest: failed to record failure", "error", cerr)
		}
		return result, err
	}

	if err := h.states.UpdateProgress(name, result.Harvested, result.Malformed); err != nil {
		logger.Warn("Harvest: failed to record progress", "error", err)
	}
	if err := h.states.CompleteHarvest(name, result.Version, true, ""); err != nil {
		return result, fmt.Errorf("failed to record completion of %s: %w", name, err)
	}

	logger.Info("Harvest: completed",
		"harvested", result.Harvested,
		"malformed", result.Malformed,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

func (h *Harvester) consume(ctx context.Context, e *etl.ETL, result *Result, logger *slog.Logger) error {
	for doc, err := range e.Documents(ctx) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if etl.IsFatal(err) {
				return err
			}
			result.Malformed++
			logger.Warn("Harvest: skipping malformed record", "error", err)
			continue
		}

		if err := h.sink.Put(ctx, e.Name, result.Version, doc); err != nil {
			return err
		}
		result.Harvested++

		if result.Harvested%h.progressEvery == 0 {
			if err := h.states.UpdateProgress(e.Name, result.Harvested, result.Malformed); err != nil {
				logger.Warn("Harvest: failed to record progress", "error", err)
			}
		}
	}
	return nil
}

func (h *Harvester) recordFailure(e *etl.ETL, runID string, total int, cause error) {
	if err := h.states.StartHarvest(e.Name, e.BaseURL, e.GroupID, runID, total); err != nil {
		slog.Warn("Harvest: failed to record failure", "etl", e.Name, "error", err)
		return
	}
	if err := h.states.CompleteHarvest(e.Name, "", false, cause.Error()); err != nil {
		slog.Warn("Harvest: failed to record failure", "etl", e.Name, "error", err)
	}
}

// RunAll harvests every registered ETL in turn. A failing ETL does not stop
// the others; all failures are returned joined. ETLs already being harvested
// are left to that run and not reported as failures.
func (h *Harvester) RunAll(ctx context.Context, force bool) ([]Result, error) {
	var results []Result
	var errs []error
	for _, e := range h.ETLs() {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		result, err := h.Run(ctx, e.Name, force)
		if errors.Is(err, ErrAlreadyRunning) {
			slog.Info("Harvest: already running, skipping", "etl", e.Name)
			continue
		}
		if result != nil {
			results = append(results, *result)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
		}
	}
	return results, errors.Join(errs...)
}
