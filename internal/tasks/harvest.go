package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/mapharvest/internal/harvester"
)

const (
	QueueHarvestETL = "harvest_etl"
	QueueHarvestAll = "harvest_all"
)

// Runner executes harvests. *harvester.Harvester satisfies it.
type Runner interface {
	Run(ctx context.Context, name string, force bool) (*harvester.Result, error)
	RunAll(ctx context.Context, force bool) ([]harvester.Result, error)
}

// HarvestETLTask harvests one ETL.
type HarvestETLTask struct {
	Name  string `json:"name"`
	Force bool   `json:"force,omitempty"`
}

// Config returns the queue configuration for single ETL harvests.
func (t HarvestETLTask) Config() backlite.QueueConfig {
	return harvestQueueConfig(QueueHarvestETL)
}

// HarvestAllTask harvests every registered ETL in turn.
type HarvestAllTask struct {
	Force bool `json:"force,omitempty"`
}

// Config returns the queue configuration for full harvests.
func (t HarvestAllTask) Config() backlite.QueueConfig {
	return harvestQueueConfig(QueueHarvestAll)
}

func harvestQueueConfig(name string) backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        name,
		MaxAttempts: queueConfig.MaxRetries,
		Backoff:     queueConfig.RetryDelay,
		Timeout:     queueConfig.TaskTimeout,
		Retention: &backlite.Retention{
			Duration:   queueConfig.RetentionDuration,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// HarvestETLProcessor creates a processor function for HarvestETLTask.
// A harvest already in progress is not an error: the task completes without
// retrying, as the running harvest covers the request.
func HarvestETLProcessor(runner Runner) backlite.QueueProcessor[HarvestETLTask] {
	return func(ctx context.Context, task HarvestETLTask) error {
		if runner == nil {
			return fmt.Errorf("harvester not configured")
		}

		result, err := runner.Run(ctx, task.Name, task.Force)
		if errors.Is(err, harvester.ErrAlreadyRunning) {
			slog.Info("Tasks: harvest already running, dropping request", "etl", task.Name)
			return nil
		}
		if err != nil {
			return fmt.Errorf("harvest %s: %w", task.Name, err)
		}

		slog.Info("Tasks: harvest finished",
			"etl", result.ETLName,
			"harvested", result.Harvested,
			"malformed", result.Malformed,
			"skipped", result.Skipped)
		return nil
	}
}

// HarvestAllProcessor creates a processor function for HarvestAllTask.
func HarvestAllProcessor(runner Runner) backlite.QueueProcessor[HarvestAllTask] {
	return func(ctx context.Context, task HarvestAllTask) error {
		if runner == nil {
			return fmt.Errorf("harvester not configured")
		}

		results, err := runner.RunAll(ctx, task.Force)

		var harvested, skipped int
		for _, r := range results {
			harvested += r.Harvested
			if r.Skipped {
				skipped++
			}
		}
		slog.Info("Tasks: full harvest finished", "etls", len(results), "skipped", skipped, "documents", harvested)

		if err != nil {
			return fmt.Errorf("harvest all: %w", err)
		}
		return nil
	}
}

// NewHarvestETLQueue creates a backlite queue for single ETL harvests.
func NewHarvestETLQueue(runner Runner) backlite.Queue {
	return backlite.NewQueue(HarvestETLProcessor(runner))
}

// NewHarvestAllQueue creates a backlite queue for full harvests.
func NewHarvestAllQueue(runner Runner) backlite.Queue {
	return backlite.NewQueue(HarvestAllProcessor(runner))
}
