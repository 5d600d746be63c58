package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/mapharvest/internal/datacite"
	"github.com/mrlokans/mapharvest/internal/entities"
	"github.com/mrlokans/mapharvest/internal/etl"
)

// Each controller depends on the narrowest interface it needs.

// Pinger checks storage connectivity.
type Pinger interface {
	Ping() error
}

// ETLRegistry lists the ETLs known to the harvester.
type ETLRegistry interface {
	ETLs() []*etl.ETL
	Get(name string) (*etl.ETL, bool)
	IsRunning(name string) bool
}

// StateReader provides read access to harvest state.
type StateReader interface {
	Get(etlName string) (*entities.HarvestState, error)
	List() ([]entities.HarvestState, error)
}

// DocumentReader provides read access to harvested documents.
type DocumentReader interface {
	Document(identifier string) (*datacite.Document, error)
	List(etlName string, limit, offset int) ([]entities.HarvestedDocument, error)
	Count(etlName string) (int64, error)
}

// TaskQueue enqueues harvest tasks and reports their status.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
