package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"gorm.io/gorm"

	"github.com/mrlokans/mapharvest/internal/entities"
	"github.com/mrlokans/mapharvest/internal/etl"
	"github.com/mrlokans/mapharvest/internal/tasks"
)

// ETLInfo describes a registered ETL and its last harvest.
type ETLInfo struct {
	Name    string                 `json:"name"`
	BaseURL string                 `json:"base_url"`
	GroupID string                 `json:"group_id"`
	Running bool                   `json:"running"`
	State   *entities.HarvestState `json:"state,omitempty"`
}

// HarvestResponse is returned when a harvest task has been enqueued.
type HarvestResponse struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
	ETL    string `json:"etl,omitempty"`
	Force  bool   `json:"force"`
}

type ETLsController struct {
	registry ETLRegistry
	states   StateReader
	tasks    TaskQueue
}

func NewETLsController(registry ETLRegistry, states StateReader, queue TaskQueue) *ETLsController {
	return &ETLsController{registry: registry, states: states, tasks: queue}
}

func (ec *ETLsController) info(e *etl.ETL, state *entities.HarvestState) ETLInfo {
	return ETLInfo{
		Name:    e.Name,
		BaseURL: e.BaseURL,
		GroupID: e.GroupID,
		Running: ec.registry.IsRunning(e.Name),
		State:   state,
	}
}

// List handles GET /api/etls
func (ec *ETLsController) List(c *gin.Context) {
	states, err := ec.states.List()
	if err != nil {
		respondInternalError(c, err, "list harvest states")
		return
	}
	byName := make(map[string]*entities.HarvestState, len(states))
	for i := range states {
		byName[states[i].ETLName] = &states[i]
	}

	etls := ec.registry.ETLs()
	infos := make([]ETLInfo, 0, len(etls))
	for _, e := range etls {
		infos = append(infos, ec.info(e, byName[e.Name]))
	}
	c.JSON(http.StatusOK, gin.H{"etls": infos, "count": len(infos)})
}

// Show handles GET /api/etls/:name
func (ec *ETLsController) Show(c *gin.Context) {
	e, ok := ec.registry.Get(c.Param("name"))
	if !ok {
		respondNotFound(c, "etl")
		return
	}

	state, err := ec.states.Get(e.Name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = nil
	} else if err != nil {
		respondInternalError(c, err, "get harvest state")
		return
	}
	c.JSON(http.StatusOK, ec.info(e, state))
}

// HarvestAll handles POST /api/etls/harvest
func (ec *ETLsController) HarvestAll(c *gin.Context) {
	force, ok := parseBoolQuery(c, "force")
	if !ok {
		return
	}
	ec.enqueue(c, tasks.HarvestAllTask{Force: force}, HarvestResponse{Queue: tasks.QueueHarvestAll, Force: force})
}

// Harvest handles POST /api/etls/:name/harvest
func (ec *ETLsController) Harvest(c *gin.Context) {
	name := c.Param("name")
	if _, ok := ec.registry.Get(name); !ok {
		respondNotFound(c, "etl")
		return
	}
	force, ok := parseBoolQuery(c, "force")
	if !ok {
		return
	}
	ec.enqueue(c, tasks.HarvestETLTask{Name: name, Force: force}, HarvestResponse{Queue: tasks.QueueHarvestETL, ETL: name, Force: force})
}

func (ec *ETLsController) enqueue(c *gin.Context, task backlite.Task, resp HarvestResponse) {
	if ec.tasks == nil {
		respondError(c, http.StatusServiceUnavailable, "tasks_disabled", "task queue is disabled")
		return
	}
	id, err := ec.tasks.Enqueue(task)
	if err != nil {
		respondInternalError(c, err, "enqueue harvest")
		return
	}
	resp.TaskID = id
	c.JSON(http.StatusAccepted, resp)
}
