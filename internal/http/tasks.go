package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mapharvest/internal/tasks"
)

// TasksController reports the status of queued harvests.
type TasksController struct {
	queue TaskQueue
}

func NewTasksController(queue TaskQueue) *TasksController {
	return &TasksController{queue: queue}
}

// Status handles GET /api/tasks/:id
func (tc *TasksController) Status(c *gin.Context) {
	if tc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "tasks_disabled", "task queue is disabled")
		return
	}

	taskID := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	name := tasks.StatusName(status)
	code := http.StatusOK
	if name == "not_found" {
		code = http.StatusNotFound
	}
	c.JSON(code, gin.H{
		"id":     taskID,
		"status": name,
	})
}
