package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/simulator"
	"recycling-admin-backend/internal/store"
)

// RestartDevice handles POST /api/devices/:id/restart. The device reports
// "restarting" immediately and returns to normal in the background.
func (h *Handler) RestartDevice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	d, _, err := h.sim.Restart(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	if errors.Is(err, simulator.ErrAlreadyRestarting) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.record(c, "重启设备", model.KindDevices, d.ID)
	c.JSON(http.StatusAccepted, d)
}

// StartTask handles POST /api/tasks/:id/start.
func (h *Handler) StartTask(c *gin.Context) {
	h.transition(c, model.KindTasks, "开始任务", func(id string) (any, error) {
		return h.store.StartTask(id)
	})
}

// CompleteTask handles POST /api/tasks/:id/complete.
func (h *Handler) CompleteTask(c *gin.Context) {
	h.transition(c, model.KindTasks, "完成任务", func(id string) (any, error) {
		return h.store.CompleteTask(id)
	})
}

// ProcessAlert handles POST /api/alerts/:id/process.
func (h *Handler) ProcessAlert(c *gin.Context) {
	h.transition(c, model.KindAlerts, "处理告警", func(id string) (any, error) {
		return h.store.ProcessAlert(id)
	})
}

func (h *Handler) transition(c *gin.Context, kind model.Kind, action string, apply func(id string) (any, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rec, err := apply(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.record(c, action, kind, id)
	c.JSON(http.StatusOK, rec)
}
