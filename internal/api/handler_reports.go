package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recycling-admin-backend/internal/fixture"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// GetDashboard handles GET /api/dashboard.
func (h *Handler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, fixture.Dashboard(h.store.Devices.List(), h.store.Alerts.List()))
}

// GetLeaderboard handles GET /api/leaderboard.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, fixture.Leaderboard())
}

// GetAnalytics handles GET /api/analytics.
func (h *Handler) GetAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, fixture.Analytics(h.newRand(), h.store.Devices.List()))
}

// GetSmartSchedule handles GET /api/smart-schedule.
func (h *Handler) GetSmartSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, fixture.SmartSchedule(h.store.Devices.List()))
}

// GetLogs handles GET /api/logs?limit=N.
func (h *Handler) GetLogs(c *gin.Context) {
	limit := defaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxLogLimit)
	}

	if h.oplog == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}
	entries, err := h.oplog.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load operation log"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
