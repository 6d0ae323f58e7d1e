package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recycling-admin-backend/config"
	"recycling-admin-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cache *mw.ResponseCache, cfg *config.Config, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.Logger(log), gin.Recovery())

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	api.Use(mw.RateLimiter(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst))

	// Login and push key discovery stay reachable without a session.
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/session", h.GetSession)
	api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

	admin := api.Group("")
	admin.Use(h.sessions.Authenticate(cfg.Auth.Enabled))
	{
		admin.GET("/subscriptions", h.GetSubscription)
		admin.PUT("/subscriptions", h.PutSubscription)
		admin.DELETE("/subscriptions", h.DeleteSubscription)

		admin.GET("/logs", h.GetLogs)

		admin.POST("/devices/:id/restart", h.RestartDevice)
		admin.POST("/tasks/:id/start", h.StartTask)
		admin.POST("/tasks/:id/complete", h.CompleteTask)
		admin.POST("/alerts/:id/process", h.ProcessAlert)

		caching := cache.Middleware()
		admin.GET("/dashboard", caching, h.GetDashboard)
		admin.GET("/leaderboard", caching, h.GetLeaderboard)
		admin.GET("/smart-schedule", caching, h.GetSmartSchedule)
		admin.GET("/analytics", h.GetAnalytics)

		for kind, routes := range h.entities() {
			base := "/" + string(kind)
			admin.GET(base, caching, routes.list)
			admin.POST(base, routes.create)
			admin.DELETE(base, routes.batchRemove)
			admin.GET(base+"/:id", caching, routes.get)
			admin.PATCH(base+"/:id", routes.update)
			admin.PUT(base+"/:id", routes.update)
			admin.DELETE(base+"/:id", routes.remove)
		}
	}

	return r
}
