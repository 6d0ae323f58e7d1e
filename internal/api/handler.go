package api

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recycling-admin-backend/config"
	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/mw"
	"recycling-admin-backend/internal/parse"
	"recycling-admin-backend/internal/simulator"
	"recycling-admin-backend/internal/store"
)

// defaultOperator is recorded in the operation log when no session is present.
const defaultOperator = "admin"

// Deps are the collaborators shared by the API handlers.
type Deps struct {
	Store         *store.Store
	OpLog         store.OpLog
	Subscriptions store.Subscriptions
	Simulator     *simulator.Service
	Sessions      *mw.Sessions
	Auth          config.AuthConfig
	WebPush       *webpush.Options
	Log           *zap.Logger
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    *store.Store
	oplog    store.OpLog
	subs     store.Subscriptions
	sim      *simulator.Service
	sessions *mw.Sessions
	auth     config.AuthConfig
	webpush  *webpush.Options
	log      *zap.Logger
	newRand  func() *rand.Rand
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:    d.Store,
		oplog:    d.OpLog,
		subs:     d.Subscriptions,
		sim:      d.Simulator,
		sessions: d.Sessions,
		auth:     d.Auth,
		webpush:  d.WebPush,
		log:      log.Named("api"),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// idParam reads and canonicalises the :id path parameter, answering 400 on failure.
func idParam(c *gin.Context) (string, bool) {
	id, err := parse.ID(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return "", false
	}
	return id, true
}

// operator names the admin performing the request.
func operator(c *gin.Context) string {
	if user, ok := mw.User(c); ok && user != "" {
		return user
	}
	return defaultOperator
}

// record appends to the operation log. Failures are logged and never fail the request.
func (h *Handler) record(c *gin.Context, action string, kind model.Kind, id string) {
	if h.oplog == nil {
		return
	}
	entry := model.OperationLog{
		User:     operator(c),
		Action:   action,
		Kind:     string(kind),
		RecordID: id,
	}
	if err := h.oplog.Record(context.WithoutCancel(c.Request.Context()), entry); err != nil {
		h.log.Warn("failed to record operation", zap.String("action", action), zap.String("id", id), zap.Error(err))
	}
}

func (h *Handler) recordMutation(c *gin.Context, m store.Mutation) {
	h.record(c, store.ActionFor(m), m.Kind, m.ID)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
