package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/parse"
	"recycling-admin-backend/internal/store"
)

// entityRoutes are the CRUD handlers of one entity kind.
type entityRoutes struct {
	list        gin.HandlerFunc
	get         gin.HandlerFunc
	create      gin.HandlerFunc
	update      gin.HandlerFunc
	remove      gin.HandlerFunc
	batchRemove gin.HandlerFunc
}

// entities maps every kind tag to its handlers.
func (h *Handler) entities() map[model.Kind]entityRoutes {
	return map[model.Kind]entityRoutes{
		model.KindCategories:  crud(h, h.store.Categories),
		model.KindRewards:     crud(h, h.store.Rewards),
		model.KindActivities:  crud(h, h.store.Activities),
		model.KindNews:        crud(h, h.store.News),
		model.KindUsers:       crud(h, h.store.Users),
		model.KindDevices:     crud(h, h.store.Devices),
		model.KindAlerts:      crud(h, h.store.Alerts),
		model.KindTasks:       crud(h, h.store.Tasks),
		model.KindMaintenance: crud(h, h.store.Maintenance),
	}
}

type batchDeleteRequest struct {
	IDs []any `json:"ids" binding:"required"`
}

func crud[T model.Record[T]](h *Handler, col *store.Collection[T]) entityRoutes {
	kind := col.Kind()
	return entityRoutes{
		list: func(c *gin.Context) {
			c.JSON(http.StatusOK, col.Search(c.Query("q")))
		},

		get: func(c *gin.Context) {
			id, ok := idParam(c)
			if !ok {
				return
			}
			rec, found := col.Get(id)
			if !found {
				c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
				return
			}
			c.JSON(http.StatusOK, rec)
		},

		create: func(c *gin.Context) {
			var fields map[string]any
			if err := c.ShouldBindJSON(&fields); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rec, err := col.CreateFrom(fields)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			h.recordMutation(c, store.Mutation{Kind: kind, Op: store.OpCreate, ID: rec.RecordID()})
			c.JSON(http.StatusCreated, rec)
		},

		update: func(c *gin.Context) {
			id, ok := idParam(c)
			if !ok {
				return
			}
			var patch map[string]any
			if err := c.ShouldBindJSON(&patch); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rec, err := col.Update(id, patch)
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
				return
			}
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			h.recordMutation(c, store.Mutation{Kind: kind, Op: store.OpUpdate, ID: id})
			c.JSON(http.StatusOK, rec)
		},

		remove: func(c *gin.Context) {
			id, ok := idParam(c)
			if !ok {
				return
			}
			res := col.Delete(id)
			if !res.Success {
				c.JSON(http.StatusNotFound, res)
				return
			}
			h.recordMutation(c, store.Mutation{Kind: kind, Op: store.OpDelete, ID: id})
			c.JSON(http.StatusOK, res)
		},

		batchRemove: func(c *gin.Context) {
			var req batchDeleteRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ids, err := parse.IDs(req.IDs)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			deleted, err := h.store.BatchDelete(kind, ids)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if deleted > 0 {
				h.record(c, "批量"+store.ActionFor(store.Mutation{Kind: kind, Op: store.OpDelete}), kind, "")
			}
			c.JSON(http.StatusOK, gin.H{"deleted": deleted})
		},
	}
}
