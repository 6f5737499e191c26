package http

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/pathkeeper/backend/internal/domain/storage"
	"github.com/pathkeeper/backend/internal/shared/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	manager *storage.Manager
}

// NewHandlers creates a new handler set
func NewHandlers(manager *storage.Manager) *Handlers {
	return &Handlers{manager: manager}
}

// Register attaches all routes to the router
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/storage/paths", h.ListPaths)
	r.POST("/storage/paths", h.AddPath)
	r.GET("/storage/paths/:id", h.GetPath)
	r.PATCH("/storage/paths/:id", h.UpdatePath)
	r.DELETE("/storage/paths/:id", h.RemovePath)
	r.GET("/storage/paths/:id/stats", h.GetStats)
	r.POST("/storage/check", h.CheckAll)
	r.GET("/storage/select", h.SelectPath)
}

// Root handles the service health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "pathkeeper",
		"enabled": h.manager.Enabled(),
		"storage": h.manager.Stats(),
	})
}

// ListPaths lists every configured path with its cached health status
func (h *Handlers) ListPaths(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"paths": h.manager.ListPaths()})
}

// GetPath returns a single path with its cached health status
func (h *Handlers) GetPath(c *gin.Context) {
	entry, ok := h.manager.GetPath(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, types.Fail(storage.ErrUnknownID.Error()))
		return
	}
	c.JSON(http.StatusOK, entry)
}

// AddPath registers a new storage path
func (h *Handlers) AddPath(c *gin.Context) {
	var cfg types.StoragePathConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("invalid request body: "+err.Error()))
		return
	}

	res := h.manager.AddPath(c.Request.Context(), cfg)
	if !res.Success {
		c.JSON(failureCode(res), res)
		return
	}
	status, _ := h.manager.GetStatus(cfg.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": cfg.ID, "health": status})
}

// UpdatePath applies a partial update to an existing path
func (h *Handlers) UpdatePath(c *gin.Context) {
	var upd types.PathUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("invalid request body: "+err.Error()))
		return
	}

	res := h.manager.UpdatePath(c.Request.Context(), c.Param("id"), upd)
	if !res.Success {
		c.JSON(failureCode(res), res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RemovePath deletes a path and its cached status
func (h *Handlers) RemovePath(c *gin.Context) {
	res := h.manager.RemovePath(c.Param("id"))
	if !res.Success {
		c.JSON(failureCode(res), res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetStats computes on-demand usage figures for a path
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.manager.PathStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrUnknownID) {
			c.JSON(http.StatusNotFound, types.Fail(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, types.Fail(err.Error()))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CheckAll triggers an immediate full health sweep
func (h *Handlers) CheckAll(c *gin.Context) {
	results := h.manager.CheckAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// SelectPath returns the best currently-healthy path for a purpose.
// No match is a normal outcome, reported as found=false rather than an
// error status.
func (h *Handlers) SelectPath(c *gin.Context) {
	purpose := c.Query("purpose")
	if purpose == "" {
		c.JSON(http.StatusBadRequest, types.Fail("purpose query parameter is required"))
		return
	}

	entry := h.manager.SelectBestPath(purpose)
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "path": entry})
}

// failureCode maps a failed result to an HTTP status
func failureCode(res types.Result) int {
	if slices.Contains(res.Errors, storage.ErrUnknownID.Error()) {
		return http.StatusNotFound
	}
	if slices.Contains(res.Errors, storage.ErrDuplicateID.Error()) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
