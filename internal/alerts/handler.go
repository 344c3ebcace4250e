package alerts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"green-gauge/green-gauge-backend/internal/auth"
)

type Handler struct {
	Engine *Engine
}

func NewHandler(e *Engine) *Handler {
	return &Handler{Engine: e}
}

// List returns the caller's alerts.
func (h *Handler) List(c *gin.Context) {
	alerts := h.Engine.ListForUser(auth.Principal(c))
	if alerts == nil {
		alerts = []Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus marks one of the caller's alerts read or resolved.
func (h *Handler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.SetStatus(auth.Principal(c), id, Status(req.Status)); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// Remove deletes one of the caller's alerts.
func (h *Handler) Remove(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	if err := h.Engine.Remove(auth.Principal(c), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// Scan triggers the trailing-24h threshold scan across all accounts.
func (h *Handler) Scan(c *gin.Context) {
	count := h.Engine.ScanAllRecent()
	c.JSON(http.StatusOK, gin.H{"alerts_created": count})
}

// RegisterRoutes registers alert routes.
func RegisterRoutes(g *gin.RouterGroup, handler *Handler) {
	alertGroup := g.Group("/alerts")
	{
		alertGroup.GET("", handler.List)
		alertGroup.POST("/scan", handler.Scan)
		alertGroup.PUT("/:id/status", handler.SetStatus)
		alertGroup.DELETE("/:id", handler.Remove)
	}
}
