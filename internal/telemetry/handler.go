package telemetry

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"green-gauge/green-gauge-backend/internal/accounts"
	"green-gauge/green-gauge-backend/internal/auth"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

type dataPointRequest struct {
	DeviceID          string  `json:"device_id" binding:"required"`
	EnergyConsumption float64 `json:"energy_consumption"`
	CarbonEmitted     float64 `json:"carbon_emitted"`
}

// AddDataPoint ingests a device sample for the caller.
func (h *Handler) AddDataPoint(c *gin.Context) {
	var req dataPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Service.AddDataPoint(auth.Principal(c), req.DeviceID, req.EnergyConsumption, req.CarbonEmitted)
	if err != nil {
		switch {
		case errors.Is(err, ErrNegativeValue):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, accounts.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, accounts.ErrBalanceOverflow):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// EmissionHistory returns the caller's emission series for a time range.
func (h *Handler) EmissionHistory(c *gin.Context) {
	from, to, err := rangeParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	points := h.Service.EmissionHistory(auth.Principal(c), from, to)
	if points == nil {
		points = []EmissionPoint{}
	}
	c.JSON(http.StatusOK, points)
}

// TokenHistory returns the caller's token balance series for a time range.
func (h *Handler) TokenHistory(c *gin.Context) {
	from, to, err := rangeParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	points := h.Service.TokenHistory(auth.Principal(c), from, to)
	if points == nil {
		points = []TokenPoint{}
	}
	c.JSON(http.StatusOK, points)
}

// EfficiencyMetrics returns the caller's per-day efficiency aggregates.
func (h *Handler) EfficiencyMetrics(c *gin.Context) {
	windowDays := 30
	if raw := c.Query("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window_days must be a positive integer"})
			return
		}
		windowDays = parsed
	}
	c.JSON(http.StatusOK, h.Service.EfficiencyMetrics(auth.Principal(c), windowDays))
}

// rangeParams parses the optional from/to query parameters (RFC 3339).
// Missing bounds default to the zero time and now respectively.
func rangeParams(c *gin.Context) (time.Time, time.Time, error) {
	var from time.Time
	to := time.Now()

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}

// RegisterRoutes registers telemetry routes.
func RegisterRoutes(g *gin.RouterGroup, handler *Handler) {
	telemetryGroup := g.Group("/telemetry")
	{
		telemetryGroup.POST("", handler.AddDataPoint)
		telemetryGroup.GET("/emissions", handler.EmissionHistory)
		telemetryGroup.GET("/tokens", handler.TokenHistory)
		telemetryGroup.GET("/efficiency", handler.EfficiencyMetrics)
	}
}
