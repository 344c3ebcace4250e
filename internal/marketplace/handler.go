package marketplace

import (
	"errors"
	"net/http"
	"strconv"

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

// List creates a credit listing for the caller.
func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Service.List(auth.Principal(c), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"credit_id": id})
}

// ListActive returns every active credit. This endpoint is public.
func (h *Handler) ListActive(c *gin.Context) {
	credits := h.Service.ListActive()
	if credits == nil {
		credits = []CarbonCredit{}
	}
	c.JSON(http.StatusOK, credits)
}

type purchaseRequest struct {
	Amount float64 `json:"amount"`
}

// Purchase buys part or all of an active credit for the caller.
func (h *Handler) Purchase(c *gin.Context) {
	creditID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credit id"})
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txID, err := h.Service.Purchase(auth.Principal(c), creditID, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction_id": txID})
}

func statusFor(err error) int {
	var exceedsAvailable *ExceedsAvailableError

	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidCreditType),
		errors.Is(err, ErrInvalidCertification):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotActive), errors.Is(err, accounts.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSelfPurchase):
		return http.StatusForbidden
	case errors.Is(err, ErrInsufficientAllowance), errors.As(err, &exceedsAvailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RegisterRoutes registers marketplace routes.
func RegisterRoutes(g *gin.RouterGroup, handler *Handler) {
	credits := g.Group("/credits")
	{
		credits.POST("", handler.List)
		credits.GET("", handler.ListActive)
		credits.POST("/:id/purchase", handler.Purchase)
	}
}
