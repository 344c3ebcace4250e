package trading

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

type createOfferRequest struct {
	Amount       uint64 `json:"amount"`
	PricePerUnit uint64 `json:"price_per_unit"`
}

// CreateOffer opens a trade offer for the caller.
func (h *Handler) CreateOffer(c *gin.Context) {
	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Service.CreateOffer(auth.Principal(c), req.Amount, req.PricePerUnit)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trade_id": id})
}

// ListOffers returns every open offer. This endpoint is public.
func (h *Handler) ListOffers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.ListOffers())
}

type buyRequest struct {
	Amount uint64 `json:"amount"`
}

// Buy settles part or all of an open offer for the caller.
func (h *Handler) Buy(c *gin.Context) {
	tradeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade id"})
		return
	}

	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.Settle(auth.Principal(c), tradeID, req.Amount); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "settled"})
}

func statusFor(err error) int {
	var insufficientAllowance *InsufficientAllowanceError
	var exceedsOffer *ExceedsOfferError
	var insufficientFunds *InsufficientFundsError

	switch {
	case errors.Is(err, ErrZeroAmount), errors.Is(err, ErrZeroPrice):
		return http.StatusBadRequest
	case errors.Is(err, ErrOfferNotFound), errors.Is(err, accounts.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSelfTrade):
		return http.StatusForbidden
	case errors.As(err, &insufficientAllowance),
		errors.As(err, &exceedsOffer),
		errors.As(err, &insufficientFunds),
		errors.Is(err, ErrCostOverflow),
		errors.Is(err, accounts.ErrBalanceOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RegisterRoutes registers trade book routes.
func RegisterRoutes(g *gin.RouterGroup, handler *Handler) {
	trades := g.Group("/trades")
	{
		trades.POST("", handler.CreateOffer)
		trades.GET("", handler.ListOffers)
		trades.POST("/:id/buy", handler.Buy)
	}
}
