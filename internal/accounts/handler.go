package accounts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"green-gauge/green-gauge-backend/internal/auth"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

type amountRequest struct {
	Amount uint64 `json:"amount"`
}

// Register creates an account for the calling principal.
func (h *Handler) Register(c *gin.Context) {
	account, err := h.Service.Register(auth.Principal(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, account)
}

// Me returns the calling principal's account.
func (h *Handler) Me(c *gin.Context) {
	account, err := h.Service.Get(auth.Principal(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, account)
}

// RecordEmission records a carbon emission against the caller's allowance.
func (h *Handler) RecordEmission(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.RecordEmission(auth.Principal(c), req.Amount); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// RewardTokens credits tokens to the caller.
func (h *Handler) RewardTokens(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.RewardTokens(auth.Principal(c), req.Amount); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rewarded"})
}

// UpdateProfile merges the present fields into the caller's profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.UpdateProfile(auth.Principal(c), req); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, ErrAnonymous):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAllowanceExceeded), errors.Is(err, ErrBalanceOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
