package ledger

import (
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

// History returns the caller's transaction history.
func (h *Handler) History(c *gin.Context) {
	transactions := h.Service.History(auth.Principal(c))
	if transactions == nil {
		transactions = []Transaction{}
	}
	c.JSON(http.StatusOK, transactions)
}

// RegisterRoutes registers ledger routes.
func RegisterRoutes(g *gin.RouterGroup, handler *Handler) {
	g.GET("/transactions", handler.History)
}
