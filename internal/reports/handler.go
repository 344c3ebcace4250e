package reports

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"green-gauge/green-gauge-backend/internal/auth"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// Transactions streams the caller's transaction history in the requested
// format. Defaults to CSV.
func (h *Handler) Transactions(c *gin.Context) {
	format := Format(c.DefaultQuery("format", string(FormatCSV)))

	var buf bytes.Buffer
	if err := h.Service.WriteTransactions(&buf, auth.Principal(c), format); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	serveDownload(c, "transactions", format, buf.Bytes())
}

// Efficiency streams the caller's efficiency metrics in the requested format.
func (h *Handler) Efficiency(c *gin.Context) {
	format := Format(c.DefaultQuery("format", string(FormatCSV)))

	windowDays := 30
	if raw := c.Query("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window_days"})
			return
		}
		windowDays = parsed
	}

	var buf bytes.Buffer
	if err := h.Service.WriteEfficiency(&buf, auth.Principal(c), windowDays, format); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	serveDownload(c, "efficiency", format, buf.Bytes())
}

func serveDownload(c *gin.Context, name string, format Format, data []byte) {
	filename := fmt.Sprintf("%s_%s.%s", name, time.Now().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, format.ContentType(), data)
}

func statusFor(err error) int {
	if errors.Is(err, ErrUnsupportedFormat) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// RegisterRoutes registers report routes.
func RegisterRoutes(g *gin.RouterGroup, handler *Handler) {
	reports := g.Group("/reports")
	{
		reports.GET("/transactions", handler.Transactions)
		reports.GET("/efficiency", handler.Efficiency)
	}
}
