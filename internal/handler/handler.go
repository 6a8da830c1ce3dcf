package handler

import (
	"context"
	"net/http"
	"time"

	"smarttax/internal/domain"
	"smarttax/internal/menu"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionStore holds dialog state between gateway requests
type SessionStore interface {
	GetOrCreate(ctx context.Context, key, phoneNumber string) (*domain.Session, bool)
	Put(key string, sess *domain.Session)
	Delete(key string)
	Len() int
}

// TraderCounter reports the number of registered traders
type TraderCounter interface {
	Count(ctx context.Context) (int, error)
}

// Handler serves the USSD gateway callback and the operational endpoints
type Handler struct {
	store   SessionStore
	machine *menu.Machine
	traders TraderCounter
	logger  *zap.Logger
	now     func() time.Time
}

// NewHandler creates a new handler instance
func NewHandler(
	store SessionStore,
	machine *menu.Machine,
	traders TraderCounter,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		store:   store,
		machine: machine,
		traders: traders,
		logger:  logger,
		now:     time.Now,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/health", h.handleHealth)
	api.POST("/ussd", h.handleUSSD)
	api.GET("/ussd/status", h.handleStatus)
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   "SmartTax USSD",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// handleStatus reports live sessions and registered traders
func (h *Handler) handleStatus(c *gin.Context) {
	count, err := h.traders.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count traders", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "degraded",
			"sessions": h.store.Len(),
			"error":    "database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "OK",
		"sessions": h.store.Len(),
		"traders":  count,
	})
}
