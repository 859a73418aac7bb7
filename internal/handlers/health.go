// internal/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type HealthHandler struct {
	service string
	ping    func(ctx context.Context) error
}

// NewHealthHandler reports the service as healthy while ping succeeds. A nil
// ping always succeeds.
func NewHealthHandler(service string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{service: service, ping: ping}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logrus.WithError(err).Warn("Health check failed")
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":    status,
		"service":   h.service,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
