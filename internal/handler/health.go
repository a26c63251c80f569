package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// Pinger is whatever storage backs the service: the pgx pool or the in-memory store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers orchestrator probes.
type HealthHandler struct {
	storage Pinger
	started time.Time
}

func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage, started: time.Now()}
}

// Liveness only proves the process serves HTTP.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// Readiness pings storage under a short deadline so a hung pool fails the probe.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	start := time.Now()
	err := h.storage.Ping(ctx)
	took := time.Since(start).Milliseconds()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "unavailable",
			"storage":    err.Error(),
			"latency_ms": took,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "latency_ms": took})
}
