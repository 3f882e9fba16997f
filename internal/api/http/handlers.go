// Package http contains the gin handlers for the TermLens API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/TermLens/backend/internal/cwd"
	"github.com/GriffinCanCode/TermLens/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermLens/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TermLens/backend/internal/registry"
	"github.com/GriffinCanCode/TermLens/backend/internal/shared/id"
)

// Registry is the terminal registry capability the API depends on.
type Registry interface {
	Create(opts registry.Options) (*registry.Info, error)
	Get(tid id.TerminalID) (*registry.Info, error)
	List() []registry.Info
	Kill(tid id.TerminalID) error
	Resize(tid id.TerminalID, cols, rows int) error
	Write(tid id.TerminalID, input []byte) error
	Read(tid id.TerminalID) ([]byte, error)
	RootPID(tid id.TerminalID) (int, error)
}

// Handlers bundles the API dependencies.
type Handlers struct {
	registry Registry
	resolver *cwd.Resolver
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(reg Registry, resolver *cwd.Resolver, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		registry: reg,
		resolver: resolver,
		metrics:  metrics,
		logger:   logger,
	}
}

// Root serves the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "termlens-backend",
		"status":  "running",
		"endpoints": gin.H{
			"health":    "/health",
			"metrics":   "/metrics",
			"terminals": "/terminals",
			"cwd":       "/terminals/:id/cwd",
		},
	})
}

// Health serves the health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": h.metrics.Uptime().Seconds(),
	})
}
