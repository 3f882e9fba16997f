package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TermLens/backend/internal/registry"
	"github.com/GriffinCanCode/TermLens/backend/internal/shared/id"
)

// CreateTerminal spawns a new PTY session.
func (h *Handlers) CreateTerminal(c *gin.Context) {
	var req struct {
		Shell      string            `json:"shell"`
		WorkingDir string            `json:"working_dir"`
		Cols       int               `json:"cols"`
		Rows       int               `json:"rows"`
		Env        map[string]string `json:"env"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	info, err := h.registry.Create(registry.Options{
		Shell:      req.Shell,
		WorkingDir: req.WorkingDir,
		Cols:       req.Cols,
		Rows:       req.Rows,
		Env:        req.Env,
	})
	if err != nil {
		h.logger.Error("failed to create terminal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.metrics.TerminalsCreated.Inc()
	h.metrics.TerminalsActive.Inc()
	h.logger.Info("terminal created",
		zap.String("terminal_id", string(info.ID)),
		zap.Int("root_pid", info.RootPID),
	)

	c.JSON(http.StatusCreated, info)
}

// ListTerminals returns every registered session.
func (h *Handlers) ListTerminals(c *gin.Context) {
	terminals := h.registry.List()
	c.JSON(http.StatusOK, gin.H{
		"terminals": terminals,
		"count":     len(terminals),
	})
}

// GetTerminal returns one session.
func (h *Handlers) GetTerminal(c *gin.Context) {
	tid := id.TerminalID(c.Param("id"))
	info, err := h.registry.Get(tid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("terminal '%s' not found", tid)})
		return
	}
	c.JSON(http.StatusOK, info)
}

// KillTerminal terminates a session.
func (h *Handlers) KillTerminal(c *gin.Context) {
	tid := id.TerminalID(c.Param("id"))
	if err := h.registry.Kill(tid); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("terminal '%s' not found", tid)})
		return
	}
	h.metrics.TerminalsActive.Dec()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ResizeTerminal changes PTY dimensions.
func (h *Handlers) ResizeTerminal(c *gin.Context) {
	var req struct {
		Cols int `json:"cols" binding:"required"`
		Rows int `json:"rows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	tid := id.TerminalID(c.Param("id"))
	if err := h.registry.Resize(tid, req.Cols, req.Rows); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, registry.ErrClosed) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// WriteTerminal sends input to a session.
func (h *Handlers) WriteTerminal(c *gin.Context) {
	var req struct {
		Input string `json:"input" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	tid := id.TerminalID(c.Param("id"))
	if err := h.registry.Write(tid, []byte(req.Input)); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, registry.ErrClosed) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ReadTerminal drains buffered output from a session.
func (h *Handlers) ReadTerminal(c *gin.Context) {
	tid := id.TerminalID(c.Param("id"))
	output, err := h.registry.Read(tid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("terminal '%s' not found", tid)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"output": string(output),
		"length": len(output),
	})
}

// GetTerminalCwd resolves the working directory of the foreground
// shell behind a terminal. A resolution miss is reported as a 500 with
// a descriptive message; it is an expected outcome, not a crash.
func (h *Handlers) GetTerminalCwd(c *gin.Context) {
	if h.registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "terminal service not available"})
		return
	}

	tid := id.TerminalID(c.Param("id"))
	rootPID, err := h.registry.RootPID(tid)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("terminal '%s' not found", tid)})
		return
	case errors.Is(err, registry.ErrNoProcess):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not access terminal process"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	result := h.resolver.ResolveDetailed(rootPID)
	h.metrics.RecordResolution(result.Found, result.Candidates, time.Since(start))

	if !result.Found {
		h.logger.Warn("could not determine terminal cwd",
			zap.String("terminal_id", string(tid)),
			zap.Int("root_pid", rootPID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not determine terminal cwd"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"terminal_id": tid,
		"cwd":         result.Path,
	})
}
