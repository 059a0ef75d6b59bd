package http

import (
	"net/http"
	"strings"

	"github.com/agentdesk/host/internal/domain/service"
	"github.com/agentdesk/host/internal/infrastructure/logging"
	"github.com/agentdesk/host/internal/infrastructure/monitoring"
	"github.com/agentdesk/host/internal/providers/terminal"
	"github.com/agentdesk/host/internal/shared/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers holds the HTTP endpoint implementations.
type Handlers struct {
	registry  *service.Registry
	terminals *terminal.Manager
	metrics   *monitoring.Metrics
	logger    *logging.Logger
}

// NewHandlers creates the handler set. metrics may be nil.
func NewHandlers(registry *service.Registry, terminals *terminal.Manager, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		registry:  registry,
		terminals: terminals,
		metrics:   metrics,
		logger:    logger,
	}
}

// Root returns service identity.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "agentdesk-host",
		"status":  "running",
	})
}

// Health returns liveness plus a summary of host state.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"services":          h.registry.Stats(),
		"terminal_sessions": len(h.terminals.List()),
	})
}

// ListServices returns registered service definitions, optionally filtered
// by category.
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		category = &cat
	}

	services := h.registry.List(category)
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"count":    len(services),
	})
}

// ExecuteService dispatches a tool call to its provider.
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appCtx := &types.Context{}
	if requestID := c.GetString("request_id"); requestID != "" {
		appCtx.RequestID = &requestID
	}

	var timer *monitoring.Timer
	if h.metrics != nil {
		serviceID, _, _ := strings.Cut(req.ToolID, ".")
		timer = monitoring.NewTimer(h.metrics, serviceID, req.ToolID)
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if timer != nil {
		status := "success"
		if err != nil || (result != nil && !result.Success) {
			status = "error"
		}
		timer.Stop(status)
	}
	if err != nil {
		h.logger.Warn("tool execution failed",
			zap.String("tool_id", req.ToolID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
