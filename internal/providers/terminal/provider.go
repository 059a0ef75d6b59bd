package terminal

import (
	"context"
	"fmt"

	"github.com/agentdesk/host/internal/shared/types"
)

// Provider adapts the session manager to the bridge surface. Untrusted
// parameter coercion happens here: malformed strings become empty (and the
// operation a no-op), malformed dimensions fall back to 80x24. Only create
// can fail; every steady-state operation is total.
type Provider struct {
	manager *Manager
}

// NewProvider wraps a manager for bridge exposure.
func NewProvider(manager *Manager) *Provider {
	return &Provider{manager: manager}
}

// Manager returns the underlying session manager.
func (p *Provider) Manager() *Manager {
	return p.manager
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Service",
		Description: "Embedded multi-session terminal with PTY support for interactive shells",
		Category:    types.CategoryTerminal,
		Capabilities: []string{
			"pty",
			"shell",
			"interactive",
			"sessions",
			"resize",
			"replay",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "terminal.create":
		return p.create()
	case "terminal.write":
		return p.write(params)
	case "terminal.resize":
		return p.resize(params)
	case "terminal.kill":
		return p.kill(params)
	case "terminal.list":
		return p.list()
	case "terminal.get_buffer":
		return p.getBuffer(params)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "terminal.create",
			Name:        "Create Terminal Session",
			Description: "Spawn a new interactive shell session with PTY",
			Parameters:  []types.Parameter{},
			Returns:     "session_info",
		},
		{
			ID:          "terminal.write",
			Name:        "Write to Terminal",
			Description: "Send raw input to a terminal session",
			Parameters: []types.Parameter{
				{Name: "id", Type: "string", Description: "Terminal session ID", Required: true},
				{Name: "data", Type: "string", Description: "Input to send to the terminal", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.resize",
			Name:        "Resize Terminal",
			Description: "Change terminal dimensions",
			Parameters: []types.Parameter{
				{Name: "id", Type: "string", Description: "Terminal session ID", Required: true},
				{Name: "cols", Type: "number", Description: "New width in columns", Required: false},
				{Name: "rows", Type: "number", Description: "New height in rows", Required: false},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.kill",
			Name:        "Kill Terminal Session",
			Description: "Terminate a session and remove it from the registry",
			Parameters: []types.Parameter{
				{Name: "id", Type: "string", Description: "Terminal session ID", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.list",
			Name:        "List Terminal Sessions",
			Description: "List every registered terminal session",
			Parameters:  []types.Parameter{},
			Returns:     "sessions_list",
		},
		{
			ID:          "terminal.get_buffer",
			Name:        "Get Replay Buffer",
			Description: "Fetch the session's recent output for replay",
			Parameters: []types.Parameter{
				{Name: "id", Type: "string", Description: "Terminal session ID", Required: true},
			},
			Returns: "buffer",
		},
	}
}

func (p *Provider) create() (*types.Result, error) {
	info, err := p.manager.Create()
	if err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"id":         info.ID,
			"shell":      info.Shell,
			"started_at": info.StartedAt,
			"alive":      info.Alive,
		},
	}, nil
}

func (p *Provider) write(params map[string]interface{}) (*types.Result, error) {
	sessionID, _ := params["id"].(string)
	data, _ := params["data"].(string)

	if sessionID != "" && data != "" {
		p.manager.Write(sessionID, []byte(data))
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"success": true},
	}, nil
}

func (p *Provider) resize(params map[string]interface{}) (*types.Result, error) {
	sessionID, _ := params["id"].(string)
	cols := numParam(params, "cols", initialCols)
	rows := numParam(params, "rows", initialRows)

	if sessionID != "" {
		p.manager.Resize(sessionID, cols, rows)
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"success": true},
	}, nil
}

func (p *Provider) kill(params map[string]interface{}) (*types.Result, error) {
	sessionID, _ := params["id"].(string)

	if sessionID != "" {
		p.manager.Kill(sessionID)
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"success": true},
	}, nil
}

func (p *Provider) list() (*types.Result, error) {
	sessions := p.manager.List()

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"sessions": sessions,
			"count":    len(sessions),
		},
	}, nil
}

func (p *Provider) getBuffer(params map[string]interface{}) (*types.Result, error) {
	sessionID, _ := params["id"].(string)

	buffer := ""
	if sessionID != "" {
		buffer = p.manager.GetBuffer(sessionID)
	}

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"buffer": buffer,
			"length": len(buffer),
		},
	}, nil
}

// numParam coerces a numeric parameter, tolerating both JSON floats and
// native ints, and falling back on anything else.
func numParam(params map[string]interface{}, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
