package links

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/agentdesk/host/internal/infrastructure/logging"
	"github.com/agentdesk/host/internal/shared/types"
	"go.uber.org/zap"
)

// Opener launches a URL with the platform handler.
type Opener func(target string) error

// Provider opens external links in the user's default browser. The URL
// arrives from the UI process and is untrusted, so it is validated here
// before touching the platform opener.
type Provider struct {
	opener Opener
	logger *logging.Logger
}

// NewProvider creates a links provider using the platform opener.
func NewProvider(logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Provider{
		opener: platformOpen,
		logger: logger,
	}
}

// WithOpener overrides the platform opener, useful in tests.
func (p *Provider) WithOpener(opener Opener) *Provider {
	p.opener = opener
	return p
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "links",
		Name:        "Links Service",
		Description: "Opens external web links in the system browser",
		Category:    types.CategoryLinks,
		Capabilities: []string{
			"open",
		},
		Tools: []types.Tool{
			{
				ID:          "links.open",
				Name:        "Open External Link",
				Description: "Open an http(s) URL in the default browser",
				Parameters: []types.Parameter{
					{Name: "url", Type: "string", Description: "URL to open", Required: true},
				},
				Returns: "success",
			},
		},
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "links.open":
		return p.open(params)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) open(params map[string]interface{}) (*types.Result, error) {
	raw, _ := params["url"].(string)
	if err := ValidateURL(raw); err != nil {
		return nil, err
	}

	if err := p.opener(raw); err != nil {
		return nil, fmt.Errorf("failed to open link: %w", err)
	}

	p.logger.Info("opened external link", zap.String("url", raw))
	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"success": true},
	}, nil
}

// ValidateURL accepts only well-formed http(s) URLs without embedded
// credentials. Everything else is rejected before reaching the platform
// opener.
func ValidateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url has no host")
	}
	if parsed.User != nil {
		return fmt.Errorf("url must not embed credentials")
	}
	return nil
}

func platformOpen(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}
