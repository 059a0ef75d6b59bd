package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/agentdesk/host/internal/infrastructure/logging"
	"github.com/agentdesk/host/internal/shared/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const storeFile = "credentials.json"

// entry is one stored credential. Either Secret (retrievable) or Hash
// (verify-only, bcrypt) is populated, never both.
type entry struct {
	Service   string    `json:"service"`
	Account   string    `json:"account,omitempty"`
	Secret    string    `json:"secret,omitempty"`
	Hash      string    `json:"hash,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider implements the host's credential vault: a per-user store for API
// keys and tokens the UI must never hold directly. Entries persist under the
// state directory with owner-only permissions.
type Provider struct {
	path   string
	logger *logging.Logger

	mu      sync.RWMutex
	entries map[string]entry
}

// NewProvider creates a credentials provider persisting under stateDir. A
// corrupt or missing store starts empty rather than failing the host.
func NewProvider(stateDir string, logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Provider{
		path:    filepath.Join(stateDir, storeFile),
		logger:  logger,
		entries: make(map[string]entry),
	}
	p.load()
	return p
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "credentials",
		Name:        "Credentials Service",
		Description: "Stores API keys and tokens on behalf of the UI",
		Category:    types.CategoryCredentials,
		Capabilities: []string{
			"store",
			"retrieve",
			"verify",
		},
		Tools: []types.Tool{
			{
				ID:          "credentials.set",
				Name:        "Store Credential",
				Description: "Store a retrievable secret for a service",
				Parameters: []types.Parameter{
					{Name: "service", Type: "string", Description: "Service name", Required: true},
					{Name: "account", Type: "string", Description: "Account label", Required: false},
					{Name: "secret", Type: "string", Description: "Secret value", Required: true},
				},
				Returns: "success",
			},
			{
				ID:          "credentials.get",
				Name:        "Get Credential",
				Description: "Retrieve a stored secret",
				Parameters: []types.Parameter{
					{Name: "service", Type: "string", Description: "Service name", Required: true},
				},
				Returns: "credential",
			},
			{
				ID:          "credentials.delete",
				Name:        "Delete Credential",
				Description: "Remove a stored credential",
				Parameters: []types.Parameter{
					{Name: "service", Type: "string", Description: "Service name", Required: true},
				},
				Returns: "success",
			},
			{
				ID:          "credentials.list",
				Name:        "List Credentials",
				Description: "List stored credential names without secrets",
				Parameters:  []types.Parameter{},
				Returns:     "credentials_list",
			},
			{
				ID:          "credentials.protect",
				Name:        "Protect Credential",
				Description: "Store a verify-only bcrypt hash of a secret",
				Parameters: []types.Parameter{
					{Name: "service", Type: "string", Description: "Service name", Required: true},
					{Name: "secret", Type: "string", Description: "Secret value", Required: true},
				},
				Returns: "success",
			},
			{
				ID:          "credentials.verify",
				Name:        "Verify Credential",
				Description: "Check a secret against a protected entry",
				Parameters: []types.Parameter{
					{Name: "service", Type: "string", Description: "Service name", Required: true},
					{Name: "secret", Type: "string", Description: "Secret value", Required: true},
				},
				Returns: "valid",
			},
		},
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "credentials.set":
		return p.set(params)
	case "credentials.get":
		return p.get(params)
	case "credentials.delete":
		return p.delete(params)
	case "credentials.list":
		return p.list()
	case "credentials.protect":
		return p.protect(params)
	case "credentials.verify":
		return p.verify(params)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) set(params map[string]interface{}) (*types.Result, error) {
	service, _ := params["service"].(string)
	secret, _ := params["secret"].(string)
	account, _ := params["account"].(string)
	if service == "" || secret == "" {
		return nil, fmt.Errorf("service and secret are required")
	}

	p.mu.Lock()
	p.entries[service] = entry{
		Service:   service,
		Account:   account,
		Secret:    secret,
		UpdatedAt: time.Now(),
	}
	p.mu.Unlock()

	if err := p.persist(); err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"success": true},
	}, nil
}

func (p *Provider) get(params map[string]interface{}) (*types.Result, error) {
	service, _ := params["service"].(string)

	p.mu.RLock()
	e, found := p.entries[service]
	p.mu.RUnlock()

	// Missing entries are a benign empty result, not an error: the UI
	// commonly probes before prompting the user.
	if !found || e.Secret == "" {
		return &types.Result{
			Success: true,
			Data:    map[string]interface{}{"found": false},
		}, nil
	}

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"found":   true,
			"service": e.Service,
			"account": e.Account,
			"secret":  e.Secret,
		},
	}, nil
}

func (p *Provider) delete(params map[string]interface{}) (*types.Result, error) {
	service, _ := params["service"].(string)

	p.mu.Lock()
	delete(p.entries, service)
	p.mu.Unlock()

	if err := p.persist(); err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"success": true},
	}, nil
}

func (p *Provider) list() (*types.Result, error) {
	p.mu.RLock()
	names := make([]string, 0, len(p.entries))
	for name := range p.entries {
		names = append(names, name)
	}
	p.mu.RUnlock()
	sort.Strings(names)

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"services": names,
			"count":    len(names),
		},
	}, nil
}

func (p *Provider) protect(params map[string]interface{}) (*types.Result, error) {
	service, _ := params["service"].(string)
	secret, _ := params["secret"].(string)
	if service == "" || secret == "" {
		return nil, fmt.Errorf("service and secret are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash secret: %w", err)
	}

	p.mu.Lock()
	p.entries[service] = entry{
		Service:   service,
		Hash:      string(hash),
		UpdatedAt: time.Now(),
	}
	p.mu.Unlock()

	if err := p.persist(); err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"success": true},
	}, nil
}

func (p *Provider) verify(params map[string]interface{}) (*types.Result, error) {
	service, _ := params["service"].(string)
	secret, _ := params["secret"].(string)

	p.mu.RLock()
	e, found := p.entries[service]
	p.mu.RUnlock()

	valid := false
	if found && e.Hash != "" {
		valid = bcrypt.CompareHashAndPassword([]byte(e.Hash), []byte(secret)) == nil
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"valid": valid},
	}, nil
}

func (p *Provider) load() {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			p.logger.Warn("credential store unreadable, starting empty",
				zap.String("path", p.path),
				zap.Error(err),
			)
		}
		return
	}

	var entries map[string]entry
	if err := json.Unmarshal(data, &entries); err != nil {
		p.logger.Warn("credential store corrupt, starting empty",
			zap.String("path", p.path),
			zap.Error(err),
		)
		return
	}

	p.mu.Lock()
	p.entries = entries
	p.mu.Unlock()
}

// persist writes the store while holding the write lock so concurrent
// mutations cannot land stale snapshots on disk out of order.
func (p *Provider) persist() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := json.MarshalIndent(p.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credential store: %w", err)
	}
	return nil
}
