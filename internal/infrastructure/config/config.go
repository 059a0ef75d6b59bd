package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all host configuration.
type Config struct {
	Server    ServerConfig
	Terminal  TerminalConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds bridge server configuration. The bridge is a local IPC
// surface, so it binds loopback by default.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// TerminalConfig holds embedded terminal configuration.
type TerminalConfig struct {
	// StateDir is where the wrapper script directory lives.
	StateDir string `envconfig:"TERMINAL_STATE_DIR" default:"/tmp/agentdesk"`
	// WorkingDir is the initial directory for spawned shells. Empty means
	// the user's home directory.
	WorkingDir string `envconfig:"TERMINAL_WORKDIR" default:""`
	// Shell overrides the spawned shell; empty falls back to $SHELL.
	Shell string `envconfig:"TERMINAL_SHELL" default:""`
	// AppEntry is the bundled CLI entry point exposed inside shells via a
	// wrapper script. Empty disables the wrapper.
	AppEntry string `envconfig:"TERMINAL_APP_ENTRY" default:""`
	// RuntimeBin is the runtime used to run AppEntry.
	RuntimeBin string `envconfig:"TERMINAL_RUNTIME_BIN" default:"node"`
	// ToolBins are bundled tool binaries whose directories are prepended
	// to PATH inside spawned shells.
	ToolBins []string `envconfig:"TERMINAL_TOOL_BINS" default:""`
	// BufferSize caps each session's replay buffer in bytes.
	BufferSize int `envconfig:"TERMINAL_BUFFER_SIZE" default:"102400"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds bridge rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "127.0.0.1",
		},
		Terminal: TerminalConfig{
			StateDir:   "/tmp/agentdesk",
			RuntimeBin: "node",
			BufferSize: 102400,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
