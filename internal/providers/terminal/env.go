package terminal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentdesk/host/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// Composer builds the execution environment for spawned shells: a wrapper
// script exposing the bundled CLI entry point by name, and a PATH that puts
// bundled tool locations ahead of the system PATH.
type Composer struct {
	logger *logging.Logger
}

// NewComposer creates an environment composer.
func NewComposer(logger *logging.Logger) *Composer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Composer{logger: logger}
}

// EnsureWrapperDir idempotently creates <stateDir>/bin and (re)writes an
// executable wrapper script named after the entry point's command name. The
// script execs the runtime binary with the entry path and forwards all
// arguments, so the CLI is invocable by name inside spawned shells.
func (c *Composer) EnsureWrapperDir(stateDir, appEntry, runtimeBin string) (string, error) {
	dir := filepath.Join(stateDir, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create wrapper dir: %w", err)
	}

	script := filepath.Join(dir, commandName(appEntry))
	c.bestEffortRemove(script)

	runtime := runtimeBin
	if runtime == "" {
		// Bare name resolves through the shell's own PATH.
		runtime = "node"
	}

	body := fmt.Sprintf("#!/bin/sh\nexec \"%s\" \"%s\" \"$@\"\n", runtime, appEntry)
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		return "", fmt.Errorf("write wrapper script: %w", err)
	}

	return dir, nil
}

// BuildPath composes the child PATH: wrapper dir first, then the runtime
// binary's directory, then each bundled tool's directory, de-duplicated and
// followed by the inherited PATH. Bare command names carry no directory and
// are skipped. When nothing resolves the inherited PATH is returned as-is.
func (c *Composer) BuildPath(wrapperDir, runtimeBin string, toolBins ...string) string {
	inherited := os.Getenv("PATH")

	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	add(wrapperDir)
	if filepath.IsAbs(runtimeBin) {
		add(filepath.Dir(runtimeBin))
	}
	for _, tool := range toolBins {
		if filepath.IsAbs(tool) {
			add(filepath.Dir(tool))
		}
	}

	if len(dirs) == 0 {
		return inherited
	}

	sep := string(os.PathListSeparator)
	return strings.Join(dirs, sep) + sep + inherited
}

// bestEffortRemove deletes a stale wrapper script. Cleanup failure never
// blocks session creation; it is logged and ignored.
func (c *Composer) bestEffortRemove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.logger.Debug("stale wrapper cleanup failed",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// commandName derives the CLI command name from the entry point path
// ("/app/dist/desk.js" becomes "desk").
func commandName(entry string) string {
	base := filepath.Base(entry)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
