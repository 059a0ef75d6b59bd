package terminal

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/agentdesk/host/internal/infrastructure/logging"
	"github.com/agentdesk/host/internal/infrastructure/monitoring"
	"github.com/agentdesk/host/internal/shared/id"
	"github.com/creack/pty"
	"go.uber.org/zap"
)

// Initial PTY geometry; the UI resizes after attach.
const (
	initialCols = 80
	initialRows = 24
)

const defaultTerm = "xterm-256color"

// Options configures a Manager.
type Options struct {
	// StateDir hosts the wrapper script directory.
	StateDir string
	// WorkingDir is where shells start; empty falls back to $HOME then /tmp.
	WorkingDir string
	// Shell overrides the spawned shell; empty falls back to $SHELL then
	// /bin/bash.
	Shell string
	// AppEntry is the bundled CLI entry point; empty disables the wrapper.
	AppEntry string
	// RuntimeBin runs AppEntry. Absolute paths also join the child PATH.
	RuntimeBin string
	// ToolBins are bundled tool binaries whose directories join the child
	// PATH ahead of the system PATH.
	ToolBins []string
	// BufferSize caps each session's replay buffer; 0 means 100 KiB.
	BufferSize int
	// Sink yields the current delivery sink, nil when no UI is attached.
	Sink SinkAccessor
}

// Manager owns the session registry and is the only component that spawns,
// signals, or tears down PTY processes.
type Manager struct {
	opts     Options
	registry *Registry
	composer *Composer
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewManager creates a session manager with its own registry.
func NewManager(opts Options, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		opts:     opts,
		registry: NewRegistry(),
		composer: NewComposer(logger),
		logger:   logger,
	}
}

// WithMetrics attaches metrics recording.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Create spawns a new shell session. The returned info is immediate; output
// arrives later through the delivery sink. A spawn failure leaves no registry
// entry behind.
func (m *Manager) Create() (SessionInfo, error) {
	shell := m.opts.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/bash"
	}

	workingDir := m.opts.WorkingDir
	if workingDir == "" {
		workingDir = os.Getenv("HOME")
	}
	if workingDir == "" {
		workingDir = "/tmp"
	}

	var wrapperDir string
	if m.opts.StateDir != "" && m.opts.AppEntry != "" {
		dir, err := m.composer.EnsureWrapperDir(m.opts.StateDir, m.opts.AppEntry, m.opts.RuntimeBin)
		if err != nil {
			// The shell still works without the bundled CLI on PATH.
			m.logger.Warn("wrapper dir unavailable", zap.Error(err))
		} else {
			wrapperDir = dir
		}
	}
	path := m.composer.BuildPath(wrapperDir, m.opts.RuntimeBin, m.opts.ToolBins...)

	cmd := exec.Command(shell)
	cmd.Dir = workingDir
	cmd.Env = childEnv(path)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: initialRows,
		Cols: initialCols,
	})
	if err != nil {
		return SessionInfo{}, fmt.Errorf("failed to start PTY: %w", err)
	}

	sess := &Session{
		ID:        string(id.NewTerminalID()),
		Shell:     shell,
		StartedAt: time.Now(),
		cmd:       cmd,
		ptmx:      ptmx,
		buf:       NewBuffer(m.opts.BufferSize),
		alive:     true,
	}
	m.registry.Add(sess)

	if m.metrics != nil {
		m.metrics.TerminalSessionStarted()
	}
	m.logger.Info("terminal session created",
		zap.String("session_id", sess.ID),
		zap.String("shell", shell),
		zap.String("working_dir", workingDir),
	)

	go m.readOutput(sess)
	go m.monitorExit(sess)

	return sess.Info(), nil
}

// Write forwards raw input to a session's PTY. Missing or dead sessions are a
// no-op: UI teardown races process exit by design.
func (m *Manager) Write(sessionID string, data []byte) {
	if sessionID == "" || len(data) == 0 {
		return
	}
	sess, ok := m.registry.Get(sessionID)
	if !ok || !sess.Alive() {
		return
	}
	if _, err := sess.ptmx.Write(data); err != nil {
		m.logger.Debug("terminal write failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

// Resize changes terminal dimensions, clamped to at least 1x1. Missing or
// dead sessions are a no-op.
func (m *Manager) Resize(sessionID string, cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	sess, ok := m.registry.Get(sessionID)
	if !ok || !sess.Alive() {
		return
	}
	if err := pty.Setsize(sess.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		m.logger.Debug("terminal resize failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

// Kill terminates a session and removes it from the registry. Termination is
// best-effort: the process may already be gone. Idempotent.
func (m *Manager) Kill(sessionID string) {
	sess, ok := m.registry.Remove(sessionID)
	if !ok {
		return
	}
	sess.markExited()

	if sess.cmd.Process != nil {
		_ = sess.cmd.Process.Kill()
	}
	_ = sess.ptmx.Close()

	if m.metrics != nil {
		m.metrics.TerminalSessionRemoved()
	}
	m.logger.Info("terminal session killed", zap.String("session_id", sessionID))
}

// KillAll terminates every registered session; called on host shutdown so no
// child shell outlives the process.
func (m *Manager) KillAll() {
	for _, sess := range m.registry.Snapshot() {
		m.Kill(sess.ID)
	}
}

// List returns a snapshot of every registered session, sorted by ID.
func (m *Manager) List() []SessionInfo {
	sessions := m.registry.Snapshot()
	infos := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, sess.Info())
	}
	return infos
}

// GetBuffer returns the session's replay buffer, or an empty string for an
// unknown session.
func (m *Manager) GetBuffer(sessionID string) string {
	sess, ok := m.registry.Get(sessionID)
	if !ok {
		return ""
	}
	return string(sess.buf.Snapshot())
}

// readOutput pumps PTY output into the replay buffer and the delivery sink.
// Chunks arriving after an explicit kill find the registry entry gone and are
// dropped.
func (m *Manager) readOutput(sess *Session) {
	buf := make([]byte, 4096)
	for {
		n, err := sess.ptmx.Read(buf)
		if n > 0 {
			if _, ok := m.registry.Get(sess.ID); !ok {
				return
			}
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			sess.buf.Write(chunk)

			if m.metrics != nil {
				m.metrics.TerminalOutput(n)
			}
			if sink := m.sink(); sink != nil {
				sink.TerminalData(sess.ID, chunk)
			}
		}
		if err != nil {
			// PTY reads end with EIO when the child exits; nothing to
			// surface either way.
			if err != io.EOF {
				m.logger.Debug("terminal read ended",
					zap.String("session_id", sess.ID),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// monitorExit reaps the child and reports the exit. A natural exit marks the
// session dead but keeps the entry registered, so the replay buffer stays
// readable until an explicit kill.
func (m *Manager) monitorExit(sess *Session) {
	_ = sess.cmd.Wait()
	sess.markExited()

	exitCode := 0
	signal := ""
	if state := sess.cmd.ProcessState; state != nil {
		exitCode = state.ExitCode()
		if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			signal = ws.Signal().String()
		}
	}

	m.logger.Info("terminal session exited",
		zap.String("session_id", sess.ID),
		zap.Int("exit_code", exitCode),
		zap.String("signal", signal),
	)

	if _, ok := m.registry.Get(sess.ID); !ok {
		return
	}
	if sink := m.sink(); sink != nil {
		sink.TerminalExit(sess.ID, exitCode, signal)
	}
}

func (m *Manager) sink() Sink {
	if m.opts.Sink == nil {
		return nil
	}
	return m.opts.Sink()
}

// childEnv copies the inherited environment with PATH overridden, the color
// forcing variables stripped, and TERM defaulted. NO_COLOR and FORCE_COLOR
// are removed unconditionally so child shells behave the same regardless of
// how the host was launched.
func childEnv(path string) []string {
	inherited := os.Environ()
	env := make([]string, 0, len(inherited)+2)
	hasTerm := false

	for _, kv := range inherited {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "NO_COLOR", "FORCE_COLOR", "PATH":
			continue
		case "TERM":
			hasTerm = true
		}
		env = append(env, kv)
	}

	env = append(env, "PATH="+path)
	if !hasTerm {
		env = append(env, "TERM="+defaultTerm)
	}
	return env
}
