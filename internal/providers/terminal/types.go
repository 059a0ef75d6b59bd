package terminal

import (
	"os"
	"os/exec"
	"sync"
	"time"
)

// Session represents one live interactive shell. The registry entry holds the
// only strong reference to the PTY handle.
type Session struct {
	ID        string
	Shell     string
	StartedAt time.Time

	// Process management
	cmd  *exec.Cmd
	ptmx *os.File

	// Replay buffering
	buf *Buffer

	// Lifecycle
	mu    sync.RWMutex
	alive bool
}

// Alive reports whether the underlying process is still running.
func (s *Session) Alive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alive
}

// markExited flips the session dead. Terminal state: never reset.
func (s *Session) markExited() {
	s.mu.Lock()
	s.alive = false
	s.mu.Unlock()
}

// Info returns the public representation of the session.
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		ID:        s.ID,
		Shell:     s.Shell,
		StartedAt: s.StartedAt,
		Alive:     s.Alive(),
	}
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID        string    `json:"id"`
	Shell     string    `json:"shell"`
	StartedAt time.Time `json:"started_at"`
	Alive     bool      `json:"alive"`
}

// Sink receives terminal events pushed toward the UI. The manager does not
// know how events are rendered or transported.
type Sink interface {
	TerminalData(id string, data []byte)
	TerminalExit(id string, exitCode int, signal string)
}

// SinkAccessor returns the current sink, or nil when no UI surface is
// attached. Events produced while the accessor returns nil are dropped; the
// replay buffer still accumulates.
type SinkAccessor func() Sink
