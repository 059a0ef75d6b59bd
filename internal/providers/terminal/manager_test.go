package terminal

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records delivered events for assertions.
type captureSink struct {
	mu    sync.Mutex
	data  map[string]*strings.Builder
	exits map[string]int
}

func newCaptureSink() *captureSink {
	return &captureSink{
		data:  make(map[string]*strings.Builder),
		exits: make(map[string]int),
	}
}

func (c *captureSink) TerminalData(id string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sb, ok := c.data[id]
	if !ok {
		sb = &strings.Builder{}
		c.data[id] = sb
	}
	sb.Write(data)
}

func (c *captureSink) TerminalExit(id string, exitCode int, signal string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exits[id] = exitCode
}

func (c *captureSink) output(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sb, ok := c.data[id]; ok {
		return sb.String()
	}
	return ""
}

func (c *captureSink) exited(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.exits[id]
	return ok
}

func newTestManager(t *testing.T, sink Sink) *Manager {
	t.Helper()
	opts := Options{
		WorkingDir: t.TempDir(),
		Shell:      "/bin/sh",
	}
	if sink != nil {
		opts.Sink = func() Sink { return sink }
	}
	m := NewManager(opts, nil)
	t.Cleanup(m.KillAll)
	return m
}

func TestCreateRegistersSession(t *testing.T) {
	m := newTestManager(t, nil)

	info, err := m.Create()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.ID, "term_"))
	assert.True(t, info.Alive)
	assert.Equal(t, "/bin/sh", info.Shell)

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, info.ID, list[0].ID)
	assert.True(t, list[0].Alive)
}

func TestCreateSpawnFailure(t *testing.T) {
	m := NewManager(Options{
		WorkingDir: t.TempDir(),
		Shell:      "/nonexistent/shell-binary",
	}, nil)

	_, err := m.Create()
	require.Error(t, err)

	// No partial registry entry survives a spawn failure.
	assert.Empty(t, m.List())
}

func TestWriteAndBuffer(t *testing.T) {
	m := newTestManager(t, nil)

	info, err := m.Create()
	require.NoError(t, err)

	m.Write(info.ID, []byte("echo terminal-hello\n"))

	require.Eventually(t, func() bool {
		return strings.Contains(m.GetBuffer(info.ID), "terminal-hello")
	}, 5*time.Second, 50*time.Millisecond)
}

func TestSinkReceivesOutput(t *testing.T) {
	sink := newCaptureSink()
	m := newTestManager(t, sink)

	info, err := m.Create()
	require.NoError(t, err)

	m.Write(info.ID, []byte("echo sink-check\n"))

	require.Eventually(t, func() bool {
		return strings.Contains(sink.output(info.ID), "sink-check")
	}, 5*time.Second, 50*time.Millisecond)
}

func TestNaturalExitKeepsEntry(t *testing.T) {
	sink := newCaptureSink()
	m := newTestManager(t, sink)

	info, err := m.Create()
	require.NoError(t, err)

	m.Write(info.ID, []byte("echo before-exit\nexit 0\n"))

	// The exit event arrives and the session goes dead...
	require.Eventually(t, func() bool {
		return sink.exited(info.ID)
	}, 5*time.Second, 50*time.Millisecond)

	list := m.List()
	require.Len(t, list, 1)
	assert.False(t, list[0].Alive)

	// ...but the entry and its replay buffer survive until an explicit kill.
	assert.Contains(t, m.GetBuffer(info.ID), "before-exit")

	// Writes and resizes to a dead session are silently ignored.
	m.Write(info.ID, []byte("echo ignored\n"))
	m.Resize(info.ID, 120, 40)

	m.Kill(info.ID)
	assert.Empty(t, m.List())
	assert.Empty(t, m.GetBuffer(info.ID))
}

func TestKillRemovesEntryWithoutExitEvent(t *testing.T) {
	m := newTestManager(t, nil)

	info, err := m.Create()
	require.NoError(t, err)

	m.Kill(info.ID)

	assert.Empty(t, m.List())
	assert.Empty(t, m.GetBuffer(info.ID))

	// Idempotent.
	m.Kill(info.ID)
	assert.Empty(t, m.List())
}

func TestUnknownSessionOperationsAreNoOps(t *testing.T) {
	m := newTestManager(t, nil)

	assert.NotPanics(t, func() {
		m.Write("term_missing", []byte("ls\n"))
		m.Resize("term_missing", 80, 24)
		m.Kill("term_missing")
	})
	assert.Empty(t, m.GetBuffer("term_missing"))
	assert.Empty(t, m.List())
}

func TestResizeClampsDimensions(t *testing.T) {
	m := newTestManager(t, nil)

	info, err := m.Create()
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.Resize(info.ID, 0, -5)
	})

	list := m.List()
	require.Len(t, list, 1)
	assert.True(t, list[0].Alive)
}

func TestSessionsAreIndependent(t *testing.T) {
	m := newTestManager(t, nil)

	a, err := m.Create()
	require.NoError(t, err)
	b, err := m.Create()
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)

	m.Write(a.ID, []byte("echo only-in-alpha\n"))
	m.Write(b.ID, []byte("echo only-in-beta\n"))

	require.Eventually(t, func() bool {
		return strings.Contains(m.GetBuffer(a.ID), "only-in-alpha") &&
			strings.Contains(m.GetBuffer(b.ID), "only-in-beta")
	}, 5*time.Second, 50*time.Millisecond)

	assert.NotContains(t, m.GetBuffer(a.ID), "only-in-beta")
	assert.NotContains(t, m.GetBuffer(b.ID), "only-in-alpha")
}

func TestKillAll(t *testing.T) {
	m := newTestManager(t, nil)

	_, err := m.Create()
	require.NoError(t, err)
	_, err = m.Create()
	require.NoError(t, err)
	require.Len(t, m.List(), 2)

	m.KillAll()
	assert.Empty(t, m.List())
}

func TestListIsSorted(t *testing.T) {
	m := newTestManager(t, nil)

	for i := 0; i < 3; i++ {
		_, err := m.Create()
		require.NoError(t, err)
	}

	list := m.List()
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestChildEnvStripsColorVars(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "3")
	t.Setenv("TERM", "dumb")

	env := childEnv("/w:/usr/bin")

	joined := strings.Join(env, "\n")
	assert.NotContains(t, joined, "NO_COLOR=")
	assert.NotContains(t, joined, "FORCE_COLOR=")
	assert.Contains(t, env, "PATH=/w:/usr/bin")
	// An inherited TERM is preserved, not overridden.
	assert.Contains(t, env, "TERM=dumb")
}

func TestChildEnvDefaultsTerm(t *testing.T) {
	orig, had := os.LookupEnv("TERM")
	os.Unsetenv("TERM")
	t.Cleanup(func() {
		if had {
			os.Setenv("TERM", orig)
		}
	})

	env := childEnv("/usr/bin")
	assert.Contains(t, env, "TERM=xterm-256color")
	assert.Contains(t, env, "PATH=/usr/bin")
}
