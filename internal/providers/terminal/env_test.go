package terminal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPathOrdering(t *testing.T) {
	t.Setenv("PATH", "/usr/bin:/bin")
	c := NewComposer(nil)

	got := c.BuildPath("/w", "/r/bin/node", "/t1/gog", "node")
	assert.Equal(t, "/w:/r/bin:/t1:/usr/bin:/bin", got)
}

func TestBuildPathDeduplicates(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	c := NewComposer(nil)

	got := c.BuildPath("/w", "/t1/node", "/t1/gog", "/t1/jq", "/w/desk")
	assert.Equal(t, "/w:/t1:/usr/bin", got)
}

func TestBuildPathAllBareNames(t *testing.T) {
	t.Setenv("PATH", "/usr/bin:/bin")
	c := NewComposer(nil)

	// Bare names carry no directory; the inherited PATH comes back
	// unchanged, with no leading separator.
	got := c.BuildPath("", "node", "gog", "jq")
	assert.Equal(t, "/usr/bin:/bin", got)
}

func TestEnsureWrapperDir(t *testing.T) {
	stateDir := t.TempDir()
	c := NewComposer(nil)

	dir, err := c.EnsureWrapperDir(stateDir, "/app/dist/desk.js", "/opt/node/bin/node")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(stateDir, "bin"), dir)

	script := filepath.Join(dir, "desk")
	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "wrapper must be owner-executable")

	body, err := os.ReadFile(script)
	require.NoError(t, err)
	content := string(body)
	assert.True(t, strings.HasPrefix(content, "#!/bin/sh\n"))
	assert.Contains(t, content, `"/opt/node/bin/node"`)
	assert.Contains(t, content, `"/app/dist/desk.js"`)
	assert.Contains(t, content, `"$@"`)
}

func TestEnsureWrapperDirIdempotent(t *testing.T) {
	stateDir := t.TempDir()
	c := NewComposer(nil)

	_, err := c.EnsureWrapperDir(stateDir, "/app/desk.js", "/old/node")
	require.NoError(t, err)

	dir, err := c.EnsureWrapperDir(stateDir, "/app/desk.js", "/new/node")
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "desk"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "/new/node")
	assert.NotContains(t, string(body), "/old/node")
}

func TestEnsureWrapperDirBareRuntime(t *testing.T) {
	stateDir := t.TempDir()
	c := NewComposer(nil)

	dir, err := c.EnsureWrapperDir(stateDir, "/app/desk.js", "")
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "desk"))
	require.NoError(t, err)
	// Bare runtime relies on the shell's own PATH.
	assert.Contains(t, string(body), `exec "node"`)
}
