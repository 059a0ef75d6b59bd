package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	g := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := g.GenerateString()
		require.False(t, seen[s], "duplicate ULID generated: %s", s)
		seen[s] = true
	}
}

func TestPrefixedIDs(t *testing.T) {
	term := NewTerminalID()
	assert.True(t, strings.HasPrefix(term.String(), "term_"))

	req := NewRequestID()
	assert.True(t, strings.HasPrefix(req.String(), "req_"))

	conn := NewConnID()
	assert.True(t, strings.HasPrefix(conn.String(), "conn_"))

	assert.NotEqual(t, NewTerminalID(), NewTerminalID())
}

func TestIsValid(t *testing.T) {
	raw := Default().GenerateString()
	assert.True(t, IsValid(raw))
	assert.False(t, IsValid("not-a-ulid"))
	assert.False(t, IsValid(""))
}

func TestParseRoundTrip(t *testing.T) {
	raw := Default().GenerateString()
	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, parsed.String())
}
