package terminal

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferHoldsRecentOutput(t *testing.T) {
	b := NewBuffer(1024)

	var total bytes.Buffer
	for i := 0; i < 100; i++ {
		chunk := []byte(fmt.Sprintf("chunk-%03d|", i))
		total.Write(chunk)
		_, err := b.Write(chunk)
		require.NoError(t, err)
	}

	snap := b.Snapshot()
	assert.Len(t, snap, 1024)

	// Sliding window: the retained bytes are exactly the tail of the stream.
	all := total.Bytes()
	assert.Equal(t, all[len(all)-1024:], snap)
}

func TestBufferSnapshotNonDestructive(t *testing.T) {
	b := NewBuffer(64)
	b.Write([]byte("hello"))

	first := b.Snapshot()
	second := b.Snapshot()
	assert.Equal(t, []byte("hello"), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 5, b.Len())
}

func TestBufferSingleWriteLargerThanCapacity(t *testing.T) {
	b := NewBuffer(1000)

	big := make([]byte, 5000)
	for i := range big {
		big[i] = byte(i % 251)
	}
	n, err := b.Write(big)
	require.NoError(t, err)
	assert.Equal(t, 5000, n)

	assert.Equal(t, big[4000:], b.Snapshot())
}

func TestBufferWrapAround(t *testing.T) {
	b := NewBuffer(8)
	b.Write([]byte("abcdefgh"))
	b.Write([]byte("ij"))

	assert.Equal(t, []byte("cdefghij"), b.Snapshot())
}

func TestBufferDefaultCapacity(t *testing.T) {
	b := NewBuffer(0)

	chunk := make([]byte, 4096)
	for i := 0; i < 40; i++ { // 160 KiB total
		b.Write(chunk)
	}

	assert.Equal(t, DefaultBufferSize, b.Len())
}

func TestBufferEmptySnapshot(t *testing.T) {
	b := NewBuffer(16)
	assert.Empty(t, b.Snapshot())
	assert.Equal(t, 0, b.Len())
}
