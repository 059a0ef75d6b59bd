package terminal

import "sync"

// DefaultBufferSize caps each session's replay buffer at 100 KiB.
const DefaultBufferSize = 100 * 1024

// Buffer is a thread-safe sliding-window buffer for terminal output. When the
// capacity is exceeded the oldest bytes are discarded, so a snapshot always
// holds the most recent output. Reads are non-destructive: the buffer is a
// replay log for UI reconnect, not a queue.
type Buffer struct {
	mu    sync.Mutex
	data  []byte
	start int
	count int
}

// NewBuffer creates a buffer with the given capacity in bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Buffer{
		data: make([]byte, capacity),
	}
}

// Write appends data, discarding the oldest bytes on overflow. Implements
// io.Writer and never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(p)
	size := len(b.data)

	if n >= size {
		// The chunk alone fills the window; keep only its tail.
		copy(b.data, p[n-size:])
		b.start = 0
		b.count = size
		return n, nil
	}

	end := (b.start + b.count) % size
	written := copy(b.data[end:], p)
	if written < n {
		copy(b.data, p[written:])
	}

	b.count += n
	if b.count > size {
		b.start = (b.start + b.count - size) % size
		b.count = size
	}

	return n, nil
}

// Snapshot returns a copy of the buffered output, oldest bytes first. The
// buffer contents are left intact.
func (b *Buffer) Snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, b.count)
	first := copy(out, b.data[b.start:min(b.start+b.count, len(b.data))])
	if first < b.count {
		copy(out[first:], b.data[:b.count-first])
	}
	return out
}

// Len returns the number of bytes currently buffered.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
