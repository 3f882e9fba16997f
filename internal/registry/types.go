package registry

import (
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/GriffinCanCode/TermLens/backend/internal/shared/id"
)

// Session is an active terminal with its PTY and process handles.
type Session struct {
	ID         id.TerminalID
	Shell      string
	WorkingDir string
	Cols       int
	Rows       int
	StartedAt  time.Time

	cmd  *exec.Cmd
	ptmx *os.File

	output *Buffer

	mu     sync.RWMutex
	closed bool
}

// Info is the public representation of a session.
type Info struct {
	ID         id.TerminalID `json:"id"`
	Shell      string        `json:"shell"`
	WorkingDir string        `json:"working_dir"`
	Cols       int           `json:"cols"`
	Rows       int           `json:"rows"`
	StartedAt  time.Time     `json:"started_at"`
	Active     bool          `json:"active"`
	RootPID    int           `json:"root_pid"`
}

// Options configures a new session. Zero values fall back to the
// user's shell, home directory, and an 80x24 window.
type Options struct {
	Shell      string
	WorkingDir string
	Cols       int
	Rows       int
	Env        map[string]string
}

// Buffer is a thread-safe ring buffer for terminal output. Writes
// never block; the oldest bytes are dropped once capacity is reached.
type Buffer struct {
	data []byte
	size int
	head int
	tail int
	mu   sync.RWMutex
}

// NewBuffer creates a ring buffer holding at most size bytes.
func NewBuffer(size int) *Buffer {
	return &Buffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write appends p, overwriting the oldest bytes when full.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range p {
		b.data[b.tail] = c
		b.tail = (b.tail + 1) % b.size
		if b.tail == b.head {
			b.head = (b.head + 1) % b.size
		}
	}
	return len(p), nil
}

// ReadAll drains and returns everything currently buffered.
func (b *Buffer) ReadAll() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.head == b.tail {
		return []byte{}
	}

	var out []byte
	if b.tail > b.head {
		out = make([]byte, b.tail-b.head)
		copy(out, b.data[b.head:b.tail])
	} else {
		first := b.data[b.head:]
		out = make([]byte, len(first)+b.tail)
		copy(out, first)
		copy(out[len(first):], b.data[:b.tail])
	}

	b.head = b.tail
	return out
}

// Len reports how many bytes are buffered.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.tail >= b.head {
		return b.tail - b.head
	}
	return b.size - b.head + b.tail
}
