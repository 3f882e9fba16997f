package registry

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/GriffinCanCode/TermLens/backend/internal/shared/id"
)

const outputBufferSize = 1 << 20 // 1MB per session

var (
	// ErrNotFound is returned for unknown terminal IDs.
	ErrNotFound = errors.New("terminal not found")
	// ErrClosed is returned for operations on a terminated session.
	ErrClosed = errors.New("terminal session is closed")
	// ErrNoProcess is returned when a session has no live process handle.
	ErrNoProcess = errors.New("terminal has no process")
)

// Manager owns all terminal sessions.
type Manager struct {
	sessions sync.Map // map[id.TerminalID]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{}
}

// Create starts a shell inside a new PTY and registers the session.
func (m *Manager) Create(opts Options) (*Info, error) {
	shell := opts.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/bash"
		}
	}

	workingDir := opts.WorkingDir
	if workingDir == "" {
		workingDir = os.Getenv("HOME")
		if workingDir == "" {
			workingDir = "/tmp"
		}
	}

	cols := opts.Cols
	if cols <= 0 {
		cols = 80
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = 24
	}

	cmd := exec.Command(shell)
	cmd.Dir = workingDir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	for key, value := range opts.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	session := &Session{
		ID:         id.NewTerminalID(),
		Shell:      shell,
		WorkingDir: workingDir,
		Cols:       cols,
		Rows:       rows,
		StartedAt:  time.Now(),
		cmd:        cmd,
		ptmx:       ptmx,
		output:     NewBuffer(outputBufferSize),
	}
	m.sessions.Store(session.ID, session)

	go m.readOutput(session)
	go m.monitorProcess(session)

	return session.info(), nil
}

// readOutput continuously drains the PTY into the session buffer.
func (m *Manager) readOutput(session *Session) {
	buf := make([]byte, 4096)
	for {
		n, err := session.ptmx.Read(buf)
		if n > 0 {
			session.output.Write(buf[:n])
		}
		if err != nil {
			// EOF and read-after-close both mean the session is done.
			return
		}
	}
}

// monitorProcess reaps the shell and marks the session closed.
func (m *Manager) monitorProcess(session *Session) {
	session.cmd.Wait()

	session.mu.Lock()
	session.closed = true
	session.mu.Unlock()

	session.ptmx.Close()
}

// RootPID maps a terminal ID to the PID of the process inside its PTY.
// This is the entry point for cwd resolution.
func (m *Manager) RootPID(tid id.TerminalID) (int, error) {
	session, err := m.load(tid)
	if err != nil {
		return 0, err
	}
	if session.cmd == nil || session.cmd.Process == nil {
		return 0, ErrNoProcess
	}
	return session.cmd.Process.Pid, nil
}

// Write sends input to a session.
func (m *Manager) Write(tid id.TerminalID, input []byte) error {
	session, err := m.load(tid)
	if err != nil {
		return err
	}

	session.mu.RLock()
	closed := session.closed
	session.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	_, err = session.ptmx.Write(input)
	return err
}

// Read drains buffered output from a session.
func (m *Manager) Read(tid id.TerminalID) ([]byte, error) {
	session, err := m.load(tid)
	if err != nil {
		return nil, err
	}
	return session.output.ReadAll(), nil
}

// Resize changes the PTY dimensions.
func (m *Manager) Resize(tid id.TerminalID, cols, rows int) error {
	session, err := m.load(tid)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return ErrClosed
	}

	session.Cols = cols
	session.Rows = rows

	return pty.Setsize(session.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

// Kill terminates a session and removes it from the registry.
func (m *Manager) Kill(tid id.TerminalID) error {
	session, err := m.load(tid)
	if err != nil {
		return err
	}

	session.mu.Lock()
	if !session.closed {
		session.closed = true
		if session.cmd.Process != nil {
			session.cmd.Process.Kill()
		}
		session.ptmx.Close()
	}
	session.mu.Unlock()

	m.sessions.Delete(tid)
	return nil
}

// Get retrieves session info.
func (m *Manager) Get(tid id.TerminalID) (*Info, error) {
	session, err := m.load(tid)
	if err != nil {
		return nil, err
	}
	return session.info(), nil
}

// List returns info for every registered session.
func (m *Manager) List() []Info {
	var infos []Info
	m.sessions.Range(func(_, value interface{}) bool {
		infos = append(infos, *value.(*Session).info())
		return true
	})
	return infos
}

// Shutdown kills every session. Used on server close.
func (m *Manager) Shutdown() {
	m.sessions.Range(func(key, _ interface{}) bool {
		m.Kill(key.(id.TerminalID))
		return true
	})
}

func (m *Manager) load(tid id.TerminalID) (*Session, error) {
	value, ok := m.sessions.Load(tid)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, tid)
	}
	return value.(*Session), nil
}

func (s *Session) info() *Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rootPID := 0
	if s.cmd != nil && s.cmd.Process != nil {
		rootPID = s.cmd.Process.Pid
	}

	return &Info{
		ID:         s.ID,
		Shell:      s.Shell,
		WorkingDir: s.WorkingDir,
		Cols:       s.Cols,
		Rows:       s.Rows,
		StartedAt:  s.StartedAt,
		Active:     !s.closed,
		RootPID:    rootPID,
	}
}
