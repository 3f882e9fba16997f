// Package proc provides best-effort probes into operating system process
// state: child enumeration, command names, and working directories.
//
// Every probe degrades to an absence result. A vanished process, a
// permission error, and a missing helper tool all look the same to the
// caller; none of them is reported as an error.
package proc

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTimeout bounds every external tool invocation.
const DefaultTimeout = 5 * time.Second

// Runner executes an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Prober reads process state from the procfs mount when present and
// falls back to external tools (pgrep, ps, lsof) otherwise.
type Prober struct {
	root    string // procfs mount point
	run     Runner
	timeout time.Duration
}

// New creates a prober against the host's /proc with the default runner.
func New() *Prober {
	return NewCustom("/proc", defaultRunner, DefaultTimeout)
}

// NewCustom creates a prober with an alternate procfs root, command
// runner, and tool timeout. Used by tests to fake both probe surfaces.
func NewCustom(root string, run Runner, timeout time.Duration) *Prober {
	if root == "" {
		root = "/proc"
	}
	if run == nil {
		run = defaultRunner
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{root: root, run: run, timeout: timeout}
}

// Children returns the direct child PIDs of pid. The procfs children
// list is consulted first; when it is empty or unreadable, pgrep -P
// provides the fallback. Returns an empty slice on total failure.
func (p *Prober) Children(pid int) []int {
	var children []int

	data, err := os.ReadFile(p.path(pid, "task", strconv.Itoa(pid), "children"))
	if err == nil {
		for _, field := range strings.Fields(string(data)) {
			if child, err := strconv.Atoi(field); err == nil {
				children = append(children, child)
			}
		}
	}
	if len(children) > 0 {
		return children
	}

	out, err := p.exec("pgrep", "-P", strconv.Itoa(pid))
	if err != nil {
		return children
	}
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if child, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			children = append(children, child)
		}
	}
	return children
}

// CommandName returns the short executable name of pid, stripped of
// surrounding whitespace and directory components.
func (p *Prober) CommandName(pid int) (string, bool) {
	if data, err := os.ReadFile(p.path(pid, "comm")); err == nil {
		if name := trimCommand(string(data)); name != "" {
			return name, true
		}
	}

	// ps may return a full path; take the basename.
	out, err := p.exec("ps", "-p", strconv.Itoa(pid), "-o", "comm=")
	if err != nil {
		return "", false
	}
	name := trimCommand(string(out))
	return name, name != ""
}

// CwdLink resolves the cwd symlink of pid from procfs.
func (p *Prober) CwdLink(pid int) (string, bool) {
	target, err := os.Readlink(p.path(pid, "cwd"))
	if err != nil || target == "" {
		return "", false
	}
	return target, true
}

// CwdFromEnviron extracts the PWD variable from the NUL-separated
// environment block of pid. Non-UTF-8 bytes are replaced rather than
// failing the probe.
func (p *Prober) CwdFromEnviron(pid int) (string, bool) {
	data, err := os.ReadFile(p.path(pid, "environ"))
	if err != nil {
		return "", false
	}
	for _, entry := range strings.Split(string(data), "\x00") {
		if value, ok := strings.CutPrefix(entry, "PWD="); ok && value != "" {
			return strings.ToValidUTF8(value, string(utf8.RuneError)), true
		}
	}
	return "", false
}

// CwdFromLsof asks lsof for the cwd file descriptor of pid and parses
// the n-prefixed name line of its field output.
func (p *Prober) CwdFromLsof(pid int) (string, bool) {
	out, err := p.exec("lsof", "-a", "-p", strconv.Itoa(pid), "-d", "cwd", "-Fn")
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if path, ok := strings.CutPrefix(line, "n"); ok && path != "" {
			return strings.ToValidUTF8(path, string(utf8.RuneError)), true
		}
	}
	return "", false
}

func (p *Prober) exec(name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.run(ctx, name, args...)
}

func (p *Prober) path(pid int, parts ...string) string {
	return filepath.Join(append([]string{p.root, strconv.Itoa(pid)}, parts...)...)
}

func trimCommand(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}
	return filepath.Base(name)
}
