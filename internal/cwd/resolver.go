package cwd

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/TermLens/backend/internal/infrastructure/logging"
)

// Capability classifies what the host offers for reading another
// process's working directory. New platforms slot in here rather than
// as scattered GOOS conditionals.
type Capability int

const (
	// CapProcFS marks hosts with a native cwd symlink under /proc.
	CapProcFS Capability = iota
	// CapExternalTool marks hosts where only lsof can see another
	// process's cwd.
	CapExternalTool
	// CapUnknown marks everything else; the procfs strategies are
	// still attempted best-effort.
	CapUnknown
)

// DetectCapability picks the capability for the running host.
func DetectCapability() Capability {
	switch runtime.GOOS {
	case "linux":
		return CapProcFS
	case "darwin":
		return CapExternalTool
	default:
		return CapUnknown
	}
}

// Prober is the full probe surface the resolver needs.
type Prober interface {
	TreeProber
	CwdLink(pid int) (string, bool)
	CwdFromEnviron(pid int) (string, bool)
	CwdFromLsof(pid int) (string, bool)
}

// Resolver answers cwd queries for a root PID.
type Resolver struct {
	probe  Prober
	onHost Capability
	log    *logging.Logger
}

// NewResolver creates a resolver for the running host.
func NewResolver(probe Prober, logger *logging.Logger) *Resolver {
	return NewResolverWithCapability(probe, DetectCapability(), logger)
}

// NewResolverWithCapability creates a resolver with a fixed capability.
// Tests use it to exercise every platform branch on one host.
func NewResolverWithCapability(probe Prober, capability Capability, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{probe: probe, onHost: capability, log: logger}
}

// ResolveOne tries the host's cwd strategies against a single PID and
// returns the first hit. Absence covers vanished processes, permission
// errors, and tool failures alike.
func (r *Resolver) ResolveOne(pid int) (string, bool) {
	switch r.onHost {
	case CapExternalTool:
		return r.probe.CwdFromLsof(pid)
	default:
		if path, ok := r.probe.CwdLink(pid); ok {
			return path, true
		}
		return r.probe.CwdFromEnviron(pid)
	}
}

// Result describes one resolution attempt.
type Result struct {
	Path       string
	Found      bool
	Candidates int
}

// Resolve collects the process tree under root, probes candidates in
// ranked order, and returns the first cwd found. When every candidate
// misses, one last direct attempt is made on root itself so callers
// that bypass collection still get an answer where possible.
func (r *Resolver) Resolve(root int) (string, bool) {
	res := r.ResolveDetailed(root)
	return res.Path, res.Found
}

// ResolveDetailed is Resolve plus bookkeeping for metrics.
func (r *Resolver) ResolveDetailed(root int) Result {
	nodes := Collect(r.probe, root)

	for _, pid := range Rank(nodes) {
		if path, ok := r.ResolveOne(pid); ok {
			r.log.Debug("resolved cwd",
				zap.Int("root_pid", root),
				zap.Int("pid", pid),
				zap.String("cwd", path),
			)
			return Result{Path: path, Found: true, Candidates: len(nodes)}
		}
	}

	r.log.Debug("no candidate yielded a cwd",
		zap.Int("root_pid", root),
		zap.Int("candidates", len(nodes)),
	)

	path, ok := r.ResolveOne(root)
	return Result{Path: path, Found: ok, Candidates: len(nodes)}
}
