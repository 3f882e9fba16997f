package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/TermLens/backend/internal/cwd"
	"github.com/GriffinCanCode/TermLens/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TermLens/backend/internal/registry"
	"github.com/GriffinCanCode/TermLens/backend/internal/shared/id"
)

// fakeRegistry serves a fixed terminal-to-PID mapping.
type fakeRegistry struct {
	pids   map[id.TerminalID]int
	broken map[id.TerminalID]bool // terminals with no process handle
}

func (f *fakeRegistry) Create(registry.Options) (*registry.Info, error) {
	return nil, registry.ErrNoProcess
}

func (f *fakeRegistry) Get(tid id.TerminalID) (*registry.Info, error) {
	pid, ok := f.pids[tid]
	if !ok {
		return nil, registry.ErrNotFound
	}
	return &registry.Info{ID: tid, RootPID: pid, Active: true, StartedAt: time.Now()}, nil
}

func (f *fakeRegistry) List() []registry.Info {
	var infos []registry.Info
	for tid, pid := range f.pids {
		infos = append(infos, registry.Info{ID: tid, RootPID: pid, Active: true})
	}
	return infos
}

func (f *fakeRegistry) Kill(tid id.TerminalID) error {
	if _, ok := f.pids[tid]; !ok {
		return registry.ErrNotFound
	}
	delete(f.pids, tid)
	return nil
}

func (f *fakeRegistry) Resize(tid id.TerminalID, _, _ int) error {
	if _, ok := f.pids[tid]; !ok {
		return registry.ErrNotFound
	}
	return nil
}

func (f *fakeRegistry) Write(tid id.TerminalID, _ []byte) error {
	if _, ok := f.pids[tid]; !ok {
		return registry.ErrNotFound
	}
	return nil
}

func (f *fakeRegistry) Read(tid id.TerminalID) ([]byte, error) {
	if _, ok := f.pids[tid]; !ok {
		return nil, registry.ErrNotFound
	}
	return []byte("$ "), nil
}

func (f *fakeRegistry) RootPID(tid id.TerminalID) (int, error) {
	if f.broken[tid] {
		return 0, registry.ErrNoProcess
	}
	pid, ok := f.pids[tid]
	if !ok {
		return 0, registry.ErrNotFound
	}
	return pid, nil
}

// fakeProber mirrors the probe surface with canned data.
type fakeProber struct {
	children map[int][]int
	comm     map[int]string
	links    map[int]string
}

func (f *fakeProber) Children(pid int) []int { return f.children[pid] }

func (f *fakeProber) CommandName(pid int) (string, bool) {
	name, ok := f.comm[pid]
	return name, ok
}

func (f *fakeProber) CwdLink(pid int) (string, bool) {
	path, ok := f.links[pid]
	return path, ok
}

func (f *fakeProber) CwdFromEnviron(int) (string, bool) { return "", false }
func (f *fakeProber) CwdFromLsof(int) (string, bool)    { return "", false }

func newTestRouter(reg Registry, probe cwd.Prober) *gin.Engine {
	gin.SetMode(gin.TestMode)
	metrics, _ := monitoring.NewMetrics()
	resolver := cwd.NewResolverWithCapability(probe, cwd.CapProcFS, nil)
	handlers := NewHandlers(reg, resolver, metrics, nil)

	r := gin.New()
	r.GET("/", handlers.Root)
	r.GET("/health", handlers.Health)
	r.GET("/terminals", handlers.ListTerminals)
	r.GET("/terminals/:id", handlers.GetTerminal)
	r.DELETE("/terminals/:id", handlers.KillTerminal)
	r.GET("/terminals/:id/cwd", handlers.GetTerminalCwd)
	return r
}

func doRequest(r *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestGetTerminalCwd(t *testing.T) {
	tid := id.NewTerminalID()

	t.Run("resolves through a ranked child", func(t *testing.T) {
		// The root's own probe fails; its bash child answers.
		reg := &fakeRegistry{pids: map[id.TerminalID]int{tid: 100}}
		probe := &fakeProber{
			children: map[int][]int{100: {200}},
			comm:     map[int]string{100: "terminado", 200: "bash"},
			links:    map[int]string{200: "/home/test"},
		}
		w, body := doRequest(newTestRouter(reg, probe), http.MethodGet, "/terminals/"+string(tid)+"/cwd")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/home/test", body["cwd"])
		assert.Equal(t, string(tid), body["terminal_id"])
	})

	t.Run("404 for unknown terminal", func(t *testing.T) {
		reg := &fakeRegistry{pids: map[id.TerminalID]int{}}
		w, body := doRequest(newTestRouter(reg, &fakeProber{}), http.MethodGet, "/terminals/term_nope/cwd")

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, body["error"], "not found")
	})

	t.Run("500 when the process handle is gone", func(t *testing.T) {
		reg := &fakeRegistry{
			pids:   map[id.TerminalID]int{tid: 100},
			broken: map[id.TerminalID]bool{tid: true},
		}
		w, body := doRequest(newTestRouter(reg, &fakeProber{}), http.MethodGet, "/terminals/"+string(tid)+"/cwd")

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "could not access terminal process", body["error"])
	})

	t.Run("500 when resolution exhausts every candidate", func(t *testing.T) {
		reg := &fakeRegistry{pids: map[id.TerminalID]int{tid: 100}}
		w, body := doRequest(newTestRouter(reg, &fakeProber{}), http.MethodGet, "/terminals/"+string(tid)+"/cwd")

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "could not determine terminal cwd", body["error"])
	})

	t.Run("503 without a registry", func(t *testing.T) {
		w, body := doRequest(newTestRouter(nil, &fakeProber{}), http.MethodGet, "/terminals/x/cwd")

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "terminal service not available", body["error"])
	})
}

func TestTerminalCRUD(t *testing.T) {
	tid := id.NewTerminalID()
	reg := &fakeRegistry{pids: map[id.TerminalID]int{tid: 100}}
	router := newTestRouter(reg, &fakeProber{})

	t.Run("list", func(t *testing.T) {
		w, body := doRequest(router, http.MethodGet, "/terminals")
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("get", func(t *testing.T) {
		w, body := doRequest(router, http.MethodGet, "/terminals/"+string(tid))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, string(tid), body["id"])
	})

	t.Run("get unknown", func(t *testing.T) {
		w, _ := doRequest(router, http.MethodGet, "/terminals/term_nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("kill then gone", func(t *testing.T) {
		w, _ := doRequest(router, http.MethodDelete, "/terminals/"+string(tid))
		require.Equal(t, http.StatusOK, w.Code)
		w, _ = doRequest(router, http.MethodGet, "/terminals/"+string(tid))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRootAndHealth(t *testing.T) {
	router := newTestRouter(&fakeRegistry{}, &fakeProber{})

	w, body := doRequest(router, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "termlens-backend", body["service"])

	w, body = doRequest(router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotNil(t, body["uptime_seconds"])
}

func TestResizeValidation(t *testing.T) {
	tid := id.NewTerminalID()
	reg := &fakeRegistry{pids: map[id.TerminalID]int{tid: 100}}

	gin.SetMode(gin.TestMode)
	metrics, _ := monitoring.NewMetrics()
	resolver := cwd.NewResolverWithCapability(&fakeProber{}, cwd.CapProcFS, nil)
	handlers := NewHandlers(reg, resolver, metrics, nil)

	r := gin.New()
	r.POST("/terminals/:id/resize", handlers.ResizeTerminal)

	t.Run("missing fields rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/terminals/"+string(tid)+"/resize", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid resize", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/terminals/"+string(tid)+"/resize", strings.NewReader(`{"cols":120,"rows":40}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
