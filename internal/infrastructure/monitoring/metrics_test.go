package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("repeated construction does not panic", func(t *testing.T) {
		NewMetrics()
		NewMetrics()
	})

	t.Run("resolution outcomes are labelled", func(t *testing.T) {
		m, reg := NewMetrics()
		m.RecordResolution(true, 3, 10*time.Millisecond)
		m.RecordResolution(false, 1, time.Millisecond)

		families, err := reg.Gather()
		require.NoError(t, err)

		var outcomes []string
		for _, fam := range families {
			if fam.GetName() != "termlens_cwd_resolutions_total" {
				continue
			}
			for _, metric := range fam.GetMetric() {
				for _, label := range metric.GetLabel() {
					outcomes = append(outcomes, label.GetValue())
				}
			}
		}
		assert.ElementsMatch(t, []string{"found", "not_found"}, outcomes)
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, reg := NewMetrics()

	r := gin.New()
	r.Use(Middleware(m))
	r.GET("/terminals/:id/cwd", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"cwd": "/tmp"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/terminals/term_x/cwd", nil))
	require.Equal(t, http.StatusOK, w.Code)

	exposition := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).
		ServeHTTP(exposition, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := exposition.Body.String()

	// The route template, not the raw path, is the label value.
	assert.Contains(t, body, `path="/terminals/:id/cwd"`)
	assert.Contains(t, body, "termlens_http_requests_total")
}
