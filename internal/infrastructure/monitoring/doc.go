// Package monitoring provides Prometheus metrics for the backend.
//
// Metrics cover the HTTP surface (request counts, latencies, sizes),
// terminal session lifecycle, and cwd resolution outcomes. Exposition
// happens through the standard promhttp handler:
//
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
package monitoring
