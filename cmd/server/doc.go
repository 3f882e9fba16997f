// Package main is the entry point for the termlens backend server.
//
// The server hosts PTY-backed terminal sessions over a REST API and
// resolves the working directory of the foreground shell of a terminal
// by walking the process tree rooted at the terminal's root PID.
//
// The server provides:
//   - REST API for terminal lifecycle (create, resize, input, output, kill)
//   - Working-directory resolution per terminal
//   - Prometheus metrics and health endpoint
//   - Token auth and rate limiting
//
// Configuration is taken from environment variables (12-factor); see
// internal/infrastructure/config for the full set of knobs.
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
