// Package cwd determines the working directory of the foreground shell
// behind a terminal's root process.
//
// The pipeline is a single stateless pass per query: collect the
// descendant tree of the root PID, rank every process so the deepest
// shell is tried first (a full-screen program's subshell should win
// over its parent), then probe each candidate with the platform's cwd
// strategies until one answers. A full miss is a normal outcome, not
// an error.
package cwd
