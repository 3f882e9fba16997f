// Package registry manages PTY-backed terminal sessions and maps
// terminal IDs to the root PID of the process running inside each PTY.
// That mapping is what the cwd resolver starts its tree walk from.
package registry
