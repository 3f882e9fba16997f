package cwd

// knownShells is the fixed set of command basenames treated as
// interactive shells when ranking candidates.
var knownShells = map[string]struct{}{
	"bash": {},
	"zsh":  {},
	"fish": {},
	"sh":   {},
	"dash": {},
	"ksh":  {},
	"tcsh": {},
	"csh":  {},
}

// IsShell reports whether name is a recognized shell basename.
// An empty (unresolved) name is never a shell.
func IsShell(name string) bool {
	_, ok := knownShells[name]
	return ok
}
