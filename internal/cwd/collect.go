package cwd

// MaxDepth bounds tree traversal. Process trees are acyclic by OS
// contract, but a confused procfs should not take the stack with it.
const MaxDepth = 512

// Node is one process observed during tree collection.
type Node struct {
	PID     int
	Depth   int
	Command string
	Shell   bool
}

// TreeProber enumerates processes during collection.
type TreeProber interface {
	Children(pid int) []int
	CommandName(pid int) (string, bool)
}

// Collect walks the descendant tree of root depth-first and returns
// every reachable process as a Node. The root itself is always the
// first entry at depth 0, even when its command name is unreadable.
func Collect(p TreeProber, root int) []Node {
	var nodes []Node
	collect(p, root, 0, &nodes)
	return nodes
}

func collect(p TreeProber, pid, depth int, out *[]Node) {
	node := Node{PID: pid, Depth: depth}
	if name, ok := p.CommandName(pid); ok {
		node.Command = name
		node.Shell = IsShell(name)
	}
	*out = append(*out, node)

	if depth >= MaxDepth {
		return
	}
	for _, child := range p.Children(pid) {
		collect(p, child, depth+1, out)
	}
}
