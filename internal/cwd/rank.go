package cwd

import "sort"

// Rank orders collected nodes into the candidate probe sequence:
// deepest first, and shells before non-shells at equal depth. Nodes
// that tie on both keys keep their traversal order.
func Rank(nodes []Node) []int {
	ordered := make([]Node, len(nodes))
	copy(ordered, nodes)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Depth != ordered[j].Depth {
			return ordered[i].Depth > ordered[j].Depth
		}
		return ordered[i].Shell && !ordered[j].Shell
	})

	pids := make([]int, len(ordered))
	for i, node := range ordered {
		pids[i] = node.PID
	}
	return pids
}
