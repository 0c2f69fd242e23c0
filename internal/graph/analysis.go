package graph

// Analysis summarizes a built graph for connectivity reports.
type Analysis struct {
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Components int    `json:"components"`
	Hub        string `json:"hub,omitempty"`
	HubDegree  int    `json:"hub_degree"`
}

// Analyze computes node/edge counts, the number of connected components
// (edge direction ignored), and the best-connected note. Ties on degree go
// to the earlier node.
func Analyze(g *Graph) Analysis {
	a := Analysis{Nodes: g.NodeCount(), Edges: g.EdgeCount()}
	if a.Nodes == 0 {
		return a
	}

	parent := make([]int, a.Nodes)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	degree := make([]int, a.Nodes)
	for _, e := range g.Edges() {
		degree[e.From]++
		degree[e.To]++
		parent[find(int(e.From))] = find(int(e.To))
	}

	components := 0
	for i := range parent {
		if find(i) == i {
			components++
		}
	}
	a.Components = components

	hub := 0
	for i, d := range degree {
		if d > degree[hub] {
			hub = i
		}
	}
	a.HubDegree = degree[hub]
	if n, ok := g.Node(NodeID(hub)); ok {
		a.Hub = n.Label
	}
	return a
}
