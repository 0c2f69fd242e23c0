// Package graph resolves wikilinks across a vault into a link graph. The
// builder targets a minimal sink interface so backends are swappable; the
// in-memory Graph here is the default backend.
package graph

// NodeID identifies a node within one sink.
type NodeID int

// Writer is the minimal mutation surface a graph backend must provide.
// Builders guarantee that exactly one goroutine calls these methods per
// construction run.
type Writer interface {
	AddNode(label string) NodeID
	AddEdge(from, to NodeID)
}

// Kind selects edge semantics.
type Kind int

const (
	// Directed keeps edge pairs ordered: A→B records that A links to B.
	Directed Kind = iota
	// Undirected treats edge pairs as unordered connections.
	Undirected
)

func (k Kind) String() string {
	if k == Undirected {
		return "undirected"
	}
	return "directed"
}

// Node is one vault note in the graph, labeled by its vault-relative path
// with the extension stripped.
type Node struct {
	ID    NodeID `json:"id"`
	Label string `json:"label"`
}

// Edge is one resolved link.
type Edge struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
}

// Graph is the in-memory backend. A single logical owner mutates it; once
// built it is safe for concurrent readers.
type Graph struct {
	kind  Kind
	nodes []Node
	edges []Edge
}

// New returns an empty graph of the given kind.
func New(kind Kind) *Graph {
	return &Graph{kind: kind}
}

// AddNode appends a node and returns its ID.
func (g *Graph) AddNode(label string) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Label: label})
	return id
}

// AddEdge appends an edge. For undirected graphs the pair is stored in
// normalized order so (a,b) and (b,a) are the same connection.
func (g *Graph) AddEdge(from, to NodeID) {
	if g.kind == Undirected && to < from {
		from, to = to, from
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
}

// Kind returns the edge semantics of g.
func (g *Graph) Kind() Kind { return g.kind }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the node list in insertion order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the edge list in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// Node returns the node with the given ID.
func (g *Graph) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// Label returns the label of the given node, or "" for an unknown ID.
// Edge endpoints always resolve, so consumers walking Edges() can use
// this without the comma-ok form.
func (g *Graph) Label(id NodeID) string {
	n, _ := g.Node(id)
	return n.Label
}

// Replay copies g into another sink, preserving structure. Returns the
// mapping from g's node IDs to the sink's.
func Replay(g *Graph, w Writer) map[NodeID]NodeID {
	ids := make(map[NodeID]NodeID, len(g.nodes))
	for _, n := range g.nodes {
		ids[n.ID] = w.AddNode(n.Label)
	}
	for _, e := range g.edges {
		w.AddEdge(ids[e.From], ids[e.To])
	}
	return ids
}

var _ Writer = (*Graph)(nil)
