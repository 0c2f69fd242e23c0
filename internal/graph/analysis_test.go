package graph

import "testing"

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(New(Directed))
	if a.Nodes != 0 || a.Edges != 0 || a.Components != 0 || a.Hub != "" {
		t.Errorf("analysis = %+v, want zero", a)
	}
}

func TestAnalyze_ComponentsAndHub(t *testing.T) {
	g := New(Undirected)
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	g.AddNode("island")
	g.AddEdge(a, b)
	g.AddEdge(a, c)

	res := Analyze(g)
	if res.Nodes != 4 {
		t.Errorf("nodes = %d, want 4", res.Nodes)
	}
	if res.Edges != 2 {
		t.Errorf("edges = %d, want 2", res.Edges)
	}
	if res.Components != 2 {
		t.Errorf("components = %d, want 2", res.Components)
	}
	if res.Hub != "a" || res.HubDegree != 2 {
		t.Errorf("hub = %q (%d), want a (2)", res.Hub, res.HubDegree)
	}
}
