package cooccur

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleGraph() *Graph {
	// Degrees: glp-1 4, obesity 3, diabetes 2, gip 1, semaglutide 2.
	return Build(fields(
		"GLP-1; Obesity",
		"GLP-1; Diabetes",
		"Obesity; Diabetes; GLP-1",
		"GIP; GLP-1",
		"Semaglutide; Obesity; GLP-1",
	), Options{})
}

func TestTopDegree_Ranking(t *testing.T) {
	g := sampleGraph()

	sub := TopDegree(g, 2)
	if diff := cmp.Diff([]string{"glp-1", "obesity"}, sub.Nodes()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	want := []Edge{{Source: "glp-1", Target: "obesity", Weight: 3}}
	if diff := cmp.Diff(want, sub.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestTopDegree_DropsEdgesToExcludedNodes(t *testing.T) {
	g := sampleGraph()

	sub := TopDegree(g, 3)
	for _, e := range sub.Edges() {
		if !sub.HasNode(e.Source) || !sub.HasNode(e.Target) {
			t.Errorf("edge %s-%s references a node outside the subgraph", e.Source, e.Target)
		}
	}
	if sub.HasNode("gip") {
		t.Error("gip (degree 1) should not be in the top 3")
	}
	if sub.Weight("glp-1", "diabetes") != g.Weight("glp-1", "diabetes") {
		t.Error("subgraph edge weights must match the parent graph")
	}
}

func TestTopDegree_TieBreakKeepsDiscoveryOrder(t *testing.T) {
	// Every node has degree 1; discovery order is a, b, c, d, e, f.
	g := Build(fields("a; b", "c; d", "e; f"), Options{})

	tests := []struct {
		n    int
		want []string
	}{
		{1, []string{"a"}},
		{3, []string{"a", "b", "c"}},
		{5, []string{"a", "b", "c", "d", "e"}},
	}
	for _, tt := range tests {
		got := TopDegree(g, tt.n).Nodes()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("TopDegree(n=%d) mismatch (-want +got):\n%s", tt.n, diff)
		}
	}
}

func TestTopDegree_TieAtCutoff(t *testing.T) {
	// y has degree 2; x and z tie at 1 and x was discovered first.
	g := Build(fields("x; y", "z; y"), Options{})

	got := TopDegree(g, 2).Nodes()
	if diff := cmp.Diff([]string{"x", "y"}, got); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}

	ranked := g.RankedDegrees()
	if ranked[0].Keyword != "y" || ranked[1].Keyword != "x" || ranked[2].Keyword != "z" {
		t.Errorf("RankedDegrees order = %v, want y, x, z", ranked)
	}
}

func TestTopDegree_KeepsIsolatedSelections(t *testing.T) {
	// a-b weight 1, c-d weight 1: top 3 keeps c, whose only neighbor is excluded.
	g := Build(fields("a; b", "c; d"), Options{})

	sub := TopDegree(g, 3)
	if sub.NodeCount() != 3 {
		t.Fatalf("NodeCount() = %d, want 3", sub.NodeCount())
	}
	if sub.Degree("c") != 0 {
		t.Errorf("Degree(c) = %d, want 0 once d is excluded", sub.Degree("c"))
	}
	if sub.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", sub.EdgeCount())
	}
}

func TestTopDegree_AllNodes(t *testing.T) {
	g := sampleGraph()

	for _, n := range []int{g.NodeCount(), g.NodeCount() + 1, 1000} {
		sub := TopDegree(g, n)
		if diff := cmp.Diff(g.Nodes(), sub.Nodes()); diff != "" {
			t.Errorf("n=%d nodes mismatch (-want +got):\n%s", n, diff)
		}
		if diff := cmp.Diff(g.Edges(), sub.Edges()); diff != "" {
			t.Errorf("n=%d edges mismatch (-want +got):\n%s", n, diff)
		}
	}
}

func TestTopDegree_Zero(t *testing.T) {
	g := sampleGraph()

	for _, n := range []int{0, -3} {
		sub := TopDegree(g, n)
		if !sub.IsEmpty() || sub.EdgeCount() != 0 {
			t.Errorf("TopDegree(n=%d) = %d nodes, %d edges; want empty", n, sub.NodeCount(), sub.EdgeCount())
		}
	}
}

func TestTopDegree_EmptyGraph(t *testing.T) {
	sub := TopDegree(Build(fields(), Options{}), DefaultTopN)
	if !sub.IsEmpty() {
		t.Error("expected empty subgraph from empty graph")
	}
}
