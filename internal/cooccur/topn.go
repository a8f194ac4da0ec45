package cooccur

// DefaultTopN is the number of keywords kept for display.
const DefaultTopN = 25

// TopDegree returns the subgraph induced by the n nodes of highest degree.
//
// Nodes are ranked by distinct-neighbor count, descending, with a stable sort so
// that equal degrees keep discovery order. n >= NodeCount returns every node
// and edge; n <= 0 returns an empty graph. Edges to excluded nodes are dropped.
func TopDegree(g *Graph, n int) *Graph {
	if n <= 0 || g.IsEmpty() {
		return newGraph()
	}

	ranked := g.RankedDegrees()
	if n > len(ranked) {
		n = len(ranked)
	}
	keep := make(map[int]bool, n)
	for _, nd := range ranked[:n] {
		keep[g.index[nd.Keyword]] = true
	}
	return g.induced(keep)
}

// induced builds the subgraph on the kept node positions. Node order and edge
// order follow the parent graph.
func (g *Graph) induced(keep map[int]bool) *Graph {
	sub := newGraph()
	for i, kw := range g.nodes {
		if keep[i] {
			sub.node(kw)
		}
	}
	for _, p := range g.edges {
		if keep[p.lo] && keep[p.hi] {
			sub.increment(g.nodes[p.lo], g.nodes[p.hi], g.weights[p])
		}
	}
	return sub
}
