// Package cooccur builds keyword co-occurrence networks from publication records.
//
// The graph is undirected and weighted: an edge between two keywords counts the
// records in which both appear. Nodes only enter the graph through an edge, and
// node discovery order is preserved so that every listing is deterministic.
package cooccur

import "sort"

// Graph is an undirected weighted co-occurrence graph. A Graph is read-only once
// returned by a Builder or TopDegree.
type Graph struct {
	nodes     []string       // discovery order
	index     map[string]int // keyword -> position in nodes
	neighbors [][]int        // per node, neighbor positions in edge creation order
	weights   map[pair]int
	edges     []pair // creation order
}

// pair identifies an edge by node positions with lo < hi.
type pair struct {
	lo, hi int
}

// Edge is one weighted edge of the graph.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// NodeDegree pairs a keyword with its degree and weighted degree.
type NodeDegree struct {
	Keyword        string `json:"keyword"`
	Degree         int    `json:"degree"`          // distinct neighbors
	WeightedDegree int    `json:"weighted_degree"` // sum of incident edge weights
}

func newGraph() *Graph {
	return &Graph{
		index:   make(map[string]int),
		weights: make(map[pair]int),
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.nodes) == 0
}

// Nodes returns the keywords in discovery order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// HasNode reports whether kw is a node of the graph.
func (g *Graph) HasNode(kw string) bool {
	_, ok := g.index[kw]
	return ok
}

// Neighbors returns the neighbors of kw in edge creation order.
func (g *Graph) Neighbors(kw string) []string {
	i, ok := g.index[kw]
	if !ok {
		return nil
	}
	out := make([]string, len(g.neighbors[i]))
	for j, n := range g.neighbors[i] {
		out[j] = g.nodes[n]
	}
	return out
}

// Degree returns the number of distinct neighbors of kw, or 0 if kw is not a node.
func (g *Graph) Degree(kw string) int {
	i, ok := g.index[kw]
	if !ok {
		return 0
	}
	return len(g.neighbors[i])
}

// Weight returns the weight of the edge between a and b, or 0 when there is none.
// Weight(a, b) == Weight(b, a).
func (g *Graph) Weight(a, b string) int {
	i, ok := g.index[a]
	if !ok {
		return 0
	}
	j, ok := g.index[b]
	if !ok {
		return 0
	}
	return g.weights[makePair(i, j)]
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b string) bool {
	return g.Weight(a, b) > 0
}

// Edges returns every edge once, in creation order. Source is the endpoint
// discovered first.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for k, p := range g.edges {
		out[k] = Edge{
			Source: g.nodes[p.lo],
			Target: g.nodes[p.hi],
			Weight: g.weights[p],
		}
	}
	return out
}

// Degrees lists every node with its degree, in discovery order.
func (g *Graph) Degrees() []NodeDegree {
	out := make([]NodeDegree, len(g.nodes))
	for i, kw := range g.nodes {
		wd := 0
		for _, n := range g.neighbors[i] {
			wd += g.weights[makePair(i, n)]
		}
		out[i] = NodeDegree{Keyword: kw, Degree: len(g.neighbors[i]), WeightedDegree: wd}
	}
	return out
}

// RankedDegrees lists nodes by degree descending. Equal degrees keep discovery order.
func (g *Graph) RankedDegrees() []NodeDegree {
	out := g.Degrees()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Degree > out[j].Degree
	})
	return out
}

// node returns the position of kw, adding it if needed.
func (g *Graph) node(kw string) int {
	if i, ok := g.index[kw]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, kw)
	g.neighbors = append(g.neighbors, nil)
	g.index[kw] = i
	return i
}

// increment adds delta to the a-b edge, creating it when absent.
// Callers guarantee a != b.
func (g *Graph) increment(a, b string, delta int) {
	i := g.node(a)
	j := g.node(b)
	p := makePair(i, j)
	if _, ok := g.weights[p]; !ok {
		g.edges = append(g.edges, p)
		g.neighbors[i] = append(g.neighbors[i], j)
		g.neighbors[j] = append(g.neighbors[j], i)
	}
	g.weights[p] += delta
}

func makePair(i, j int) pair {
	if i > j {
		i, j = j, i
	}
	return pair{lo: i, hi: j}
}
