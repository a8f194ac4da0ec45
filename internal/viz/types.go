// Package viz renders keyword co-occurrence graphs as interactive HTML pages.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a keyword in the graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Sizing and tooltips
	Degree         int `json:"degree"`
	WeightedDegree int `json:"weightedDegree"`
}

// Edge represents a co-occurrence between two keywords.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// MaxDegree returns the largest node degree, at least 1.
func (g *GraphData) MaxDegree() int {
	top := 1
	for _, n := range g.Nodes {
		if n.Degree > top {
			top = n.Degree
		}
	}
	return top
}

// MaxWeight returns the largest edge weight, at least 1.
func (g *GraphData) MaxWeight() int {
	top := 1
	for _, e := range g.Edges {
		if e.Weight > top {
			top = e.Weight
		}
	}
	return top
}
