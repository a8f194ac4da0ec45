package viz

import (
	"github.com/matsen/bibstat/internal/cooccur"
)

// FromGraph converts a co-occurrence graph into GraphData. Nodes keep
// discovery order and edges keep creation order. Keywords serve as node IDs.
func FromGraph(g *cooccur.Graph) *GraphData {
	data := &GraphData{}
	if g == nil {
		return data
	}

	degrees := g.Degrees()
	data.Nodes = make([]Node, 0, len(degrees))
	for _, d := range degrees {
		data.Nodes = append(data.Nodes, Node{
			ID:             d.Keyword,
			Label:          d.Keyword,
			Degree:         d.Degree,
			WeightedDegree: d.WeightedDegree,
		})
	}

	edges := g.Edges()
	data.Edges = make([]Edge, 0, len(edges))
	for _, e := range edges {
		data.Edges = append(data.Edges, Edge{Source: e.Source, Target: e.Target, Weight: e.Weight})
	}

	return data
}
