package cooccur

import "github.com/matsen/bibstat/internal/keyword"

// KeywordSource is implemented by records that expose a raw keyword field.
// KeywordField returns nil when the record has no keywords.
type KeywordSource interface {
	KeywordField() any
}

// Options controls how records are paired.
type Options struct {
	// Normalizer turns raw fields into tokens.
	Normalizer keyword.Normalizer

	// DedupePairs removes repeated tokens within a record before pairing, so each
	// keyword pair is counted at most once per record. When false, pairs are taken
	// over every pair of positions and a repeated keyword adds one count per
	// occurrence (e.g. "A; a; B" gives a-b weight 2).
	DedupePairs bool
}

// Builder accumulates co-occurrence counts record by record.
type Builder struct {
	opts  Options
	graph *Graph
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts, graph: newGraph()}
}

// AddField normalizes one record's raw keyword field and adds its pairs.
func (b *Builder) AddField(v any) {
	b.AddTokens(b.opts.Normalizer.Field(v))
}

// AddTokens adds every unordered pair of positions in tokens whose values differ.
func (b *Builder) AddTokens(tokens []string) {
	if b.opts.DedupePairs {
		tokens = keyword.Dedupe(tokens)
	}
	for i := 0; i < len(tokens); i++ {
		for j := i + 1; j < len(tokens); j++ {
			if tokens[i] == tokens[j] {
				continue // no self-loops
			}
			b.graph.increment(tokens[i], tokens[j], 1)
		}
	}
}

// Graph returns the accumulated graph. The Builder must not be used afterwards.
func (b *Builder) Graph() *Graph {
	g := b.graph
	b.graph = nil
	return g
}

// Build constructs the co-occurrence graph for records in a single pass.
func Build[S KeywordSource](records []S, opts Options) *Graph {
	b := NewBuilder(opts)
	for _, r := range records {
		b.AddField(r.KeywordField())
	}
	return b.Graph()
}
