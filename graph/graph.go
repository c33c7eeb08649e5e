// Package graph holds the concept relationship graph derived from the
// ontology and the coherence analysis computed over extraction results.
package graph

import (
	"sort"

	"github.com/scmlegal/conceptor/ontology"
)

// EdgeType classifies a relationship edge.
type EdgeType string

const (
	// EdgeParentChild links a parent concept to one of its children. The
	// direction is always parent → child regardless of which side declared
	// the relationship.
	EdgeParentChild EdgeType = "parent_child"

	// EdgeRelated links two non-hierarchically related concepts. The
	// direction is fixed at construction time by the declaring side and
	// carries no meaning.
	EdgeRelated EdgeType = "related"
)

// Node is a concept projected into the graph.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
}

// Edge is a typed, directed relationship between two concepts.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Type EdgeType `json:"type"`
}

// Graph is the in-memory concept graph. It is built once from a registry
// and read-only afterwards, so concurrent reads need no locking.
type Graph struct {
	reg   *ontology.Registry
	nodes map[string]Node
	edges []Edge

	// adjacency: node ID -> outgoing+incoming neighbour IDs, for traversal.
	neighbours map[string][]string
}

// Build constructs the graph from the registry. Relationship entries that
// reference concept IDs absent from the registry are dropped silently: the
// ontology may legitimately reference concepts trimmed from a deployment.
func Build(reg *ontology.Registry) *Graph {
	g := &Graph{
		reg:        reg,
		nodes:      make(map[string]Node),
		neighbours: make(map[string][]string),
	}

	for _, c := range reg.All() {
		g.nodes[c.ID] = Node{
			ID:       c.ID,
			Name:     c.Name,
			Category: c.Category,
			Weight:   c.LegalWeight,
		}
	}

	// Deduplicates edges declared from both sides (a parent listing its
	// child and the child listing its parent must yield one edge).
	seen := make(map[Edge]bool)
	add := func(e Edge) {
		if _, ok := g.nodes[e.From]; !ok {
			return
		}
		if _, ok := g.nodes[e.To]; !ok {
			return
		}
		if seen[e] {
			return
		}
		seen[e] = true
		g.edges = append(g.edges, e)
		g.neighbours[e.From] = append(g.neighbours[e.From], e.To)
		g.neighbours[e.To] = append(g.neighbours[e.To], e.From)
	}

	for _, c := range reg.All() {
		for _, parent := range c.ParentConcepts {
			add(Edge{From: parent, To: c.ID, Type: EdgeParentChild})
		}
		for _, child := range c.ChildConcepts {
			add(Edge{From: c.ID, To: child, Type: EdgeParentChild})
		}
		for _, rel := range c.RelatedConcepts {
			if seen[Edge{From: rel, To: c.ID, Type: EdgeRelated}] {
				continue
			}
			add(Edge{From: c.ID, To: rel, Type: EdgeRelated})
		}
	}

	return g
}

// Node returns the node for a concept ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edges returns all edges, ordered by (From, To, Type).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Len returns the node count.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Neighborhood walks the graph breadth-first from the seed concepts up to
// maxDepth hops, following edges in both directions, and returns the IDs of
// every reached concept (seeds included) sorted lexicographically. Unknown
// seeds are skipped.
func (g *Graph) Neighborhood(seeds []string, maxDepth int) []string {
	if len(seeds) == 0 || maxDepth < 0 {
		return nil
	}

	visited := make(map[string]bool)
	var queue []string
	for _, id := range seeds {
		if _, ok := g.nodes[id]; ok && !visited[id] {
			visited[id] = true
			queue = append(queue, id)
		}
	}

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var next []string
		for _, id := range queue {
			for _, nid := range g.neighbours[id] {
				if !visited[nid] {
					visited[nid] = true
					next = append(next, nid)
				}
			}
		}
		queue = next
	}

	out := make([]string, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
