package graph

import "sort"

// Pair is an unordered concept pair reported by Relationships. From/To
// follow the stored edge direction for hierarchical pairs (parent first)
// and lexicographic order for the rest.
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Relationships groups the edges among a set of concepts into the three
// report buckets. Conflicting is always empty: the ontology model has no
// conflict relation yet, and inventing one here would misreport the data.
// The struct keeps the bucket so callers and wire formats are stable when
// conflicts arrive.
type Relationships struct {
	Hierarchical []Pair `json:"hierarchical"`
	Related      []Pair `json:"related"`
	Conflicting  []Pair `json:"conflicting"`
}

// Relationships reports every edge whose two endpoints both appear in ids.
// The result is independent of the order of ids and free of duplicates even
// when ids repeats a concept. Unknown IDs are ignored.
func (g *Graph) Relationships(ids []string) Relationships {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	rep := Relationships{
		Hierarchical: []Pair{},
		Related:      []Pair{},
		Conflicting:  []Pair{},
	}
	seen := make(map[Pair]bool)
	for _, e := range g.edges {
		if !want[e.From] || !want[e.To] {
			continue
		}
		switch e.Type {
		case EdgeParentChild:
			p := Pair{From: e.From, To: e.To}
			if !seen[p] {
				seen[p] = true
				rep.Hierarchical = append(rep.Hierarchical, p)
			}
		case EdgeRelated:
			p := Pair{From: e.From, To: e.To}
			if p.From > p.To {
				p.From, p.To = p.To, p.From
			}
			if !seen[p] {
				seen[p] = true
				rep.Related = append(rep.Related, p)
			}
		}
	}

	sortPairs(rep.Hierarchical)
	sortPairs(rep.Related)
	return rep
}

func sortPairs(ps []Pair) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].From != ps[j].From {
			return ps[i].From < ps[j].From
		}
		return ps[i].To < ps[j].To
	})
}
