// Package pattern compiles and applies the regular-expression groups that
// capture rigid legal citation formats ("Ley 19.550", "Artículo 14 bis").
// Keyword containment cannot reliably express these due to numeric and
// structural variation, so pattern matching stays a separate method from
// exact matching and each can be tuned and tested independently.
package pattern

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/scmlegal/conceptor/ontology"
)

// Hit is a single raw pattern match against the input text.
type Hit struct {
	ConceptID string
	Text      string
	Start     int
	End       int
}

// Set holds compiled pattern groups keyed by concept ID. A Set is immutable
// after Compile and safe for concurrent use.
type Set struct {
	groups  map[string][]*regexp.Regexp
	ordered []string // concept IDs, sorted, for deterministic scans
}

// Compile builds a Set from raw pattern groups. Every group key must be a
// concept ID known to the registry, and every expression must compile;
// either failure is a load-time configuration error, never a match-time
// one. Patterns are compiled case-insensitively.
func Compile(groups map[string][]string, reg *ontology.Registry) (*Set, error) {
	s := &Set{groups: make(map[string][]*regexp.Regexp, len(groups))}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, ok := reg.Get(id); !ok {
			return nil, fmt.Errorf("pattern group %q: unknown concept ID", id)
		}
		exprs := groups[id]
		if len(exprs) == 0 {
			continue
		}
		compiled := make([]*regexp.Regexp, 0, len(exprs))
		for _, expr := range exprs {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return nil, fmt.Errorf("pattern group %q: compiling %q: %w", id, expr, err)
			}
			compiled = append(compiled, re)
		}
		s.groups[id] = compiled
		s.ordered = append(s.ordered, id)
	}

	return s, nil
}

// FindAll applies every pattern group to text and returns all hits sorted
// by position. Empty text yields no hits.
func (s *Set) FindAll(text string) []Hit {
	if text == "" {
		return nil
	}

	var hits []Hit
	for _, id := range s.ordered {
		for _, re := range s.groups[id] {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				hits = append(hits, Hit{
					ConceptID: id,
					Text:      text[loc[0]:loc[1]],
					Start:     loc[0],
					End:       loc[1],
				})
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Start != hits[j].Start {
			return hits[i].Start < hits[j].Start
		}
		return hits[i].ConceptID < hits[j].ConceptID
	})
	return hits
}

// Concepts returns the concept IDs that carry at least one pattern.
func (s *Set) Concepts() []string {
	out := make([]string, len(s.ordered))
	copy(out, s.ordered)
	return out
}
