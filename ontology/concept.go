// Package ontology holds the authoritative registry of legal concept
// definitions: keywords, synonyms, hierarchy, jurisdictional scope, and
// cached semantic embeddings. The registry is built once at startup and is
// read-only afterwards, so concurrent extraction calls share it without
// locking.
package ontology

import (
	"strings"
)

// Concept is a single node in the legal ontology.
type Concept struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Subcategory string `json:"subcategory" yaml:"subcategory"`
	Definition  string `json:"definition" yaml:"definition"`

	// Keywords and Synonyms drive the exact matching method. Order is
	// irrelevant for matching.
	Keywords []string `json:"keywords" yaml:"keywords"`
	Synonyms []string `json:"synonyms" yaml:"synonyms"`

	// Jurisdictions lists the jurisdiction codes this concept applies to
	// (e.g. "argentina", "chile", "espana").
	Jurisdictions []string `json:"jurisdictions" yaml:"jurisdictions"`

	// ConfidenceThreshold is the minimum cosine similarity for the semantic
	// method to accept a match against this concept. Must be in [0,1].
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`

	// LegalWeight is the concept's relative importance in ranking. It is a
	// static score, not a probability.
	LegalWeight float64 `json:"legal_weight" yaml:"legal_weight"`

	// Relationships reference other concepts by ID. A concept may have zero
	// or multiple parents.
	ParentConcepts  []string `json:"parent_concepts" yaml:"parent_concepts"`
	ChildConcepts   []string `json:"child_concepts" yaml:"child_concepts"`
	RelatedConcepts []string `json:"related_concepts" yaml:"related_concepts"`
}

// EmbeddingText returns the canonical text the concept's semantic embedding
// is computed from: name, definition, keywords, and synonyms. The derivation
// is deterministic so a registry rebuilt from identical definitions carries
// identical embeddings.
func (c *Concept) EmbeddingText() string {
	parts := make([]string, 0, 2+len(c.Keywords)+len(c.Synonyms))
	parts = append(parts, c.Name, c.Definition)
	parts = append(parts, c.Keywords...)
	parts = append(parts, c.Synonyms...)
	return strings.Join(parts, " ")
}

// AppliesTo reports whether the concept is valid for the given jurisdiction
// code. Matching is case-insensitive.
func (c *Concept) AppliesTo(code string) bool {
	for _, j := range c.Jurisdictions {
		if strings.EqualFold(j, code) {
			return true
		}
	}
	return false
}

// Terms returns keywords and synonyms as a single slice, the full set of
// surface forms the exact method scans for.
func (c *Concept) Terms() []string {
	terms := make([]string, 0, len(c.Keywords)+len(c.Synonyms))
	terms = append(terms, c.Keywords...)
	terms = append(terms, c.Synonyms...)
	return terms
}
