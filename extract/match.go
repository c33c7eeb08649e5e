// Package extract implements the multi-method legal concept extractor: four
// independent matching strategies over free text plus the deduplication and
// ranking step that reduces their raw candidates to one ordered result list.
package extract

// Method identifies which matching strategy produced a candidate match.
type Method string

const (
	MethodExact      Method = "exact"
	MethodPattern    Method = "pattern"
	MethodSemantic   Method = "semantic"
	MethodContextual Method = "contextual"
)

// Fixed per-method confidences. The semantic method uses the raw cosine
// similarity instead.
const (
	exactConfidence      = 0.90
	patternConfidence    = 0.85
	contextualConfidence = 0.70
)

// Match is a candidate concept finding. Matches are transient: they are
// produced per extraction call and consumed immediately by the ranker.
// Invariant: 0 <= Start < End <= len(text) and, for the exact and pattern
// methods, text[Start:End] == Text.
type Match struct {
	ConceptID   string  `json:"concept_id"`
	ConceptName string  `json:"concept_name"`
	Text        string  `json:"text_span"`
	Start       int     `json:"start_pos"`
	End         int     `json:"end_pos"`
	Confidence  float64 `json:"confidence"`
	Method      Method  `json:"matching_method"`
	Context     string  `json:"context"`
	// LegalRelevance is the concept's legal weight copied at match time.
	LegalRelevance float64 `json:"legal_relevance"`
}

// score is the ranking value used by the deduplicator: method certainty
// scaled by the concept's static importance.
func (m *Match) score() float64 {
	return m.Confidence * m.LegalRelevance
}
