package extract

import (
	"context"
	"log/slog"
	"sync"

	"github.com/scmlegal/conceptor/llm"
	"github.com/scmlegal/conceptor/nlp"
	"github.com/scmlegal/conceptor/ontology"
	"github.com/scmlegal/conceptor/pattern"
)

// Config holds the extractor's tunables with documented defaults.
type Config struct {
	// MaxConceptsPerText bounds the ranked output size against degenerate
	// inputs. Default 50.
	MaxConceptsPerText int `json:"max_concepts_per_text" yaml:"max_concepts_per_text"`

	// MinConceptFrequency is the minimum number of raw candidates a concept
	// needs across all methods for its matches to survive ranking. Default
	// 1 (no filtering).
	MinConceptFrequency int `json:"min_concept_frequency" yaml:"min_concept_frequency"`

	// ConceptSimilarityThreshold is the semantic-method floor used for
	// concepts that do not set their own threshold. Default 0.70.
	ConceptSimilarityThreshold float64 `json:"concept_similarity_threshold" yaml:"concept_similarity_threshold"`

	// MergeDistance is the maximum character distance between start
	// positions for two candidates of the same concept to be treated as
	// the same mention. Default 50.
	MergeDistance int `json:"merge_distance" yaml:"merge_distance"`

	// ContextRadius is the context window size in characters on each side
	// of a match. Default 50.
	ContextRadius int `json:"context_radius" yaml:"context_radius"`

	// MinSentenceChars filters out sentence fragments before semantic
	// matching. Default 20.
	MinSentenceChars int `json:"min_sentence_chars" yaml:"min_sentence_chars"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxConceptsPerText:         50,
		MinConceptFrequency:        1,
		ConceptSimilarityThreshold: 0.70,
		MergeDistance:              50,
		ContextRadius:              50,
		MinSentenceChars:           20,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.MaxConceptsPerText <= 0 {
		c.MaxConceptsPerText = d.MaxConceptsPerText
	}
	if c.MinConceptFrequency <= 0 {
		c.MinConceptFrequency = d.MinConceptFrequency
	}
	if c.ConceptSimilarityThreshold <= 0 {
		c.ConceptSimilarityThreshold = d.ConceptSimilarityThreshold
	}
	if c.MergeDistance <= 0 {
		c.MergeDistance = d.MergeDistance
	}
	if c.ContextRadius <= 0 {
		c.ContextRadius = d.ContextRadius
	}
	if c.MinSentenceChars <= 0 {
		c.MinSentenceChars = d.MinSentenceChars
	}
}

// Extractor runs the four matching methods and the ranker. It holds only
// read-only collaborators and is safe for concurrent extraction calls.
type Extractor struct {
	reg        *ontology.Registry
	patterns   *pattern.Set
	embedder   llm.Provider
	recognizer nlp.Recognizer
	cfg        Config
}

// New creates an extractor. embedder and recognizer may be nil, in which
// case the semantic and contextual methods contribute no matches.
func New(reg *ontology.Registry, set *pattern.Set, embedder llm.Provider, recognizer nlp.Recognizer, cfg Config) *Extractor {
	cfg.applyDefaults()
	return &Extractor{
		reg:        reg,
		patterns:   set,
		embedder:   embedder,
		recognizer: recognizer,
		cfg:        cfg,
	}
}

// Methods selects which matching strategies run; the zero value means all.
type Methods struct {
	Exact      bool
	Pattern    bool
	Semantic   bool
	Contextual bool
}

// AllMethods enables every matching strategy.
func AllMethods() Methods {
	return Methods{Exact: true, Pattern: true, Semantic: true, Contextual: true}
}

func (m Methods) none() bool {
	return !m.Exact && !m.Pattern && !m.Semantic && !m.Contextual
}

// Extract returns the ranked, position-ordered concept matches for text in
// the given jurisdiction. Empty text and unknown jurisdictions yield an
// empty result, never an error. Collaborator failures degrade the affected
// method to zero matches while the others still run: concept extraction is
// best-effort enrichment, not a transactional operation.
func (e *Extractor) Extract(ctx context.Context, text, jurisdiction string, methods Methods) []Match {
	if text == "" {
		return nil
	}
	if methods.none() {
		methods = AllMethods()
	}

	// The methods share no state, so they run in parallel; aggregation
	// order does not matter because the ranker sorts by position.
	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		candidates []Match
	)
	collect := func(ms []Match) {
		mu.Lock()
		candidates = append(candidates, ms...)
		mu.Unlock()
	}

	if methods.Exact {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collect(exactMatches(text, jurisdiction, e.reg, e.cfg.ContextRadius))
		}()
	}
	if methods.Pattern {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collect(patternMatches(text, jurisdiction, e.reg, e.patterns, e.cfg.ContextRadius))
		}()
	}
	if methods.Semantic && e.embedder != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ms, err := semanticMatches(ctx, text, jurisdiction, e.reg, e.embedder, e.cfg.MinSentenceChars, e.cfg.ConceptSimilarityThreshold)
			if err != nil {
				slog.Warn("extract: semantic method degraded", "error", err)
				return
			}
			collect(ms)
		}()
	}
	if methods.Contextual && e.recognizer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ms, err := contextualMatches(ctx, text, jurisdiction, e.reg, e.recognizer)
			if err != nil {
				slog.Warn("extract: contextual method degraded", "error", err)
				return
			}
			collect(ms)
		}()
	}
	wg.Wait()

	if e.cfg.MinConceptFrequency > 1 {
		counts := countByConcept(candidates)
		filtered := candidates[:0]
		for _, m := range candidates {
			if counts[m.ConceptID] >= e.cfg.MinConceptFrequency {
				filtered = append(filtered, m)
			}
		}
		candidates = filtered
	}

	return dedupeAndRank(candidates, e.cfg.MergeDistance, e.cfg.MaxConceptsPerText)
}
