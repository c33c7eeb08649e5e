package ontology

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/scmlegal/conceptor/llm"
)

// Embedder is the subset of the provider contract the registry needs for
// embedding pre-computation.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Registry is the in-memory concept store. It is immutable after
// construction; embeddings are filled in once by Precompute and never
// mutated at matching time.
type Registry struct {
	concepts   map[string]*Concept
	ordered    []string // IDs in insertion order, for deterministic iteration
	embeddings map[string][]float32
}

// New builds a registry from concept definitions and validates them.
// Validation failures are configuration errors: the caller must refuse to
// start rather than operate on a partial ontology.
func New(concepts []Concept) (*Registry, error) {
	r := &Registry{
		concepts:   make(map[string]*Concept, len(concepts)),
		embeddings: make(map[string][]float32, len(concepts)),
	}

	for i := range concepts {
		c := concepts[i]
		if strings.TrimSpace(c.ID) == "" {
			return nil, fmt.Errorf("concept %q: empty ID", c.Name)
		}
		if _, dup := r.concepts[c.ID]; dup {
			return nil, fmt.Errorf("concept %q: duplicate ID", c.ID)
		}
		if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
			return nil, fmt.Errorf("concept %q: confidence_threshold %.2f outside [0,1]", c.ID, c.ConfidenceThreshold)
		}
		if c.LegalWeight < 0 {
			return nil, fmt.Errorf("concept %q: negative legal_weight %.2f", c.ID, c.LegalWeight)
		}
		if len(c.Jurisdictions) == 0 {
			return nil, fmt.Errorf("concept %q: no jurisdictions", c.ID)
		}
		r.concepts[c.ID] = &c
		r.ordered = append(r.ordered, c.ID)
	}

	return r, nil
}

// Get returns the concept with the given ID, or false if unknown.
func (r *Registry) Get(id string) (*Concept, bool) {
	c, ok := r.concepts[id]
	return c, ok
}

// All returns every concept in insertion order.
func (r *Registry) All() []*Concept {
	out := make([]*Concept, 0, len(r.ordered))
	for _, id := range r.ordered {
		out = append(out, r.concepts[id])
	}
	return out
}

// ForJurisdiction returns the concepts whose jurisdiction set contains the
// given code, in insertion order. An unknown code yields an empty slice.
func (r *Registry) ForJurisdiction(code string) []*Concept {
	var out []*Concept
	for _, id := range r.ordered {
		if c := r.concepts[id]; c.AppliesTo(code) {
			out = append(out, c)
		}
	}
	return out
}

// Jurisdictions returns the sorted set of all jurisdiction codes known to
// the registry, lowercased.
func (r *Registry) Jurisdictions() []string {
	seen := make(map[string]bool)
	for _, c := range r.concepts {
		for _, j := range c.Jurisdictions {
			seen[strings.ToLower(j)] = true
		}
	}
	out := make([]string, 0, len(seen))
	for j := range seen {
		out = append(out, j)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of concepts.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// Embedding returns the cached semantic embedding for a concept, or nil if
// Precompute has not run or the concept's embedding failed.
func (r *Registry) Embedding(id string) []float32 {
	return r.embeddings[id]
}

// precomputeBatchSize caps how many embedding texts are sent per provider call.
const precomputeBatchSize = 32

// Precompute generates the semantic embedding for every concept from its
// name, definition, keywords, and synonyms. This is the one-time dominant
// initialization cost and must complete before any extraction call; it is
// never inlined into per-request latency. Vectors are normalized to unit L2
// norm so cosine similarity reduces to a dot product.
func (r *Registry) Precompute(ctx context.Context, e Embedder) error {
	start := time.Now()

	ids := r.ordered
	for i := 0; i < len(ids); i += precomputeBatchSize {
		end := i + precomputeBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		texts := make([]string, end-i)
		for j := i; j < end; j++ {
			texts[j-i] = r.concepts[ids[j]].EmbeddingText()
		}

		vectors, err := e.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding concepts %d..%d: %w", i, end-1, err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embedding concepts %d..%d: got %d vectors for %d texts", i, end-1, len(vectors), len(texts))
		}

		for j, vec := range vectors {
			if len(vec) == 0 {
				return fmt.Errorf("embedding concept %q: empty vector", ids[i+j])
			}
			r.embeddings[ids[i+j]] = llm.Normalize(vec)
		}
	}

	slog.Info("ontology: embedding pre-computation complete",
		"concepts", len(ids), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// Precomputed reports whether every concept carries a cached embedding.
func (r *Registry) Precomputed() bool {
	return len(r.embeddings) == len(r.ordered) && len(r.ordered) > 0
}
