package graph

import (
	"sort"

	"github.com/scmlegal/conceptor/llm"
)

// Coherence is the thematic analysis of one extraction result.
type Coherence struct {
	// Score is the mean pairwise cosine similarity between the embeddings
	// of the distinct concepts found. 1.0 when fewer than two distinct
	// embeddable concepts are present: a single-topic text is perfectly
	// coherent, not incoherent.
	Score float64 `json:"coherence_score"`

	// Consistency is the fraction of pooled jurisdiction votes going to
	// the most common jurisdiction. Every occurrence of a concept casts
	// one vote per jurisdiction it applies to, so repetition weighs in.
	// 1.0 when no concept carries jurisdiction data.
	Consistency float64 `json:"jurisdiction_consistency"`

	// Dominant is the most-voted jurisdiction, empty when there were no
	// votes. Ties break lexicographically.
	Dominant string `json:"dominant_jurisdiction"`
}

// AnalyzeCoherence computes the coherence report for the concept IDs of an
// extraction result. conceptIDs may repeat (one entry per match); unknown
// IDs are ignored.
func (g *Graph) AnalyzeCoherence(conceptIDs []string) Coherence {
	rep := Coherence{Score: 1.0, Consistency: 1.0}

	// Distinct concepts with a precomputed embedding, in first-seen order.
	seen := make(map[string]bool)
	var vectors [][]float32
	votes := make(map[string]int)
	total := 0

	for _, id := range conceptIDs {
		c, ok := g.reg.Get(id)
		if !ok {
			continue
		}
		for _, j := range c.Jurisdictions {
			votes[j]++
			total++
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		if emb := g.reg.Embedding(id); emb != nil {
			vectors = append(vectors, emb)
		}
	}

	if len(vectors) >= 2 {
		sum := 0.0
		pairs := 0
		for i := 0; i < len(vectors); i++ {
			for j := i + 1; j < len(vectors); j++ {
				sum += llm.Dot(vectors[i], vectors[j])
				pairs++
			}
		}
		rep.Score = sum / float64(pairs)
	}

	if total > 0 {
		jurisdictions := make([]string, 0, len(votes))
		for j := range votes {
			jurisdictions = append(jurisdictions, j)
		}
		sort.Strings(jurisdictions)
		best := ""
		bestCount := 0
		for _, j := range jurisdictions {
			if votes[j] > bestCount {
				best, bestCount = j, votes[j]
			}
		}
		rep.Dominant = best
		rep.Consistency = float64(bestCount) / float64(total)
	}

	return rep
}
