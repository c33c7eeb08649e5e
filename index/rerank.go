package index

import (
	"regexp"
	"sort"
	"strings"
)

// citationRe detects statutory citations in chunk text: law numbers,
// article references, and code mentions common to Spanish-language
// legislation.
var citationRe = regexp.MustCompile(`(?i)\b(?:ley\s+(?:n[°º]?\s*)?\d{1,3}(?:\.\d{3})*|art(?:[íi]culo|\.)\s*\d+|decreto\s+\d+|c[óo]digo\s+(?:civil|penal|de\s+comercio))`)

// rerankConfig holds the re-ranking boosts.
type rerankConfig struct {
	// citationBoost multiplies the score of chunks containing statutory
	// citations; authoritative passages outrank paraphrases at equal
	// fused score.
	citationBoost float64
	// jurisdictionBoost multiplies the score of chunks whose document
	// matches the query's jurisdiction.
	jurisdictionBoost float64
}

func defaultRerank() rerankConfig {
	return rerankConfig{citationBoost: 1.15, jurisdictionBoost: 1.10}
}

// rerank applies the legal boosts and re-sorts. A result can earn both
// boosts. Ties keep fusion order (stable sort).
func rerank(results []Result, jurisdiction string, cfg rerankConfig) []Result {
	jurisdiction = strings.ToLower(strings.TrimSpace(jurisdiction))

	for i := range results {
		if citationRe.MatchString(results[i].Text) {
			results[i].Score *= cfg.citationBoost
		}
		if jurisdiction != "" && strings.EqualFold(results[i].Jurisdiction, jurisdiction) {
			results[i].Score *= cfg.jurisdictionBoost
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
