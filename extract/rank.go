package extract

import "sort"

// dedupeAndRank reduces raw candidates from all methods to one ranked,
// position-ordered list.
//
// Grouping is distance-based rather than bucket-based: candidates for the
// same concept whose start positions lie within mergeDistance of the
// previous group member are merged, so the same real-world mention found by
// several methods at slightly different offsets survives only once. (The
// original demo bucketed positions by integer division, which never merges
// two matches one character apart across a bucket boundary; the distance
// rule removes that artifact.)
//
// Within a group the single match maximizing confidence × legal relevance
// survives. Survivors are sorted by start position and truncated to
// maxMatches. Truncation is position-based after value-based selection: a
// high-value match late in a long document can be dropped in favor of
// earlier, lower-value ones. That trade-off deliberately favors reading
// order over importance.
func dedupeAndRank(candidates []Match, mergeDistance, maxMatches int) []Match {
	if len(candidates) == 0 {
		return nil
	}

	// Stable grouping order: concept, then position.
	sorted := make([]Match, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ConceptID != sorted[j].ConceptID {
			return sorted[i].ConceptID < sorted[j].ConceptID
		}
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		// Total order: overlapping terms of one concept ("despido",
		// "despido sin causa") tie on everything above; prefer the longer
		// span, then break by method so reruns pick the same survivor.
		if sorted[i].End != sorted[j].End {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].Method < sorted[j].Method
	})

	var survivors []Match
	groupStart := 0
	for i := 1; i <= len(sorted); i++ {
		sameGroup := i < len(sorted) &&
			sorted[i].ConceptID == sorted[i-1].ConceptID &&
			sorted[i].Start-sorted[i-1].Start <= mergeDistance
		if sameGroup {
			continue
		}
		survivors = append(survivors, bestOf(sorted[groupStart:i]))
		groupStart = i
	}

	sort.Slice(survivors, func(i, j int) bool {
		if survivors[i].Start != survivors[j].Start {
			return survivors[i].Start < survivors[j].Start
		}
		return survivors[i].ConceptID < survivors[j].ConceptID
	})

	if maxMatches > 0 && len(survivors) > maxMatches {
		survivors = survivors[:maxMatches]
	}
	return survivors
}

// bestOf returns the group member with the highest confidence × legal
// relevance. Ties keep the earliest (the group is position-sorted).
func bestOf(group []Match) Match {
	best := group[0]
	for _, m := range group[1:] {
		if m.score() > best.score() {
			best = m
		}
	}
	return best
}

// countByConcept tallies raw candidates per concept ID.
func countByConcept(candidates []Match) map[string]int {
	counts := make(map[string]int)
	for _, m := range candidates {
		counts[m.ConceptID]++
	}
	return counts
}
