package index

import "sort"

// rrfK is the standard reciprocal-rank-fusion constant from the literature.
const rrfK = 60

// rankedList is one ranked result list with its fusion weight.
type rankedList struct {
	results []Result
	weight  float64
}

// fuseRRF combines ranked result lists with Reciprocal Rank Fusion:
// score = sum(weight_i / (rrfK + rank_i)) over the lists containing the
// chunk. The per-list scores are discarded; only ranks matter, which makes
// cosine similarities and BM25 ranks commensurable.
func fuseRRF(lists []rankedList, maxResults int) []Result {
	type fusedEntry struct {
		result Result
		score  float64
	}
	fused := make(map[string]*fusedEntry)

	for _, list := range lists {
		for rank, r := range list.results {
			key := r.key()
			entry, ok := fused[key]
			if !ok {
				entry = &fusedEntry{result: r}
				fused[key] = entry
			}
			entry.score += list.weight / float64(rrfK+rank+1)
		}
	}

	entries := make([]*fusedEntry, 0, len(fused))
	for _, e := range fused {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].result.key() < entries[j].result.key()
	})

	if maxResults > 0 && len(entries) > maxResults {
		entries = entries[:maxResults]
	}

	results := make([]Result, len(entries))
	for i, e := range entries {
		results[i] = e.result
		results[i].Score = e.score
	}
	return results
}
