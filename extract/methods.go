package extract

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/scmlegal/conceptor/llm"
	"github.com/scmlegal/conceptor/nlp"
	"github.com/scmlegal/conceptor/ontology"
	"github.com/scmlegal/conceptor/pattern"
)

// The four matching methods are pure functions over (text, jurisdiction,
// ontology): no shared state, so the extractor may run them in any order or
// in parallel without changing the final (position-sorted) result.

// contextWindow returns the text surrounding [start,end) clipped to bounds.
func contextWindow(text string, start, end, radius int) string {
	from := start - radius
	if from < 0 {
		from = 0
	}
	to := end + radius
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}

// exactMatches scans for every occurrence of every keyword and synonym of
// every jurisdiction-eligible concept, case-insensitively. Each occurrence
// emits a match with fixed confidence; results are position-ordered.
func exactMatches(text, jurisdiction string, reg *ontology.Registry, radius int) []Match {
	if text == "" {
		return nil
	}

	var matches []Match
	for _, c := range reg.ForJurisdiction(jurisdiction) {
		for _, term := range c.Terms() {
			if term == "" {
				continue
			}
			for from := 0; ; {
				i, j := indexFold(text[from:], term)
				if i < 0 {
					break
				}
				start := from + i
				end := from + j
				matches = append(matches, Match{
					ConceptID:      c.ID,
					ConceptName:    c.Name,
					Text:           text[start:end],
					Start:          start,
					End:            end,
					Confidence:     exactConfidence,
					Method:         MethodExact,
					Context:        contextWindow(text, start, end, radius),
					LegalRelevance: c.LegalWeight,
				})
				from = end
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		return matches[i].ConceptID < matches[j].ConceptID
	})
	return matches
}

// indexFold is a case-insensitive strings.Index reporting byte offsets in
// the original string. Lowering the haystack first would shift every
// subsequent offset when a character's lowercase form has a different byte
// length (U+0130 "İ" is the usual offender). Returns [-1,-1) on no match.
func indexFold(s, needle string) (start, end int) {
	if needle == "" {
		return -1, -1
	}
	for i := 0; i < len(s); {
		if j, ok := foldMatchAt(s, i, needle); ok {
			return i, j
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, -1
}

// foldMatchAt reports whether needle matches s at byte offset i under
// simple case folding, and where the match ends.
func foldMatchAt(s string, i int, needle string) (end int, ok bool) {
	for _, nr := range needle {
		if i >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[i:])
		if unicode.ToLower(sr) != unicode.ToLower(nr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

// patternMatches applies the compiled citation pattern groups, restricted
// to concepts valid for the jurisdiction.
func patternMatches(text, jurisdiction string, reg *ontology.Registry, set *pattern.Set, radius int) []Match {
	if text == "" || set == nil {
		return nil
	}

	var matches []Match
	for _, hit := range set.FindAll(text) {
		c, ok := reg.Get(hit.ConceptID)
		if !ok || !c.AppliesTo(jurisdiction) {
			continue
		}
		matches = append(matches, Match{
			ConceptID:      c.ID,
			ConceptName:    c.Name,
			Text:           hit.Text,
			Start:          hit.Start,
			End:            hit.End,
			Confidence:     patternConfidence,
			Method:         MethodPattern,
			Context:        contextWindow(text, hit.Start, hit.End, radius),
			LegalRelevance: c.LegalWeight,
		})
	}
	return matches
}

// semanticMatches splits text into sentences, embeds them once, and emits a
// match for every (concept, sentence) pair whose cosine similarity meets
// the concept's threshold. Sentence position lookup uses the first
// occurrence of the sentence text: if the same sentence appears twice in
// the source, both similarity hits point at the first one. That is a known
// limitation kept deliberately; offset-true positions would change the
// dedup behavior downstream.
func semanticMatches(ctx context.Context, text, jurisdiction string, reg *ontology.Registry, embedder llm.Provider, minSentenceChars int, fallbackThreshold float64) ([]Match, error) {
	if text == "" {
		return nil, nil
	}

	concepts := reg.ForJurisdiction(jurisdiction)
	if len(concepts) == 0 {
		return nil, nil
	}

	var sentences []nlp.Sentence
	for _, s := range nlp.SegmentSentences(text) {
		if len(s.Text) >= minSentenceChars {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return nil, nil
	}

	texts := make([]string, len(sentences))
	for i, s := range sentences {
		texts[i] = s.Text
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	for i := range vectors {
		vectors[i] = llm.Normalize(vectors[i])
	}

	var matches []Match
	for _, c := range concepts {
		emb := reg.Embedding(c.ID)
		if emb == nil {
			continue
		}
		threshold := c.ConfidenceThreshold
		if threshold == 0 {
			threshold = fallbackThreshold
		}
		for i, s := range sentences {
			if i >= len(vectors) || len(vectors[i]) == 0 {
				continue
			}
			sim := llm.Dot(emb, vectors[i])
			if sim < threshold {
				continue
			}
			start := strings.Index(text, s.Text)
			if start < 0 {
				continue
			}
			matches = append(matches, Match{
				ConceptID:      c.ID,
				ConceptName:    c.Name,
				Text:           s.Text,
				Start:          start,
				End:            start + len(s.Text),
				Confidence:     sim,
				Method:         MethodSemantic,
				Context:        s.Text,
				LegalRelevance: c.LegalWeight,
			})
		}
	}
	return matches, nil
}

// contextualMatches runs named-entity recognition and tests every entity
// against the keywords of jurisdiction-eligible concepts. Overlap is
// substring containment in either direction; the entity's enclosing
// sentence serves as context.
func contextualMatches(ctx context.Context, text, jurisdiction string, reg *ontology.Registry, recognizer nlp.Recognizer) ([]Match, error) {
	if text == "" {
		return nil, nil
	}

	concepts := reg.ForJurisdiction(jurisdiction)
	if len(concepts) == 0 {
		return nil, nil
	}

	entities, err := recognizer.Entities(ctx, text)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, e := range entities {
		switch e.Label {
		case nlp.LabelOrganization, nlp.LabelPerson, nlp.LabelMisc:
		default:
			continue
		}
		entityLower := strings.ToLower(e.Text)
		for _, c := range concepts {
			if !keywordOverlap(entityLower, c.Keywords) {
				continue
			}
			matches = append(matches, Match{
				ConceptID:      c.ID,
				ConceptName:    c.Name,
				Text:           e.Text,
				Start:          e.Start,
				End:            e.End,
				Confidence:     contextualConfidence,
				Method:         MethodContextual,
				Context:        e.Sentence,
				LegalRelevance: c.LegalWeight,
			})
		}
	}
	return matches, nil
}

// keywordOverlap reports whether the entity text contains, or is contained
// by, any of the concept's keywords.
func keywordOverlap(entityLower string, keywords []string) bool {
	for _, kw := range keywords {
		kwLower := strings.ToLower(kw)
		if kwLower == "" {
			continue
		}
		if strings.Contains(entityLower, kwLower) || strings.Contains(kwLower, entityLower) {
			return true
		}
	}
	return false
}
