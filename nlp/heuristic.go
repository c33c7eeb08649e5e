package nlp

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// orgMarkers flag a capitalized span as an organization when any of them
// appears inside it.
var orgMarkers = []string{
	"s.a.", "s.r.l.", "s.a.s.", "sociedad", "tribunal", "corte", "juzgado",
	"cámara", "camara", "ministerio", "banco", "sindicato", "asociación",
	"asociacion", "universidad", "consejo", "dirección", "direccion",
}

// personTitles precede a person's name.
var personTitles = []string{"sr.", "sra.", "dr.", "dra.", "lic.", "ing."}

// Connector words allowed inside a capitalized span ("Corte Suprema de
// Justicia de la Nación").
var spanConnectors = map[string]bool{
	"de": true, "del": true, "la": true, "las": true, "los": true,
	"y": true, "e": true,
}

// HeuristicRecognizer is a rule-based named-entity recognizer: it collects
// maximal spans of capitalized words (allowing Spanish connectors) and
// classifies them by surface markers. No network, fully deterministic. It
// is deliberately conservative; the LLM-backed recognizer trades latency
// for recall.
type HeuristicRecognizer struct{}

// NewHeuristicRecognizer creates the rule-based recognizer.
func NewHeuristicRecognizer() *HeuristicRecognizer {
	return &HeuristicRecognizer{}
}

type token struct {
	text  string
	start int
	end   int
}

// Entities implements Recognizer. The error is always nil; the signature
// matches the contract so LLM-backed recognizers can substitute.
func (h *HeuristicRecognizer) Entities(ctx context.Context, text string) ([]Entity, error) {
	sentences := SegmentSentences(text)
	var entities []Entity

	for _, sent := range sentences {
		toks := tokenizeSpans(text, sent.Start, sent.End)
		i := 0
		for i < len(toks) {
			// Skip the sentence-initial token: capitalization there carries
			// no signal.
			if i == 0 || !capitalized(toks[i].text) {
				i++
				continue
			}

			j := i + 1
			lastCap := i
			for j < len(toks) {
				if capitalized(toks[j].text) {
					lastCap = j
					j++
					continue
				}
				if spanConnectors[strings.ToLower(toks[j].text)] && j+1 < len(toks) && capitalized(toks[j+1].text) {
					j++
					continue
				}
				break
			}

			span := text[toks[i].start:toks[lastCap].end]
			entities = append(entities, Entity{
				Label:    classifySpan(text, toks[i].start, span),
				Text:     span,
				Start:    toks[i].start,
				End:      toks[lastCap].end,
				Sentence: sent.Text,
			})
			i = lastCap + 1
		}
	}

	return entities, nil
}

func classifySpan(text string, start int, span string) string {
	lower := strings.ToLower(span)
	for _, m := range orgMarkers {
		if strings.Contains(lower, m) {
			return LabelOrganization
		}
	}
	// A title marks a person. Capitalized titles ("Dr.") get absorbed into
	// the span itself; lowercase ones ("el dr. Juan") precede it.
	before := strings.ToLower(text[maxInt(0, start-6):start])
	for _, t := range personTitles {
		if strings.HasPrefix(lower, t) || strings.HasSuffix(strings.TrimRight(before, " "), t) {
			return LabelPerson
		}
	}
	return LabelMisc
}

func capitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

// tokenizeSpans splits text[start:end] into word tokens with absolute byte
// offsets.
func tokenizeSpans(text string, start, end int) []token {
	var toks []token
	i := start
	for i < end {
		r, size := utf8.DecodeRuneInString(text[i:end])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			i += size
			continue
		}
		j := i
		for j < end {
			r, size := utf8.DecodeRuneInString(text[j:end])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' {
				break
			}
			j += size
		}
		// Trim a trailing period picked up by the scan ("S.A." keeps its
		// dots, "válido." does not).
		tokText := text[i:j]
		if strings.HasSuffix(tokText, ".") && strings.Count(tokText, ".") == 1 {
			j--
			tokText = text[i:j]
		}
		if tokText != "" {
			toks = append(toks, token{text: tokText, start: i, end: j})
		}
		if j == i {
			j += size
		}
		i = j
	}
	return toks
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
