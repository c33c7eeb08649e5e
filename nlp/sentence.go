// Package nlp provides the sentence segmentation and named-entity
// recognition collaborators of the extraction core. Any toolkit satisfying
// the Recognizer contract is substitutable; the package ships a rule-based
// recognizer that needs no network and an LLM-backed one.
package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence is a segment of the input text with its byte offsets.
type Sentence struct {
	Text  string
	Start int
	End   int
}

// Abbreviations common in Spanish legal prose that end with a period but do
// not terminate a sentence.
var abbreviations = map[string]bool{
	"art":  true,
	"arts": true,
	"inc":  true,
	"cap":  true,
	"nro":  true,
	"no":   true,
	"núm":  true,
	"pág":  true,
	"sr":   true,
	"sra":  true,
	"dr":   true,
	"dra":  true,
	"cfr":  true,
	"ss":   true,
	"op":   true,
	"cit":  true,
	"s":    true, // S.A., S.R.L.
	"a":    true,
	"r":    true,
	"l":    true,
	"c":    true, // C.S.J.N.
	"v":    true,
	"gr":   true,
}

// SegmentSentences splits text into sentences, preserving byte offsets into
// the original text. A sentence boundary is a '.', '!', '?' or newline that
// is not part of a legal abbreviation or a dotted number ("Ley 19.550").
// Leading and trailing whitespace is trimmed out of each sentence's span.
func SegmentSentences(text string) []Sentence {
	var sentences []Sentence
	start := 0

	flush := func(end int) {
		s := trimSpan(text, start, end)
		if s.End > s.Start {
			sentences = append(sentences, s)
		}
		start = end
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch r {
		case '\n':
			flush(i + size)
		case '!', '?':
			flush(i + size)
		case '.':
			if terminalPeriod(text, i) {
				flush(i + size)
			}
		}
		i += size
	}
	flush(len(text))

	return sentences
}

// terminalPeriod reports whether the period at byte offset i ends a
// sentence rather than an abbreviation or a dotted number.
func terminalPeriod(text string, i int) bool {
	// Dotted numbers: "19.550", "1.2.3".
	if i > 0 && i+1 < len(text) {
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		next, _ := utf8.DecodeRuneInString(text[i+1:])
		if unicode.IsDigit(prev) && unicode.IsDigit(next) {
			return false
		}
	}

	// Word immediately before the period.
	wordStart := i
	for wordStart > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:wordStart])
		if !unicode.IsLetter(r) {
			break
		}
		wordStart -= size
	}
	word := strings.ToLower(text[wordStart:i])
	return !abbreviations[word]
}

func trimSpan(text string, start, end int) Sentence {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return Sentence{Text: text[start:end], Start: start, End: end}
}

// EnclosingSentence returns the sentence containing byte offset pos, or a
// zero Sentence if pos falls between sentences.
func EnclosingSentence(sentences []Sentence, pos int) Sentence {
	for _, s := range sentences {
		if pos >= s.Start && pos < s.End {
			return s
		}
	}
	return Sentence{}
}
