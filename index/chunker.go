package index

import (
	"math"
	"regexp"
	"strings"
)

// ChunkerConfig controls the chunking behaviour.
type ChunkerConfig struct {
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"` // estimated tokens per chunk
	Overlap   int `json:"overlap" yaml:"overlap"`       // trailing-token overlap between fragments
}

// Chunker splits document text into retrieval chunks. Spanish statutory
// texts split first at article boundaries so a chunk never straddles two
// articles; oversized sections fall back to paragraph and sentence splits
// under a token budget with overlap.
type Chunker struct {
	cfg ChunkerConfig
}

// NewChunker returns a Chunker; zero-value config fields get defaults.
func NewChunker(cfg ChunkerConfig) *Chunker {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 512
	}
	if cfg.Overlap <= 0 {
		cfg.Overlap = 64
	}
	return &Chunker{cfg: cfg}
}

// articlePattern matches statutory article headings at the start of a line:
// "Artículo 14", "ARTICULO 1º", "Art. 1716.-".
var articlePattern = regexp.MustCompile(`(?i)^\s*art(?:[íi]culo|\.)\s*(\d+(?:\s*bis|\s*ter)?)`)

// clausePattern matches hierarchical numbered clauses ("1.1", "2.3.4") at
// the start of a line, common in contracts.
var clausePattern = regexp.MustCompile(`^(\d+(?:\.\d+)+)\s`)

// headingPattern matches structural headings ("TÍTULO I", "Capítulo II",
// "Sección Primera") that start a new block.
var headingPattern = regexp.MustCompile(`(?i)^\s*(t[íi]tulo|cap[íi]tulo|secci[óo]n|libro|anexo)\b`)

type section struct {
	heading string
	article string
	text    string
}

// Chunk splits text into ordered chunks. Empty text yields nil.
func (c *Chunker) Chunk(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []Chunk
	for _, sec := range splitSections(text) {
		for _, frag := range c.splitBudget(sec.text) {
			chunks = append(chunks, Chunk{
				Position: len(chunks),
				Heading:  sec.heading,
				Article:  sec.article,
				Text:     frag,
				Tokens:   estimateTokens(frag),
			})
		}
	}
	return chunks
}

// splitSections cuts text at article, clause, and structural heading
// boundaries. Text before the first boundary becomes a preamble section.
func splitSections(text string) []section {
	lines := strings.Split(text, "\n")

	var sections []section
	var cur section
	var body strings.Builder
	flush := func() {
		cur.text = strings.TrimSpace(body.String())
		if cur.text != "" {
			sections = append(sections, cur)
		}
		body.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case articlePattern.MatchString(trimmed):
			flush()
			m := articlePattern.FindStringSubmatch(trimmed)
			cur = section{heading: trimmed, article: strings.TrimSpace(m[1])}
		case clausePattern.MatchString(trimmed):
			flush()
			m := clausePattern.FindStringSubmatch(trimmed)
			cur = section{heading: trimmed, article: m[1]}
		case headingPattern.MatchString(trimmed):
			flush()
			cur = section{heading: trimmed}
		}
		if body.Len() > 0 {
			body.WriteString("\n")
		}
		body.WriteString(line)
	}
	flush()

	return sections
}

// splitBudget breaks a section body into fragments fitting MaxTokens,
// preferring paragraph boundaries, then sentence boundaries, with trailing
// overlap carried into the next fragment.
func (c *Chunker) splitBudget(text string) []string {
	if estimateTokens(text) <= c.cfg.MaxTokens {
		return []string{strings.TrimSpace(text)}
	}

	var fragments []string
	var current strings.Builder
	currentTokens := 0
	flush := func() string {
		frag := strings.TrimSpace(current.String())
		if frag != "" {
			fragments = append(fragments, frag)
		}
		current.Reset()
		currentTokens = 0
		return frag
	}

	for _, para := range splitParagraphs(text) {
		paraTokens := estimateTokens(para)

		if paraTokens > c.cfg.MaxTokens {
			prev := flush()
			fragments = append(fragments, c.splitSentences(para, trailingWords(prev, c.cfg.Overlap))...)
			continue
		}

		if currentTokens+paraTokens > c.cfg.MaxTokens && current.Len() > 0 {
			prev := flush()
			if overlap := trailingWords(prev, c.cfg.Overlap); overlap != "" {
				current.WriteString(overlap)
				currentTokens = estimateTokens(overlap)
			}
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}
	flush()

	return fragments
}

// splitSentences packs sentences of an oversized paragraph into fragments.
func (c *Chunker) splitSentences(text, initialOverlap string) []string {
	var fragments []string
	var current strings.Builder
	currentTokens := 0

	if initialOverlap != "" {
		current.WriteString(initialOverlap)
		currentTokens = estimateTokens(initialOverlap)
	}

	for _, sent := range naiveSentences(text) {
		sentTokens := estimateTokens(sent)
		if currentTokens+sentTokens > c.cfg.MaxTokens && current.Len() > 0 {
			frag := strings.TrimSpace(current.String())
			fragments = append(fragments, frag)
			current.Reset()
			currentTokens = 0
			if overlap := trailingWords(frag, c.cfg.Overlap); overlap != "" {
				current.WriteString(overlap)
				currentTokens = estimateTokens(overlap)
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}
	if frag := strings.TrimSpace(current.String()); frag != "" {
		fragments = append(fragments, frag)
	}
	return fragments
}

// estimateTokens approximates token count as words * 1.3.
func estimateTokens(text string) int {
	return int(math.Ceil(float64(len(strings.Fields(text))) * 1.3))
}

func splitParagraphs(text string) []string {
	raw := strings.Split(text, "\n\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// naiveSentences splits on terminal punctuation followed by whitespace.
// Chunking only needs rough boundaries; exact offsets are the nlp
// segmenter's job, not this one's.
func naiveSentences(text string) []string {
	var sentences []string
	var cur strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		cur.WriteRune(runes[i])
		if runes[i] == '.' || runes[i] == '?' || runes[i] == '!' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' {
				if s := strings.TrimSpace(cur.String()); s != "" {
					sentences = append(sentences, s)
				}
				cur.Reset()
			}
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// trailingWords returns the last maxTokens-worth of words from text.
func trailingWords(text string, maxTokens int) string {
	words := strings.Fields(text)
	maxWords := int(float64(maxTokens) / 1.3)
	if maxWords <= 0 || len(words) == 0 {
		return ""
	}
	if maxWords > len(words) {
		maxWords = len(words)
	}
	return strings.Join(words[len(words)-maxWords:], " ")
}
