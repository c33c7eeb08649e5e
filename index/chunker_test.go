package index

import (
	"strings"
	"testing"
)

func TestChunkEmptyText(t *testing.T) {
	c := NewChunker(ChunkerConfig{})
	if got := c.Chunk(""); got != nil {
		t.Errorf("empty text: got %d chunks, want none", len(got))
	}
	if got := c.Chunk("   \n\t  "); got != nil {
		t.Errorf("whitespace text: got %d chunks, want none", len(got))
	}
}

func TestChunkSplitsAtArticles(t *testing.T) {
	text := `TÍTULO I
Disposiciones generales

Artículo 1. Las sociedades se constituyen por contrato.
El contrato debe otorgarse por instrumento público.

Artículo 2. La sociedad adquiere personalidad jurídica desde su inscripción.

Art. 3.- Los socios responden en forma solidaria.`

	chunks := NewChunker(ChunkerConfig{}).Chunk(text)
	if len(chunks) < 4 {
		t.Fatalf("got %d chunks, want at least 4 (title + 3 articles)", len(chunks))
	}

	var articles []string
	for _, c := range chunks {
		if c.Article != "" {
			articles = append(articles, c.Article)
		}
	}
	want := []string{"1", "2", "3"}
	if len(articles) != len(want) {
		t.Fatalf("articles = %v, want %v", articles, want)
	}
	for i := range want {
		if articles[i] != want[i] {
			t.Errorf("articles[%d] = %q, want %q", i, articles[i], want[i])
		}
	}

	// No chunk straddles two articles.
	for _, c := range chunks {
		if c.Article == "1" && strings.Contains(c.Text, "personalidad jurídica") {
			t.Errorf("article 1 chunk contains article 2 text: %q", c.Text)
		}
	}
}

func TestChunkSplitsAtClauses(t *testing.T) {
	text := `Contrato de locación.

1.1 El locador entrega el inmueble en buen estado.
1.2 El locatario paga el canon mensual por adelantado.`

	chunks := NewChunker(ChunkerConfig{}).Chunk(text)
	var clauses []string
	for _, c := range chunks {
		if c.Article != "" {
			clauses = append(clauses, c.Article)
		}
	}
	if len(clauses) != 2 || clauses[0] != "1.1" || clauses[1] != "1.2" {
		t.Errorf("clauses = %v, want [1.1 1.2]", clauses)
	}
}

func TestChunkPositionsAreSequential(t *testing.T) {
	text := "Artículo 1. Primero.\n\nArtículo 2. Segundo.\n\nArtículo 3. Tercero."
	chunks := NewChunker(ChunkerConfig{}).Chunk(text)
	for i, c := range chunks {
		if c.Position != i {
			t.Errorf("chunk %d has position %d", i, c.Position)
		}
	}
}

func TestChunkRespectsTokenBudget(t *testing.T) {
	// One long paragraph well over the budget.
	var b strings.Builder
	for i := 0; i < 80; i++ {
		b.WriteString("La parte compradora se obliga a pagar el precio convenido en el plazo estipulado. ")
	}

	cfg := ChunkerConfig{MaxTokens: 100, Overlap: 10}
	chunks := NewChunker(cfg).Chunk(b.String())
	if len(chunks) < 2 {
		t.Fatalf("long text produced %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		// Overlap makes the estimate soft; allow some slack.
		if c.Tokens > cfg.MaxTokens+cfg.Overlap*2 {
			t.Errorf("chunk %d has %d tokens, budget %d", i, c.Tokens, cfg.MaxTokens)
		}
	}
}

func TestChunkPreamblePrecedesFirstArticle(t *testing.T) {
	text := "Exposición de motivos del legislador.\n\nArtículo 1. Contenido."
	chunks := NewChunker(ChunkerConfig{}).Chunk(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].Article != "" {
		t.Errorf("first chunk should be the preamble, got article %q", chunks[0].Article)
	}
	if !strings.Contains(chunks[0].Text, "Exposición de motivos") {
		t.Errorf("preamble text missing: %q", chunks[0].Text)
	}
}
