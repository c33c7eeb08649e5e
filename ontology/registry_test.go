package ontology

import (
	"context"
	"math"
	"testing"

	"github.com/scmlegal/conceptor/llm"
)

func validConcept(id string) Concept {
	return Concept{
		ID:            id,
		Name:          id,
		Definition:    "definición de prueba",
		Keywords:      []string{id},
		Jurisdictions: []string{"argentina"},
		LegalWeight:   0.5,
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		concepts []Concept
	}{
		{"empty id", []Concept{{Name: "x", Jurisdictions: []string{"argentina"}}}},
		{"duplicate id", []Concept{validConcept("a"), validConcept("a")}},
		{"threshold above one", func() []Concept {
			c := validConcept("a")
			c.ConfidenceThreshold = 1.5
			return []Concept{c}
		}()},
		{"negative threshold", func() []Concept {
			c := validConcept("a")
			c.ConfidenceThreshold = -0.1
			return []Concept{c}
		}()},
		{"negative weight", func() []Concept {
			c := validConcept("a")
			c.LegalWeight = -1
			return []Concept{c}
		}()},
		{"no jurisdictions", func() []Concept {
			c := validConcept("a")
			c.Jurisdictions = nil
			return []Concept{c}
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.concepts); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestBuiltinLoads(t *testing.T) {
	reg, err := New(Builtin())
	if err != nil {
		t.Fatalf("builtin ontology must validate: %v", err)
	}
	if reg.Len() == 0 {
		t.Fatal("empty builtin ontology")
	}
	if _, ok := reg.Get("contrato"); !ok {
		t.Error("contrato missing from builtin set")
	}
}

func TestForJurisdiction(t *testing.T) {
	reg, err := New(Builtin())
	if err != nil {
		t.Fatal(err)
	}

	if got := reg.ForJurisdiction("atlantida"); len(got) != 0 {
		t.Errorf("unknown jurisdiction returned %d concepts", len(got))
	}

	chile := reg.ForJurisdiction("chile")
	for _, c := range chile {
		if c.ID == "ley_sociedades" || c.ID == "amparo" {
			t.Errorf("argentina-scoped concept %s returned for chile", c.ID)
		}
	}

	// Case-insensitive.
	if len(reg.ForJurisdiction("CHILE")) != len(chile) {
		t.Error("jurisdiction filter should be case-insensitive")
	}
}

func TestEmbeddingTextDeterministic(t *testing.T) {
	a := validConcept("x")
	b := validConcept("x")
	if a.EmbeddingText() != b.EmbeddingText() {
		t.Error("identical definitions must derive identical embedding text")
	}
	if a.EmbeddingText() == "" {
		t.Error("embedding text must not be empty")
	}
}

func TestPrecompute(t *testing.T) {
	reg, err := New(Builtin())
	if err != nil {
		t.Fatal(err)
	}
	if reg.Precomputed() {
		t.Fatal("fresh registry must not report precomputed")
	}
	if reg.Embedding("contrato") != nil {
		t.Fatal("embedding available before precompute")
	}

	if err := reg.Precompute(context.Background(), llm.NewHash(0)); err != nil {
		t.Fatalf("precompute: %v", err)
	}
	if !reg.Precomputed() {
		t.Error("registry should report precomputed")
	}

	// Vectors are unit-normalized.
	emb := reg.Embedding("contrato")
	if emb == nil {
		t.Fatal("no embedding for contrato")
	}
	var norm float64
	for _, x := range emb {
		norm += float64(x) * float64(x)
	}
	if math.Abs(norm-1.0) > 1e-3 {
		t.Errorf("embedding norm² = %v, want 1", norm)
	}

	// A registry rebuilt from identical definitions carries identical
	// embeddings.
	reg2, err := New(Builtin())
	if err != nil {
		t.Fatal(err)
	}
	if err := reg2.Precompute(context.Background(), llm.NewHash(0)); err != nil {
		t.Fatal(err)
	}
	emb2 := reg2.Embedding("contrato")
	if len(emb) != len(emb2) {
		t.Fatalf("dimensions differ: %d vs %d", len(emb), len(emb2))
	}
	for i := range emb {
		if emb[i] != emb2[i] {
			t.Fatalf("embeddings differ at %d: %v vs %v", i, emb[i], emb2[i])
		}
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
concepts:
  - id: habeas_data
    name: Hábeas data
    category: derecho_constitucional
    definition: Acción para conocer y rectificar datos personales en registros.
    keywords: [hábeas data, datos personales]
    jurisdictions: [argentina]
    confidence_threshold: 0.7
    legal_weight: 0.8
`)
	concepts, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if len(concepts) != 1 {
		t.Fatalf("got %d concepts, want 1", len(concepts))
	}
	c := concepts[0]
	if c.ID != "habeas_data" || c.LegalWeight != 0.8 || len(c.Keywords) != 2 {
		t.Errorf("parsed concept = %+v", c)
	}

	if _, err := New(concepts); err != nil {
		t.Errorf("parsed concepts should validate: %v", err)
	}
}
