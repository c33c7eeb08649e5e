package extract

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/scmlegal/conceptor/llm"
	"github.com/scmlegal/conceptor/nlp"
	"github.com/scmlegal/conceptor/ontology"
	"github.com/scmlegal/conceptor/pattern"
)

func testRegistry(t *testing.T) *ontology.Registry {
	t.Helper()
	reg, err := ontology.New(ontology.Builtin())
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	if err := reg.Precompute(context.Background(), llm.NewHash(0)); err != nil {
		t.Fatalf("precompute: %v", err)
	}
	return reg
}

func testExtractor(t *testing.T, reg *ontology.Registry) *Extractor {
	t.Helper()
	set, err := pattern.Compile(pattern.Builtin(), reg)
	if err != nil {
		t.Fatalf("compiling patterns: %v", err)
	}
	return New(reg, set, llm.NewHash(0), nlp.NewHeuristicRecognizer(), DefaultConfig())
}

// failingProvider simulates an unreachable embedding endpoint.
type failingProvider struct{}

func (failingProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, errors.New("provider down")
}
func (failingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("provider down")
}

// failingRecognizer simulates a broken NER collaborator.
type failingRecognizer struct{}

func (failingRecognizer) Entities(ctx context.Context, text string) ([]nlp.Entity, error) {
	return nil, errors.New("recognizer down")
}

func conceptIDs(matches []Match) map[string]bool {
	ids := make(map[string]bool)
	for _, m := range matches {
		ids[m.ConceptID] = true
	}
	return ids
}

func TestExtractKnownConcepts(t *testing.T) {
	e := testExtractor(t, testRegistry(t))
	text := "El contrato de compraventa requiere el consentimiento de ambas partes."

	matches := e.Extract(context.Background(), text, "argentina", AllMethods())
	ids := conceptIDs(matches)
	if !ids["contrato_compraventa"] {
		t.Errorf("contrato_compraventa not found: %+v", matches)
	}
	if !ids["consentimiento"] {
		t.Errorf("consentimiento not found: %+v", matches)
	}

	for _, m := range matches {
		if m.Method == MethodExact && m.Confidence != 0.90 {
			t.Errorf("exact match %s has confidence %v, want 0.90", m.ConceptID, m.Confidence)
		}
	}
}

func TestExtractCitation(t *testing.T) {
	e := testExtractor(t, testRegistry(t))
	text := "La demanda se funda en la Ley 19.550 de sociedades comerciales."

	matches := e.Extract(context.Background(), text, "argentina", AllMethods())
	found := false
	for _, m := range matches {
		if m.ConceptID == "ley_sociedades" {
			found = true
			if m.Method == MethodPattern && m.Confidence != 0.85 {
				t.Errorf("pattern confidence = %v, want 0.85", m.Confidence)
			}
		}
	}
	if !found {
		t.Errorf("ley_sociedades not found: %+v", matches)
	}
}

func TestExtractEmptyAndUnknownJurisdiction(t *testing.T) {
	e := testExtractor(t, testRegistry(t))
	ctx := context.Background()

	if got := e.Extract(ctx, "", "argentina", AllMethods()); len(got) != 0 {
		t.Errorf("empty text: got %d matches", len(got))
	}
	if got := e.Extract(ctx, "El contrato es válido.", "atlantida", AllMethods()); len(got) != 0 {
		t.Errorf("unknown jurisdiction: got %d matches, want 0 (not an error)", len(got))
	}
}

func TestExtractJurisdictionFiltering(t *testing.T) {
	e := testExtractor(t, testRegistry(t))
	text := "La Ley 19.550 regula las sociedades."

	// ley_sociedades is argentina-only.
	if ids := conceptIDs(e.Extract(context.Background(), text, "chile", AllMethods())); ids["ley_sociedades"] {
		t.Error("argentina-scoped concept matched for chile")
	}
	if ids := conceptIDs(e.Extract(context.Background(), text, "argentina", AllMethods())); !ids["ley_sociedades"] {
		t.Error("ley_sociedades missing for argentina")
	}
}

func TestExtractPositionsValid(t *testing.T) {
	e := testExtractor(t, testRegistry(t))
	text := "El contrato de compraventa y la prescripción liberatoria. La Ley 19.550 también aplica."

	matches := e.Extract(context.Background(), text, "argentina", AllMethods())
	if len(matches) == 0 {
		t.Fatal("no matches")
	}
	for _, m := range matches {
		if m.Start < 0 || m.End <= m.Start || m.End > len(text) {
			t.Errorf("%s: invalid span [%d,%d) in text of length %d", m.ConceptID, m.Start, m.End, len(text))
		}
		if m.Method == MethodExact || m.Method == MethodPattern {
			if got := text[m.Start:m.End]; !equalFold(got, m.Text) {
				t.Errorf("%s: text[%d:%d] = %q, match text %q", m.ConceptID, m.Start, m.End, got, m.Text)
			}
		}
	}

	// Position-ordered output.
	for i := 1; i < len(matches); i++ {
		if matches[i].Start < matches[i-1].Start {
			t.Errorf("matches out of reading order: %+v", matches)
		}
	}
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func TestExtractDeterministic(t *testing.T) {
	e := testExtractor(t, testRegistry(t))
	text := "El contrato de trabajo y el despido sin causa generan indemnización por despido."

	a := e.Extract(context.Background(), text, "argentina", AllMethods())
	b := e.Extract(context.Background(), text, "argentina", AllMethods())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same input produced different results:\n%+v\n%+v", a, b)
	}
}

func TestExtractDegradesOnEmbedderFailure(t *testing.T) {
	reg := testRegistry(t)
	set, err := pattern.Compile(pattern.Builtin(), reg)
	if err != nil {
		t.Fatal(err)
	}
	e := New(reg, set, failingProvider{}, failingRecognizer{}, DefaultConfig())

	// Both network-dependent methods fail; exact and pattern still work.
	matches := e.Extract(context.Background(), "El contrato se rige por la Ley 19.550.", "argentina", AllMethods())
	ids := conceptIDs(matches)
	if !ids["contrato"] {
		t.Errorf("exact method should survive collaborator failure: %+v", matches)
	}
	if !ids["ley_sociedades"] {
		t.Errorf("pattern method should survive collaborator failure: %+v", matches)
	}
}

func TestExtractNilCollaborators(t *testing.T) {
	reg := testRegistry(t)
	set, err := pattern.Compile(pattern.Builtin(), reg)
	if err != nil {
		t.Fatal(err)
	}
	e := New(reg, set, nil, nil, DefaultConfig())
	matches := e.Extract(context.Background(), "El contrato es válido.", "argentina", AllMethods())
	if !conceptIDs(matches)["contrato"] {
		t.Errorf("exact method should run without collaborators: %+v", matches)
	}
}

func TestDedupeMergesNearbyDuplicates(t *testing.T) {
	mk := func(concept string, start int, conf, weight float64) Match {
		return Match{ConceptID: concept, Start: start, End: start + 5, Confidence: conf, LegalRelevance: weight}
	}

	// Three candidates for the same mention from different methods.
	candidates := []Match{
		mk("contrato", 10, 0.90, 0.7),
		mk("contrato", 12, 0.85, 0.7),
		mk("contrato", 30, 0.70, 0.7),
		mk("obligacion", 11, 0.90, 0.65),
	}
	out := dedupeAndRank(candidates, 50, 0)
	if len(out) != 2 {
		t.Fatalf("got %d survivors, want 2 (one per concept): %+v", len(out), out)
	}
	for _, m := range out {
		if m.ConceptID == "contrato" && m.Confidence != 0.90 {
			t.Errorf("survivor should be the max-score candidate, got %+v", m)
		}
	}
}

func TestDedupeKeepsDistantMentions(t *testing.T) {
	mk := func(start int) Match {
		return Match{ConceptID: "contrato", Start: start, End: start + 8, Confidence: 0.9, LegalRelevance: 0.7}
	}
	out := dedupeAndRank([]Match{mk(0), mk(200)}, 50, 0)
	if len(out) != 2 {
		t.Errorf("distant mentions of the same concept must both survive: %+v", out)
	}
}

func TestDedupeChainMerging(t *testing.T) {
	// Starts 0, 40, 80: each within 50 of the previous, so the chain
	// collapses to one survivor even though 0 and 80 are 80 apart.
	mk := func(start int, conf float64) Match {
		return Match{ConceptID: "contrato", Start: start, End: start + 8, Confidence: conf, LegalRelevance: 0.7}
	}
	out := dedupeAndRank([]Match{mk(0, 0.7), mk(40, 0.9), mk(80, 0.85)}, 50, 0)
	if len(out) != 1 {
		t.Fatalf("chain should merge into one survivor: %+v", out)
	}
	if out[0].Confidence != 0.9 {
		t.Errorf("survivor = %+v, want the 0.9 candidate", out[0])
	}
}

func TestTruncationFavorsReadingOrder(t *testing.T) {
	// A high-value late match loses to earlier low-value ones once the
	// cap applies; truncation is positional, not value-based.
	candidates := []Match{
		{ConceptID: "a", Start: 0, End: 5, Confidence: 0.70, LegalRelevance: 0.5},
		{ConceptID: "b", Start: 100, End: 105, Confidence: 0.70, LegalRelevance: 0.5},
		{ConceptID: "c", Start: 200, End: 205, Confidence: 0.95, LegalRelevance: 1.0},
	}
	out := dedupeAndRank(candidates, 50, 2)
	if len(out) != 2 {
		t.Fatalf("got %d matches, want 2", len(out))
	}
	if out[0].ConceptID != "a" || out[1].ConceptID != "b" {
		t.Errorf("truncation should keep the earliest matches: %+v", out)
	}
}

func TestMinConceptFrequencyFilter(t *testing.T) {
	reg := testRegistry(t)
	set, err := pattern.Compile(pattern.Builtin(), reg)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.MinConceptFrequency = 2
	e := New(reg, set, nil, nil, cfg)

	// "prescripción" appears once; "contrato" appears several times.
	text := "El contrato regula la prescripción. Otro contrato distinto aparece luego en un párrafo que vuelve a mencionar el contrato."
	ids := conceptIDs(e.Extract(context.Background(), text, "argentina", AllMethods()))
	if ids["prescripcion"] {
		t.Error("singleton concept should be filtered at MinConceptFrequency=2")
	}
	if !ids["contrato"] {
		t.Error("repeated concept should survive the frequency filter")
	}
}

func TestContextWindowClipped(t *testing.T) {
	text := "abcdefghij"
	if got := contextWindow(text, 0, 3, 50); got != text {
		t.Errorf("window should clip to text bounds, got %q", got)
	}
	if got := contextWindow(text, 4, 6, 2); got != "cdefgh" {
		t.Errorf("got %q, want cdefgh", got)
	}
}

func TestSemanticMatchesAnchorFirstOccurrence(t *testing.T) {
	ctx := context.Background()
	reg, err := ontology.New([]ontology.Concept{{
		ID:                  "responsabilidad_societaria",
		Name:                "Responsabilidad societaria",
		Category:            "derecho_comercial",
		Definition:          "La sociedad anónima responde por los actos de sus administradores.",
		Keywords:            []string{"sociedad anónima"},
		Jurisdictions:       []string{"argentina"},
		ConfidenceThreshold: 0.05,
		LegalWeight:         0.8,
	}})
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	if err := reg.Precompute(ctx, llm.NewHash(0)); err != nil {
		t.Fatalf("precompute: %v", err)
	}

	// The same sentence twice: similarity fires for both, but position
	// lookup anchors every hit at the first occurrence.
	sentence := "La sociedad anónima responde por sus administradores."
	text := sentence + " " + sentence

	matches, err := semanticMatches(ctx, text, "argentina", reg, llm.NewHash(0), 20, 0.70)
	if err != nil {
		t.Fatalf("semanticMatches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2 (one per sentence): %+v", len(matches), matches)
	}

	vecs, err := llm.NewHash(0).Embed(ctx, []string{sentence})
	if err != nil {
		t.Fatal(err)
	}
	wantSim := llm.Dot(reg.Embedding("responsabilidad_societaria"), llm.Normalize(vecs[0]))

	for _, m := range matches {
		if m.Start != 0 || m.End != len(sentence) {
			t.Errorf("match span [%d,%d), want [0,%d) anchored at the first occurrence", m.Start, m.End, len(sentence))
		}
		if m.Method != MethodSemantic {
			t.Errorf("method = %q, want %q", m.Method, MethodSemantic)
		}
		if m.Confidence != wantSim {
			t.Errorf("confidence = %v, want the raw similarity %v", m.Confidence, wantSim)
		}
		if m.Context != sentence {
			t.Errorf("context = %q, want the sentence itself", m.Context)
		}
	}
}

func TestContextualMatchesEntityOverlap(t *testing.T) {
	reg := testRegistry(t)
	text := "Se aplica la Ley de Sociedades en este caso."

	matches, err := contextualMatches(context.Background(), text, "argentina", reg, nlp.NewHeuristicRecognizer())
	if err != nil {
		t.Fatalf("contextualMatches: %v", err)
	}

	var found *Match
	for i := range matches {
		if matches[i].ConceptID == "ley_sociedades" {
			found = &matches[i]
		}
	}
	if found == nil {
		t.Fatalf("ley_sociedades not matched via entity overlap: %+v", matches)
	}
	if found.Confidence != 0.70 {
		t.Errorf("confidence = %v, want the fixed 0.70", found.Confidence)
	}
	if found.Method != MethodContextual {
		t.Errorf("method = %q, want %q", found.Method, MethodContextual)
	}
	if found.Context != text {
		t.Errorf("context = %q, want the enclosing sentence %q", found.Context, text)
	}
	if got := text[found.Start:found.End]; got != found.Text {
		t.Errorf("offsets do not match surface text: %q vs %q", got, found.Text)
	}
}

func TestExactMatchOffsetsSurviveCaseFolding(t *testing.T) {
	reg := testRegistry(t)

	// U+0130 lowercases to a longer byte sequence; a lowered-copy scan
	// would shift every offset after it by one byte.
	text := "En İstanbul se firmó el contrato definitivo."
	matches := exactMatches(text, "argentina", reg, 50)

	found := false
	for _, m := range matches {
		if m.ConceptID != "contrato" {
			continue
		}
		found = true
		if got := text[m.Start:m.End]; got != "contrato" {
			t.Errorf("span [%d,%d) = %q, want %q", m.Start, m.End, got, "contrato")
		}
	}
	if !found {
		t.Errorf("contrato not matched: %+v", matches)
	}
}

func TestMethodsZeroValueRunsAll(t *testing.T) {
	e := testExtractor(t, testRegistry(t))
	text := "El contrato es válido."

	all := e.Extract(context.Background(), text, "argentina", AllMethods())
	zero := e.Extract(context.Background(), text, "argentina", Methods{})
	if !reflect.DeepEqual(all, zero) {
		t.Errorf("zero-value method selection should mean all methods:\n%+v\n%+v", all, zero)
	}
}

func ExampleExtractor_Extract() {
	reg, _ := ontology.New(ontology.Builtin())
	_ = reg.Precompute(context.Background(), llm.NewHash(0))
	set, _ := pattern.Compile(pattern.Builtin(), reg)
	e := New(reg, set, nil, nil, DefaultConfig())

	matches := e.Extract(context.Background(), "La Ley 19.550 exige el consentimiento.", "argentina", Methods{Exact: true, Pattern: true})
	for _, m := range matches {
		fmt.Printf("%s %s [%d:%d]\n", m.ConceptID, m.Method, m.Start, m.End)
	}
	// Output:
	// ley_sociedades pattern [3:13]
	// consentimiento exact [23:37]
}
