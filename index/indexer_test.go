package index

import (
	"context"
	"strings"
	"testing"

	"github.com/scmlegal/conceptor/llm"
)

func testIndexer(t *testing.T) (*Indexer, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	ix, err := NewIndexer(NewChunker(ChunkerConfig{}), []Model{
		{Name: "hash-a", Provider: llm.NewHash(128), Store: store},
	})
	if err != nil {
		t.Fatalf("building indexer: %v", err)
	}
	return ix, store
}

func TestIndexDocument(t *testing.T) {
	ix, store := testIndexer(t)

	n, err := ix.IndexDocument(context.Background(), Document{
		ID:           "lsc.txt",
		Title:        "Ley de Sociedades",
		Jurisdiction: "argentina",
		Text:         "Artículo 1. Habrá sociedad si una o más personas se obligan a realizar aportes.\n\nArtículo 2. La sociedad es un sujeto de derecho.",
	})
	if err != nil {
		t.Fatalf("indexing: %v", err)
	}
	if n == 0 {
		t.Fatal("indexed zero chunks")
	}
	if store.Len() != n {
		t.Errorf("store holds %d chunks, indexer reported %d", store.Len(), n)
	}
}

func TestIndexDocumentValidation(t *testing.T) {
	ix, _ := testIndexer(t)
	ctx := context.Background()

	if _, err := ix.IndexDocument(ctx, Document{Text: "sin id"}); err == nil {
		t.Error("document without ID should fail")
	}
	if _, err := ix.IndexDocument(ctx, Document{ID: "empty.txt", Text: "  "}); err == nil {
		t.Error("document without text should fail")
	}
}

func TestIndexDocumentReplaces(t *testing.T) {
	ix, store := testIndexer(t)
	ctx := context.Background()

	doc := Document{ID: "doc.txt", Text: "Artículo 1. Versión original del texto legal."}
	if _, err := ix.IndexDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	first := store.Len()

	doc.Text = "Artículo 1. Versión corregida del texto legal."
	if _, err := ix.IndexDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if store.Len() != first {
		t.Errorf("re-indexing grew the store from %d to %d chunks", first, store.Len())
	}
}

func TestSearchFindsIndexedChunk(t *testing.T) {
	ix, _ := testIndexer(t)
	ctx := context.Background()

	docs := []Document{
		{ID: "civil.txt", Jurisdiction: "argentina",
			Text: "Artículo 957. Contrato es el acto jurídico mediante el cual dos o más partes manifiestan su consentimiento."},
		{ID: "penal.txt", Jurisdiction: "argentina",
			Text: "Artículo 79. Se aplicará reclusión o prisión de ocho a veinticinco años al que matare a otro."},
		{ID: "laboral.txt", Jurisdiction: "argentina",
			Text: "Artículo 14 bis. El trabajo en sus diversas formas gozará de la protección de las leyes."},
	}
	for _, d := range docs {
		if _, err := ix.IndexDocument(ctx, d); err != nil {
			t.Fatalf("indexing %s: %v", d.ID, err)
		}
	}

	results, err := ix.Search(ctx, "contrato consentimiento de las partes", SearchOptions{TopK: 3})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].DocID != "civil.txt" {
		t.Errorf("top result = %s, want civil.txt (got %+v)", results[0].DocID, results)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix, _ := testIndexer(t)
	results, err := ix.Search(context.Background(), "  ", SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty query returned %d results", len(results))
	}
}

func TestNewIndexerValidation(t *testing.T) {
	if _, err := NewIndexer(nil, nil); err == nil {
		t.Error("no models should fail")
	}
	store := NewMemoryStore()
	_, err := NewIndexer(nil, []Model{
		{Name: "m", Provider: llm.NewHash(64), Store: store},
		{Name: "m", Provider: llm.NewHash(64), Store: store},
	})
	if err == nil {
		t.Error("duplicate model names should fail")
	}
}

func TestFuseRRFPrefersAgreement(t *testing.T) {
	shared := Result{DocID: "a", Position: 0, Text: "shared"}
	onlyVec := Result{DocID: "b", Position: 0, Text: "vector only"}
	onlyKw := Result{DocID: "c", Position: 0, Text: "keyword only"}

	fused := fuseRRF([]rankedList{
		{results: []Result{onlyVec, shared}, weight: 1.0},
		{results: []Result{onlyKw, shared}, weight: 1.0},
	}, 0)

	if len(fused) != 3 {
		t.Fatalf("got %d fused results, want 3", len(fused))
	}
	// The chunk both methods found outranks either single-method chunk
	// despite being ranked second in both lists.
	if fused[0].DocID != "a" {
		t.Errorf("top fused result = %s, want a", fused[0].DocID)
	}
}

func TestRerankBoostsCitationsAndJurisdiction(t *testing.T) {
	results := []Result{
		{DocID: "plain", Text: "texto sin citas", Jurisdiction: "chile", Score: 1.0},
		{DocID: "cited", Text: "conforme a la Ley 19.550 de sociedades", Jurisdiction: "chile", Score: 1.0},
		{DocID: "local", Text: "texto sin citas", Jurisdiction: "argentina", Score: 1.0},
	}

	out := rerank(results, "argentina", defaultRerank())
	if out[0].DocID != "cited" {
		t.Errorf("top = %s, want cited (citation boost > jurisdiction boost)", out[0].DocID)
	}
	if out[1].DocID != "local" {
		t.Errorf("second = %s, want local", out[1].DocID)
	}

	for _, r := range out {
		if r.DocID == "plain" && r.Score != 1.0 {
			t.Errorf("unboosted score changed: %v", r.Score)
		}
	}
}

func TestMemoryStoreKeyword(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	doc := Document{ID: "d", Jurisdiction: "chile"}
	chunks := []Chunk{
		{Position: 0, Text: "El recurso de protección ampara garantías constitucionales."},
		{Position: 1, Text: "Disposiciones transitorias."},
	}
	vectors := [][]float32{{1, 0}, {0, 1}}
	if err := store.Add(ctx, doc, chunks, vectors); err != nil {
		t.Fatal(err)
	}

	results, err := store.Keyword(ctx, "recurso de protección", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].Position != 0 {
		t.Errorf("keyword search results = %+v", results)
	}
	if !strings.Contains(results[0].Text, "recurso") {
		t.Errorf("unexpected top text %q", results[0].Text)
	}
	if results[0].Jurisdiction != "chile" {
		t.Errorf("jurisdiction not carried: %+v", results[0])
	}
}
