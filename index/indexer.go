package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/scmlegal/conceptor/llm"
)

// Model pairs an embedding model name with the provider that serves it and
// the store holding its vectors. Every model sees every document; searches
// fuse across all of them.
type Model struct {
	Name     string
	Provider llm.Provider
	Store    Store
}

// SearchOptions tunes one search call.
type SearchOptions struct {
	// TopK bounds the fused result count. Default 10.
	TopK int
	// Jurisdiction enables the jurisdiction re-ranking boost when set.
	Jurisdiction string
	// KeywordWeight and VectorWeight are the RRF fusion weights.
	// Defaults 1.0 each.
	KeywordWeight float64
	VectorWeight  float64
}

// Indexer coordinates chunking, multi-model embedding, and fused search.
type Indexer struct {
	chunker *Chunker
	models  []Model
	rerank  rerankConfig
}

// NewIndexer creates an indexer over the given models. At least one model
// is required.
func NewIndexer(chunker *Chunker, models []Model) (*Indexer, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("index: at least one embedding model is required")
	}
	seen := make(map[string]bool)
	for _, m := range models {
		if m.Name == "" || m.Provider == nil || m.Store == nil {
			return nil, fmt.Errorf("index: model %q missing name, provider, or store", m.Name)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("index: duplicate model %q", m.Name)
		}
		seen[m.Name] = true
	}
	if chunker == nil {
		chunker = NewChunker(ChunkerConfig{})
	}
	return &Indexer{chunker: chunker, models: models, rerank: defaultRerank()}, nil
}

// IndexDocument chunks the document once and embeds + stores the chunks
// under every model. Models run concurrently; the first failure aborts the
// call, so a document is either indexed under all models or reported
// failed.
func (ix *Indexer) IndexDocument(ctx context.Context, doc Document) (int, error) {
	if doc.ID == "" {
		return 0, fmt.Errorf("index: document has no ID")
	}
	chunks := ix.chunker.Chunk(doc.Text)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("index: document %q has no indexable text", doc.ID)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	start := time.Now()
	var wg sync.WaitGroup
	errs := make([]error, len(ix.models))
	for i, m := range ix.models {
		wg.Add(1)
		go func(i int, m Model) {
			defer wg.Done()
			vectors, err := m.Provider.Embed(ctx, texts)
			if err != nil {
				errs[i] = fmt.Errorf("model %s: embedding: %w", m.Name, err)
				return
			}
			if err := m.Store.Add(ctx, doc, chunks, vectors); err != nil {
				errs[i] = fmt.Errorf("model %s: storing: %w", m.Name, err)
			}
		}(i, m)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return 0, err
		}
	}

	slog.Info("index: document indexed",
		"doc", doc.ID, "chunks", len(chunks), "models", len(ix.models),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return len(chunks), nil
}

// Search embeds the query under every model, runs per-model vector search
// plus one keyword search, fuses the ranked lists with RRF, and applies the
// legal re-ranking boosts. A failing model degrades to a missing list
// rather than failing the search; an error is returned only when every
// list failed.
func (ix *Indexer) Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.VectorWeight <= 0 {
		opts.VectorWeight = 1.0
	}
	if opts.KeywordWeight <= 0 {
		opts.KeywordWeight = 1.0
	}
	// Fetch more than TopK per list so fusion has overlap to work with.
	fetchK := opts.TopK * 3

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		lists []rankedList
	)
	collect := func(l rankedList) {
		mu.Lock()
		lists = append(lists, l)
		mu.Unlock()
	}

	for _, m := range ix.models {
		wg.Add(1)
		go func(m Model) {
			defer wg.Done()
			vecs, err := m.Provider.Embed(ctx, []string{query})
			if err != nil || len(vecs) == 0 {
				slog.Warn("index: model skipped in search", "model", m.Name, "error", err)
				return
			}
			results, err := m.Store.Search(ctx, vecs[0], fetchK)
			if err != nil {
				slog.Warn("index: vector search failed", "model", m.Name, "error", err)
				return
			}
			collect(rankedList{results: results, weight: opts.VectorWeight})
		}(m)
	}

	// Keyword search runs once against the first model's store; all stores
	// hold the same chunk text.
	wg.Add(1)
	go func() {
		defer wg.Done()
		results, err := ix.models[0].Store.Keyword(ctx, query, fetchK)
		if err != nil {
			slog.Warn("index: keyword search failed", "error", err)
			return
		}
		collect(rankedList{results: results, weight: opts.KeywordWeight})
	}()
	wg.Wait()

	if len(lists) == 0 {
		return nil, fmt.Errorf("index: all retrieval methods failed")
	}

	fused := fuseRRF(lists, opts.TopK)
	return rerank(fused, opts.Jurisdiction, ix.rerank), nil
}

// Close closes every model's store.
func (ix *Indexer) Close() error {
	var first error
	closed := make(map[Store]bool)
	for _, m := range ix.models {
		if closed[m.Store] {
			continue
		}
		closed[m.Store] = true
		if err := m.Store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
