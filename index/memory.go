package index

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/scmlegal/conceptor/llm"
)

// MemoryStore is a brute-force in-memory store. It serves tests, small
// corpora, and air-gapped runs; SQLiteStore is the durable backend.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []memEntry
}

type memEntry struct {
	doc    Document
	chunk  Chunk
	vector []float32
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add implements Store.
func (m *MemoryStore) Add(ctx context.Context, doc Document, chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("memory store: %d chunks but %d vectors", len(chunks), len(vectors))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.doc.ID != doc.ID {
			kept = append(kept, e)
		}
	}
	m.entries = kept

	for i, c := range chunks {
		m.entries = append(m.entries, memEntry{
			doc:    doc,
			chunk:  c,
			vector: llm.Normalize(vectors[i]),
		})
	}
	return nil
}

// Search implements Store with a brute-force cosine scan.
func (m *MemoryStore) Search(ctx context.Context, query []float32, k int) ([]Result, error) {
	q := llm.Normalize(query)

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]Result, 0, len(m.entries))
	for _, e := range m.entries {
		results = append(results, Result{
			DocID:        e.doc.ID,
			Position:     e.chunk.Position,
			Heading:      e.chunk.Heading,
			Text:         e.chunk.Text,
			Jurisdiction: e.doc.Jurisdiction,
			Score:        llm.Dot(q, e.vector),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Keyword implements Store with case-insensitive term counting: the score
// is the fraction of query terms present in the chunk.
func (m *MemoryStore) Keyword(ctx context.Context, query string, k int) ([]Result, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []Result
	for _, e := range m.entries {
		content := strings.ToLower(e.chunk.Text)
		hits := 0
		for _, t := range terms {
			if strings.Contains(content, t) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		results = append(results, Result{
			DocID:        e.doc.ID,
			Position:     e.chunk.Position,
			Heading:      e.chunk.Heading,
			Text:         e.chunk.Text,
			Jurisdiction: e.doc.Jurisdiction,
			Score:        float64(hits) / float64(len(terms)),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

// Len returns the number of stored chunks.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
