package index

import "context"

// Store persists chunks and their vectors for one embedding model. Vector
// dimensionality is fixed per store; callers must not mix models within a
// store.
type Store interface {
	// Add replaces any previous version of the document with the given
	// chunks and their vectors (parallel slices).
	Add(ctx context.Context, doc Document, chunks []Chunk, vectors [][]float32) error

	// Search returns the k nearest chunks to the query vector, best first.
	Search(ctx context.Context, query []float32, k int) ([]Result, error)

	// Keyword returns up to k chunks matching the text query, best first.
	Keyword(ctx context.Context, query string, k int) ([]Result, error)

	Close() error
}
