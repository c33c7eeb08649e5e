// Package index is the corpus-scale retrieval companion: documents are
// chunked along statutory boundaries, embedded under one or more models,
// and searched with vector + keyword fusion and legal-aware re-ranking.
package index

import "strconv"

// Document is a corpus document to index. ID must be unique and stable
// (callers typically use the source path); re-adding an ID replaces the
// previous version.
type Document struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Jurisdiction string `json:"jurisdiction"`
	Format       string `json:"format"`
	Text         string `json:"text"`
}

// Chunk is one retrievable fragment of a document. Position is the chunk's
// ordinal within its document and, together with the document ID, its
// identity across stores.
type Chunk struct {
	Position int    `json:"position"`
	Heading  string `json:"heading"`
	Article  string `json:"article,omitempty"`
	Text     string `json:"text"`
	Tokens   int    `json:"tokens"`
}

// Result is a scored chunk returned by a search.
type Result struct {
	DocID        string  `json:"doc_id"`
	Position     int     `json:"position"`
	Heading      string  `json:"heading"`
	Text         string  `json:"text"`
	Jurisdiction string  `json:"jurisdiction"`
	Score        float64 `json:"score"`
}

// key identifies a chunk across stores and models for fusion.
func (r Result) key() string {
	return r.DocID + "\x00" + strconv.Itoa(r.Position)
}
