package index

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/scmlegal/conceptor/llm"
)

func init() {
	sqlite_vec.Auto()
}

// SQLiteStore is the durable store: a SQLite database with a vec0 virtual
// table for vectors and an FTS5 table for keyword search.
type SQLiteStore struct {
	db  *sql.DB
	dim int
}

// OpenSQLite opens (or creates) a store at path with the given vector
// dimension. The dimension is baked into the vec0 table, so one store
// serves exactly one embedding model.
func OpenSQLite(path string, dim int) (*SQLiteStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("sqlite store: invalid vector dimension %d", dim)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging store: %w", err)
	}
	if _, err := db.Exec(schemaSQL(dim)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &SQLiteStore{db: db, dim: dim}, nil
}

func schemaSQL(dim int) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    title TEXT,
    jurisdiction TEXT,
    format TEXT,
    content_hash TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chunks (
    id INTEGER PRIMARY KEY,
    doc_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    heading TEXT,
    article TEXT,
    content TEXT NOT NULL,
    token_count INTEGER,
    UNIQUE(doc_id, position)
);

CREATE VIRTUAL TABLE IF NOT EXISTS vec_chunks USING vec0(
    chunk_id INTEGER PRIMARY KEY,
    embedding float[%d]
);

CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
    content,
    heading,
    content='chunks',
    content_rowid='id',
    tokenize='unicode61'
);

CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks BEGIN
    INSERT INTO chunks_fts(rowid, content, heading) VALUES (new.id, new.content, new.heading);
END;
CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks BEGIN
    INSERT INTO chunks_fts(chunks_fts, rowid, content, heading) VALUES ('delete', old.id, old.content, old.heading);
END;

CREATE INDEX IF NOT EXISTS idx_chunks_doc ON chunks(doc_id);
`, dim)
}

// Add implements Store: document upsert plus full chunk/vector replacement
// in one transaction.
func (s *SQLiteStore) Add(ctx context.Context, doc Document, chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("sqlite store: %d chunks but %d vectors", len(chunks), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != s.dim {
			return fmt.Errorf("sqlite store: chunk %d has dimension %d, store expects %d", i, len(v), s.dim)
		}
	}

	hash := sha256.Sum256([]byte(doc.Text))
	contentHash := hex.EncodeToString(hash[:])

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (id, title, jurisdiction, format, content_hash)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				jurisdiction = excluded.jurisdiction,
				format = excluded.format,
				content_hash = excluded.content_hash,
				updated_at = CURRENT_TIMESTAMP
		`, doc.ID, doc.Title, doc.Jurisdiction, doc.Format, contentHash); err != nil {
			return fmt.Errorf("upserting document: %w", err)
		}

		// Clear previous chunks and vectors for this document.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM vec_chunks WHERE chunk_id IN (SELECT id FROM chunks WHERE doc_id = ?)
		`, doc.ID); err != nil {
			return fmt.Errorf("clearing vectors: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", doc.ID); err != nil {
			return fmt.Errorf("clearing chunks: %w", err)
		}

		chunkStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chunks (doc_id, position, heading, article, content, token_count)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer chunkStmt.Close()

		vecStmt, err := tx.PrepareContext(ctx,
			"INSERT INTO vec_chunks (chunk_id, embedding) VALUES (?, ?)")
		if err != nil {
			return err
		}
		defer vecStmt.Close()

		for i, c := range chunks {
			res, err := chunkStmt.ExecContext(ctx,
				doc.ID, c.Position, c.Heading, c.Article, c.Text, c.Tokens)
			if err != nil {
				return fmt.Errorf("inserting chunk %d: %w", c.Position, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			vec := llm.Normalize(vectors[i])
			if _, err := vecStmt.ExecContext(ctx, id, serializeFloat32(vec)); err != nil {
				return fmt.Errorf("inserting vector %d: %w", c.Position, err)
			}
		}
		return nil
	})
}

// Search implements Store with a sqlite-vec KNN query. Vectors are stored
// normalized, so 1 - distance maps back to cosine similarity.
func (s *SQLiteStore) Search(ctx context.Context, query []float32, k int) ([]Result, error) {
	if len(query) != s.dim {
		return nil, fmt.Errorf("sqlite store: query dimension %d, store expects %d", len(query), s.dim)
	}
	if k <= 0 {
		k = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.doc_id, c.position, c.heading, c.content, d.jurisdiction, v.distance
		FROM vec_chunks v
		JOIN chunks c ON c.id = v.chunk_id
		JOIN documents d ON d.id = c.doc_id
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(llm.Normalize(query)), k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var heading, jurisdiction sql.NullString
		var distance float64
		if err := rows.Scan(&r.DocID, &r.Position, &heading, &r.Text, &jurisdiction, &distance); err != nil {
			return nil, err
		}
		r.Heading = heading.String
		r.Jurisdiction = jurisdiction.String
		r.Score = 1.0 - distance
		results = append(results, r)
	}
	return results, rows.Err()
}

// Keyword implements Store with an FTS5 BM25 query.
func (s *SQLiteStore) Keyword(ctx context.Context, query string, k int) ([]Result, error) {
	query = ftsQuery(query)
	if query == "" {
		return nil, nil
	}
	if k <= 0 {
		k = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.doc_id, c.position, c.heading, c.content, d.jurisdiction, f.rank
		FROM chunks_fts f
		JOIN chunks c ON c.id = f.rowid
		JOIN documents d ON d.id = c.doc_id
		WHERE chunks_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?
	`, query, k)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var heading, jurisdiction sql.NullString
		var rank float64
		if err := rows.Scan(&r.DocID, &r.Position, &heading, &r.Text, &jurisdiction, &rank); err != nil {
			return nil, err
		}
		r.Heading = heading.String
		r.Jurisdiction = jurisdiction.String
		// FTS5 rank is negative, lower is better.
		r.Score = -rank
		results = append(results, r)
	}
	return results, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

var ftsTokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// ftsQuery rewrites free text into a safe FTS5 OR query: raw user input
// contains FTS operators ("-", quotes) that would otherwise break the MATCH.
func ftsQuery(query string) string {
	tokens := ftsTokenRe.FindAllString(query, -1)
	if len(tokens) == 0 {
		return ""
	}
	for i, t := range tokens {
		tokens[i] = `"` + t + `"`
	}
	return strings.Join(tokens, " OR ")
}

// serializeFloat32 converts a vector to little-endian bytes for sqlite-vec.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
