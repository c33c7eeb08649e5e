package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/scmlegal/conceptor"
	"github.com/scmlegal/conceptor/extract"
	"github.com/scmlegal/conceptor/index"
)

type handler struct {
	engine conceptor.Engine
}

func newHandler(e conceptor.Engine) *handler {
	return &handler{engine: e}
}

// POST /extract
func (h *handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		Text         string   `json:"text"`
		Jurisdiction string   `json:"jurisdiction"`
		MaxConcepts  int      `json:"max_concepts,omitempty"`
		Methods      []string `json:"methods,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Jurisdiction == "" {
		writeError(w, http.StatusBadRequest, "jurisdiction is required")
		return
	}

	// Bound parameters.
	if req.MaxConcepts < 0 || req.MaxConcepts > 200 {
		req.MaxConcepts = 0 // use default
	}

	var opts []conceptor.ExtractOption
	if req.MaxConcepts > 0 {
		opts = append(opts, conceptor.WithMaxConcepts(req.MaxConcepts))
	}
	if len(req.Methods) > 0 {
		methods, err := parseMethods(req.Methods)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts = append(opts, conceptor.WithMethods(methods))
	}

	matches, err := h.engine.ExtractConcepts(ctx, req.Text, req.Jurisdiction, opts...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "extraction failed")
		slog.Error("extract error", "jurisdiction", req.Jurisdiction, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jurisdiction": req.Jurisdiction,
		"matches":      matches,
		"count":        len(matches),
	})
}

// POST /relationships
func (h *handler) handleRelationships(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConceptIDs []string `json:"concept_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.ConceptIDs) == 0 {
		writeError(w, http.StatusBadRequest, "concept_ids is required")
		return
	}

	writeJSON(w, http.StatusOK, h.engine.ConceptRelationships(req.ConceptIDs))
}

// POST /coherence
// Runs extraction and reports coherence over the result, so callers get
// both in one round trip.
func (h *handler) handleCoherence(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		Text         string `json:"text"`
		Jurisdiction string `json:"jurisdiction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Jurisdiction == "" {
		writeError(w, http.StatusBadRequest, "jurisdiction is required")
		return
	}

	matches, err := h.engine.ExtractConcepts(ctx, req.Text, req.Jurisdiction)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "extraction failed")
		slog.Error("coherence extract error", "jurisdiction", req.Jurisdiction, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches":   matches,
		"coherence": h.engine.AnalyzeCoherence(matches),
	})
}

// POST /index/documents
// Accepts multipart file upload or JSON with inline text.
func (h *handler) handleIndexDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
	defer cancel()

	// Try multipart upload first.
	if err := r.ParseMultipartForm(100 << 20); err == nil { // 100MB max
		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()

			// Sanitise filename to prevent path traversal.
			safeName := filepath.Base(header.Filename)
			jurisdiction := r.FormValue("jurisdiction")

			tmpPath := filepath.Join(os.TempDir(), safeName)
			dst, err := os.Create(tmpPath)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to process file")
				slog.Error("creating temp file", "error", err)
				return
			}
			if _, err := io.Copy(dst, file); err != nil {
				dst.Close()
				writeError(w, http.StatusInternalServerError, "failed to save file")
				slog.Error("saving uploaded file", "error", err)
				return
			}
			dst.Close()
			defer os.Remove(tmpPath)

			doc, err := index.LoadDocument(tmpPath, jurisdiction)
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable document")
				slog.Error("loading uploaded document", "filename", safeName, "error", err)
				return
			}
			doc.ID = safeName

			chunks, err := h.engine.IndexDocument(ctx, doc)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "indexing failed")
				slog.Error("index error", "document_id", doc.ID, "error", err)
				return
			}

			writeJSON(w, http.StatusOK, map[string]interface{}{
				"document_id": doc.ID,
				"chunks":      chunks,
			})
			return
		}
	}

	// JSON body with inline text.
	var doc index.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: expected multipart file or JSON document")
		return
	}
	if doc.ID == "" || doc.Text == "" {
		writeError(w, http.StatusBadRequest, "id and text are required")
		return
	}

	chunks, err := h.engine.IndexDocument(ctx, doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "indexing failed")
		slog.Error("index error", "document_id", doc.ID, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": doc.ID,
		"chunks":      chunks,
	})
}

// POST /index/search
func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		Query         string  `json:"query"`
		TopK          int     `json:"top_k,omitempty"`
		Jurisdiction  string  `json:"jurisdiction,omitempty"`
		VectorWeight  float64 `json:"vector_weight,omitempty"`
		KeywordWeight float64 `json:"keyword_weight,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.TopK < 0 || req.TopK > 100 {
		req.TopK = 0 // use default
	}

	var opts []conceptor.SearchOption
	if req.TopK > 0 {
		opts = append(opts, conceptor.WithTopK(req.TopK))
	}
	if req.Jurisdiction != "" {
		opts = append(opts, conceptor.WithJurisdictionBoost(req.Jurisdiction))
	}
	if req.VectorWeight > 0 || req.KeywordWeight > 0 {
		opts = append(opts, conceptor.WithSearchWeights(req.VectorWeight, req.KeywordWeight))
	}

	results, err := h.engine.SearchCorpus(ctx, req.Query, opts...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed")
		slog.Error("search error", "query", req.Query, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// GET /concepts
func (h *handler) handleListConcepts(w http.ResponseWriter, r *http.Request) {
	reg := h.engine.Ontology()
	jurisdiction := r.URL.Query().Get("jurisdiction")

	concepts := reg.All()
	if jurisdiction != "" {
		concepts = reg.ForJurisdiction(jurisdiction)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"concepts": concepts,
		"count":    len(concepts),
	})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func parseMethods(names []string) (extract.Methods, error) {
	var m extract.Methods
	for _, name := range names {
		switch name {
		case "exact":
			m.Exact = true
		case "pattern":
			m.Pattern = true
		case "semantic":
			m.Semantic = true
		case "contextual":
			m.Contextual = true
		default:
			return m, fmt.Errorf("unknown method %q", name)
		}
	}
	return m, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
