// Package conceptor extracts legal concepts from Spanish-language legal
// text using an ontology-driven, multi-method matcher, reports concept
// relationships and thematic coherence, and maintains a companion vector
// index over a document corpus.
package conceptor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scmlegal/conceptor/extract"
	"github.com/scmlegal/conceptor/graph"
	"github.com/scmlegal/conceptor/index"
	"github.com/scmlegal/conceptor/llm"
	"github.com/scmlegal/conceptor/nlp"
	"github.com/scmlegal/conceptor/ontology"
	"github.com/scmlegal/conceptor/pattern"
)

// Engine is the main entry point.
type Engine interface {
	// ExtractConcepts returns the ranked concept matches for text in a
	// jurisdiction. Empty text and unknown jurisdictions yield an empty
	// list; the error channel is reserved for context cancellation.
	ExtractConcepts(ctx context.Context, text, jurisdiction string, opts ...ExtractOption) ([]extract.Match, error)

	// ConceptRelationships reports the ontology relationships among a set
	// of concept IDs.
	ConceptRelationships(ids []string) graph.Relationships

	// AnalyzeCoherence computes thematic coherence and jurisdiction
	// consistency for an extraction result.
	AnalyzeCoherence(matches []extract.Match) graph.Coherence

	// IndexDocument adds a document to the corpus index under every
	// configured model. Returns the chunk count.
	IndexDocument(ctx context.Context, doc index.Document) (int, error)

	// SearchCorpus runs a fused vector + keyword search over the corpus.
	SearchCorpus(ctx context.Context, query string, opts ...SearchOption) ([]index.Result, error)

	// Ontology exposes the concept registry.
	Ontology() *ontology.Registry

	// Close shuts the engine down.
	Close() error
}

// ExtractOption configures one extraction call.
type ExtractOption func(*extractOptions)

type extractOptions struct {
	maxConcepts int
	methods     extract.Methods
}

// WithMaxConcepts caps the result list for this call.
func WithMaxConcepts(n int) ExtractOption {
	return func(o *extractOptions) { o.maxConcepts = n }
}

// WithMethods restricts which matching strategies run for this call.
func WithMethods(m extract.Methods) ExtractOption {
	return func(o *extractOptions) { o.methods = m }
}

// SearchOption configures one corpus search.
type SearchOption func(*index.SearchOptions)

// WithTopK sets the fused result count.
func WithTopK(k int) SearchOption {
	return func(o *index.SearchOptions) { o.TopK = k }
}

// WithJurisdictionBoost enables the jurisdiction re-ranking boost for the
// given code.
func WithJurisdictionBoost(code string) SearchOption {
	return func(o *index.SearchOptions) { o.Jurisdiction = code }
}

// WithSearchWeights overrides the RRF fusion weights.
func WithSearchWeights(vector, keyword float64) SearchOption {
	return func(o *index.SearchOptions) {
		o.VectorWeight = vector
		o.KeywordWeight = keyword
	}
}

type engine struct {
	cfg       Config
	registry  *ontology.Registry
	patterns  *pattern.Set
	extractor *extract.Extractor
	graph     *graph.Graph
	indexer   *index.Indexer
}

// Open constructs an engine: loads and validates the ontology, compiles
// citation patterns, builds providers, pre-computes concept embeddings,
// and builds the concept graph. Configuration failures are fatal here;
// nothing degrades silently at startup.
func Open(ctx context.Context, cfg Config) (Engine, error) {
	start := time.Now()

	concepts, err := loadConcepts(cfg.Ontology)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOntology, err)
	}
	registry, err := ontology.New(concepts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOntology, err)
	}

	groups := pattern.Builtin()
	for id, exprs := range cfg.Patterns {
		groups[id] = append(groups[id], exprs...)
	}
	patterns, err := pattern.Compile(groups, registry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	embedder, err := llm.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding: %v", ErrProviderUnavailable, err)
	}
	if err := registry.Precompute(ctx, embedder); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	recognizer, err := buildRecognizer(cfg)
	if err != nil {
		return nil, err
	}

	e := &engine{
		cfg:       cfg,
		registry:  registry,
		patterns:  patterns,
		extractor: extract.New(registry, patterns, embedder, recognizer, cfg.Extract),
		graph:     graph.Build(registry),
	}

	if len(cfg.Index.Models) > 0 {
		indexer, err := buildIndexer(cfg)
		if err != nil {
			return nil, err
		}
		e.indexer = indexer
	}

	slog.Info("conceptor: engine ready",
		"concepts", registry.Len(),
		"jurisdictions", len(registry.Jurisdictions()),
		"index_models", len(cfg.Index.Models),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return e, nil
}

func loadConcepts(cfg OntologyConfig) ([]ontology.Concept, error) {
	switch cfg.Source {
	case "", "builtin":
		return ontology.Builtin(), nil
	case "yaml":
		return ontology.LoadYAML(cfg.Path)
	case "xlsx":
		return ontology.LoadXLSX(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown ontology source %q", cfg.Source)
	}
}

func buildRecognizer(cfg Config) (nlp.Recognizer, error) {
	switch cfg.Recognizer {
	case "", "heuristic":
		return nlp.NewHeuristicRecognizer(), nil
	case "chat":
		if cfg.Chat.Provider == "" {
			return nil, fmt.Errorf("%w: chat recognizer requires a chat provider", ErrInvalidConfig)
		}
		chat, err := llm.NewProvider(cfg.Chat)
		if err != nil {
			return nil, fmt.Errorf("%w: chat: %v", ErrProviderUnavailable, err)
		}
		return nlp.NewChatRecognizer(chat), nil
	default:
		return nil, fmt.Errorf("%w: unknown recognizer %q", ErrInvalidConfig, cfg.Recognizer)
	}
}

func buildIndexer(cfg Config) (*index.Indexer, error) {
	models := make([]index.Model, 0, len(cfg.Index.Models))
	for _, mc := range cfg.Index.Models {
		provider, err := llm.NewProvider(mc.Provider)
		if err != nil {
			return nil, fmt.Errorf("%w: index model %s: %v", ErrProviderUnavailable, mc.Name, err)
		}

		var store index.Store
		switch mc.Store {
		case "", "memory":
			store = index.NewMemoryStore()
		case "sqlite":
			store, err = index.OpenSQLite(cfg.resolveDBPath(mc), mc.Dim)
			if err != nil {
				return nil, fmt.Errorf("index model %s: %w", mc.Name, err)
			}
		default:
			return nil, fmt.Errorf("%w: unknown store %q for index model %s", ErrInvalidConfig, mc.Store, mc.Name)
		}

		models = append(models, index.Model{Name: mc.Name, Provider: provider, Store: store})
	}
	return index.NewIndexer(index.NewChunker(cfg.Index.Chunking), models)
}

func (e *engine) ExtractConcepts(ctx context.Context, text, jurisdiction string, opts ...ExtractOption) ([]extract.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	options := &extractOptions{}
	for _, o := range opts {
		o(options)
	}

	matches := e.extractor.Extract(ctx, text, jurisdiction, options.methods)

	// The ranked list is position-sorted, so a per-call cap is a plain
	// truncation.
	if options.maxConcepts > 0 && len(matches) > options.maxConcepts {
		matches = matches[:options.maxConcepts]
	}
	return matches, nil
}

func (e *engine) ConceptRelationships(ids []string) graph.Relationships {
	return e.graph.Relationships(ids)
}

func (e *engine) AnalyzeCoherence(matches []extract.Match) graph.Coherence {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ConceptID
	}
	return e.graph.AnalyzeCoherence(ids)
}

func (e *engine) IndexDocument(ctx context.Context, doc index.Document) (int, error) {
	if e.indexer == nil {
		return 0, fmt.Errorf("%w: no index models configured", ErrInvalidConfig)
	}
	return e.indexer.IndexDocument(ctx, doc)
}

func (e *engine) SearchCorpus(ctx context.Context, query string, opts ...SearchOption) ([]index.Result, error) {
	if e.indexer == nil {
		return nil, fmt.Errorf("%w: no index models configured", ErrInvalidConfig)
	}
	var options index.SearchOptions
	for _, o := range opts {
		o(&options)
	}
	return e.indexer.Search(ctx, query, options)
}

func (e *engine) Ontology() *ontology.Registry {
	return e.registry
}

func (e *engine) Close() error {
	if e.indexer != nil {
		return e.indexer.Close()
	}
	return nil
}
