package conceptor

import (
	"os"
	"path/filepath"

	"github.com/scmlegal/conceptor/extract"
	"github.com/scmlegal/conceptor/index"
	"github.com/scmlegal/conceptor/llm"
)

// Config holds all configuration for the extraction engine.
type Config struct {
	// Ontology selects the concept source.
	Ontology OntologyConfig `json:"ontology" yaml:"ontology"`

	// Embedding is the provider used for concept pre-computation, the
	// semantic matching method, and query encoding. All three must share
	// one embedding space, so there is exactly one embedding provider at
	// the extraction layer.
	Embedding llm.Config `json:"embedding" yaml:"embedding"`

	// Chat is the optional provider for LLM-backed entity recognition.
	// When unset the heuristic recognizer serves the contextual method.
	Chat llm.Config `json:"chat" yaml:"chat"`

	// Recognizer selects the NER backend: "heuristic" (default) or
	// "chat" (requires Chat).
	Recognizer string `json:"recognizer" yaml:"recognizer"`

	// Patterns are extra citation pattern groups merged over the builtin
	// set, keyed by concept ID.
	Patterns map[string][]string `json:"patterns,omitempty" yaml:"patterns,omitempty"`

	// Extract holds the matching and ranking tunables.
	Extract extract.Config `json:"extract" yaml:"extract"`

	// Index configures the corpus retrieval companion. Leave Models empty
	// to run without an index (IndexDocument and SearchCorpus then fail).
	Index IndexConfig `json:"index" yaml:"index"`
}

// OntologyConfig selects where concepts come from.
type OntologyConfig struct {
	// Source is "builtin" (default), "yaml", or "xlsx".
	Source string `json:"source" yaml:"source"`
	// Path is the ontology file for the yaml and xlsx sources.
	Path string `json:"path" yaml:"path"`
}

// IndexConfig configures the vector index companion.
type IndexConfig struct {
	// Models lists the embedding models; each gets its own store.
	Models []IndexModelConfig `json:"models" yaml:"models"`
	// Chunking controls document splitting (shared across models).
	Chunking index.ChunkerConfig `json:"chunking" yaml:"chunking"`
	// StorageDir controls where SQLite stores are created when a model
	// has no explicit DBPath: "home" (default) uses ~/.conceptor/,
	// "local" uses the working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`
}

// IndexModelConfig is one embedding model of the index.
type IndexModelConfig struct {
	Name     string     `json:"name" yaml:"name"`
	Provider llm.Config `json:"provider" yaml:"provider"`
	// Store is "memory" or "sqlite".
	Store string `json:"store" yaml:"store"`
	// DBPath overrides the computed SQLite path.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	// Dim is the model's vector dimension, required for sqlite stores.
	Dim int `json:"dim,omitempty" yaml:"dim,omitempty"`
}

// DefaultConfig returns a Config that runs fully offline: builtin
// ontology, deterministic hash embeddings, heuristic NER, and one
// in-memory index model.
func DefaultConfig() Config {
	return Config{
		Ontology:   OntologyConfig{Source: "builtin"},
		Embedding:  llm.Config{Provider: "hash", Dim: 256},
		Recognizer: "heuristic",
		Extract:    extract.DefaultConfig(),
		Index: IndexConfig{
			Models: []IndexModelConfig{
				{Name: "hash-256", Provider: llm.Config{Provider: "hash", Dim: 256}, Store: "memory", Dim: 256},
			},
			Chunking:   index.ChunkerConfig{MaxTokens: 512, Overlap: 64},
			StorageDir: "home",
		},
	}
}

// resolveDBPath computes the SQLite path for an index model.
func (c *Config) resolveDBPath(m IndexModelConfig) string {
	if m.DBPath != "" {
		return m.DBPath
	}
	name := m.Name
	if name == "" {
		name = "conceptor"
	}
	switch c.Index.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db"
		}
		return filepath.Join(home, ".conceptor", name+".db")
	}
}
