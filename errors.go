package conceptor

import "errors"

var (
	// ErrInvalidOntology is returned when ontology definitions fail load-time validation.
	ErrInvalidOntology = errors.New("conceptor: invalid ontology definition")

	// ErrInvalidPattern is returned when a citation pattern fails to compile or
	// references a concept ID unknown to the ontology.
	ErrInvalidPattern = errors.New("conceptor: invalid citation pattern")

	// ErrEmbeddingFailed is returned when embedding pre-computation fails for
	// the whole ontology. Per-method embedding failures during extraction are
	// not errors; the semantic method simply contributes no matches.
	ErrEmbeddingFailed = errors.New("conceptor: embedding pre-computation failed")

	// ErrProviderUnavailable is returned when an LLM provider cannot be built
	// from configuration.
	ErrProviderUnavailable = errors.New("conceptor: provider unavailable")

	// ErrInvalidConfig is returned for invalid configuration values. It also
	// covers calls that need a subsystem the configuration left out, like
	// searching with no index models.
	ErrInvalidConfig = errors.New("conceptor: invalid configuration")
)
