package llm

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// defaultHashDim is the vector dimension for the hash provider when the
// configuration does not set one.
const defaultHashDim = 256

// hashProvider is a deterministic, dependency-free embedding provider built
// on feature hashing of words and character trigrams. It satisfies the
// embedding contract (same text, same vector; fixed dimensionality) without
// any model server, which makes it the default for tests and air-gapped
// runs. The vectors are not semantically meaningful beyond lexical overlap,
// so production deployments configure a real embedding model.
type hashProvider struct {
	dim int
}

// NewHash creates a deterministic hash-based embedding provider. dim <= 0
// selects the default dimension.
func NewHash(dim int) Provider {
	if dim <= 0 {
		dim = defaultHashDim
	}
	return &hashProvider{dim: dim}
}

func (p *hashProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return nil, fmt.Errorf("hash provider: chat not supported")
}

func (p *hashProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = p.embedOne(t)
	}
	return out, nil
}

func (p *hashProvider) embedOne(text string) []float32 {
	vec := make([]float32, p.dim)
	for _, tok := range tokenize(text) {
		addFeature(vec, tok)
		// Character trigrams give partial credit to inflected forms
		// ("obligación" vs "obligaciones").
		runes := []rune(tok)
		for j := 0; j+3 <= len(runes); j++ {
			addFeature(vec, "#"+string(runes[j:j+3]))
		}
	}
	return Normalize(vec)
}

func addFeature(vec []float32, feature string) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(len(vec)))
	// Use one hash bit as the sign so collisions partially cancel instead
	// of always accumulating.
	if sum&(1<<63) != 0 {
		vec[idx] -= 1
	} else {
		vec[idx] += 1
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
