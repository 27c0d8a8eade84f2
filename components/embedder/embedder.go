package embedder

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/medassist/medichat/components"
)

type Provider = string

const (
	ProviderGemini      Provider = "Gemini"
	ProviderHuggingFace Provider = "HuggingFace"
)

// Embedder converts text into fixed-length vectors for similarity search.
type Embedder interface {
	Provider() Provider
	Model() string
	Embed(context.Context, string, *Embedding, *components.LLMUsage) error
	BatchEmbed(ctx context.Context, parts []string, usage *components.LLMUsage) ([]Embedding, error)
}

// Embedding is an information dense vector representation of a piece of text.
// Distance between two embeddings in the vector space correlates with the
// semantic similarity between the two inputs.
type Embedding struct {
	Object    string            `json:"object"`
	Embedding []float64         `json:"embedding"`
	Index     int               `json:"index"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// UUID derives a deterministic identifier from the embedded content and its
// metadata, so re-indexing the same passage overwrites instead of duplicating.
func (e Embedding) UUID() string {
	sb := new(bytes.Buffer)
	sb.WriteString(e.Object)
	keys := make([]string, 0, len(e.Meta))
	for k := range e.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(k + ":" + e.Meta[k])
		sb.WriteByte('\n')
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, sb.Bytes()).String()
}

// DotProduct calculates the dot product with another embedding vector.
// Both vectors must have the same length.
func (e *Embedding) DotProduct(other *Embedding) (float64, error) {
	if len(e.Embedding) != len(other.Embedding) {
		return 0, errors.New("vector length mismatch")
	}
	var dotProduct float64
	for i := range e.Embedding {
		dotProduct += e.Embedding[i] * other.Embedding[i]
	}
	return dotProduct, nil
}
