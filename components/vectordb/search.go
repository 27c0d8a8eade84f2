package vectordb

import "github.com/medassist/medichat/components/embedder"

type SearchOptions struct {
	Collection string
	TopK       int
	Meta       map[string]string
}

type SearchOption func(*SearchOptions)

func SearchWithCollection(name string) SearchOption {
	return func(r *SearchOptions) {
		r.Collection = name
	}
}

func SearchWithTopK(topK int) SearchOption {
	return func(r *SearchOptions) {
		r.TopK = topK
	}
}

func SearchWithMeta(meta map[string]string) SearchOption {
	return func(r *SearchOptions) {
		r.Meta = meta
	}
}

// Record represents a single result from a vector similarity search.
type Record struct {
	// ID is the identifier for the result
	ID string
	// Score is the similarity score for the result
	Score float64
	// Embedding embeddings for doc
	Embedding embedder.Embedding
}
