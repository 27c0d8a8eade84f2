package vectordb

import (
	"context"
)

type EngineType string

const (
	Chromem EngineType = "chromem"
	Milvus  EngineType = "milvus"
)

// Engine is the narrow interface the chat bot needs from a vector store:
// make sure a collection exists and is ready, insert passages, and answer
// nearest-neighbor queries. Similarity metric is cosine.
type Engine interface {
	// EnsureCollection creates the named collection with the given vector
	// dimension if it does not exist yet, and blocks until it is ready to
	// serve queries.
	EnsureCollection(ctx context.Context, name string, dim int) error
	Insert(ctx context.Context, collection string, records ...Record) error
	Search(ctx context.Context, vector []float64, opts ...SearchOption) ([]Record, error)
}
