package vectordb

// Options holds engine-level defaults.
type Options struct {
	EngineType EngineType
	// TopK is the default maximum number of results to return
	TopK int
	// Dimension is the vector dimension of stored embeddings
	Dimension int
}

// Option is a function type for configuring engine Options.
type Option func(*Options)

func WithEngine(engine EngineType) Option {
	return func(c *Options) {
		c.EngineType = engine
	}
}

// WithTopK sets the default maximum number of results to return.
func WithTopK(k int) Option {
	return func(c *Options) {
		c.TopK = k
	}
}

// WithDimension sets the dimension of vectors to be stored. This must match
// the dimension of the embedding model, e.g. 384 for all-MiniLM-L6-v2.
func WithDimension(dimension int) Option {
	return func(c *Options) {
		c.Dimension = dimension
	}
}
