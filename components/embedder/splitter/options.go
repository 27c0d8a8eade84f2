package splitter

// Options configures a chunker.
type Options struct {
	chunkSize    int
	overlap      int
	tokenCounter TokenCounter
}

// Option is a function type for configuring chunker Options.
type Option func(*Options)

// WithChunkSize sets the token budget per chunk.
func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.chunkSize = size
	}
}

// WithOverlap sets how many tokens of the previous chunk are repeated at the
// start of the next one to preserve context across boundaries.
func WithOverlap(overlap int) Option {
	return func(o *Options) {
		o.overlap = overlap
	}
}

func WithTokenCounter(counter TokenCounter) Option {
	return func(o *Options) {
		o.tokenCounter = counter
	}
}
