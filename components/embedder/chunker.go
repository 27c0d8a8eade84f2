package embedder

import (
	"context"

	"github.com/medassist/medichat/components"
)

// Chunker splits source text into pieces small enough to embed.
type Chunker interface {
	SplitText(string) []string
	TokenCount(txt string) int
}

// EmbedText chunks a text (when a chunker is supplied) and embeds every part
// in one batch, attaching the given metadata to each resulting embedding.
func EmbedText(ctx context.Context, e Embedder, chunker Chunker, text string, meta map[string]string, usage *components.LLMUsage) ([]Embedding, error) {
	var parts []string
	if chunker != nil {
		parts = chunker.SplitText(text)
	} else {
		parts = []string{text}
	}
	embeddings, err := e.BatchEmbed(ctx, parts, usage)
	if err != nil {
		return nil, err
	}
	for idx := range embeddings {
		embeddings[idx].Meta = meta
	}
	return embeddings, nil
}
