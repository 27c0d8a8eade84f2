package huggingface

import (
	"context"

	"github.com/medassist/medichat/components"
	"github.com/medassist/medichat/components/embedder"
)

const (
	// DefaultEmbedderModel produces the 384-dimension vectors the knowledge
	// base collection is created with.
	DefaultEmbedderModel = "sentence-transformers/all-MiniLM-L6-v2"

	// DefaultDimension is the vector size of DefaultEmbedderModel.
	DefaultDimension = 384
)

type Embedder struct {
	*Client

	embedder.Options
}

var _ embedder.Embedder = (*Embedder)(nil)

func New(client *Client, opts ...embedder.Option) *Embedder {
	i := &Embedder{
		Client: client,
	}
	defaults := []embedder.Option{
		embedder.WithProvider(embedder.ProviderHuggingFace),
		embedder.WithModel(DefaultEmbedderModel),
	}
	for _, opt := range append(defaults, opts...) {
		opt(&i.Options)
	}
	return i
}

func (p *Embedder) Embed(ctx context.Context, text string, embedding *embedder.Embedding, usage *components.LLMUsage) error {
	isTrue := true
	req := EmbeddingRequest{
		Inputs: []string{text},
		Options: options{
			WaitForModel: &isTrue,
		},
		Model: p.Model(),
	}
	resp, err := p.CreateEmbeddings(ctx, &req)
	if err != nil {
		return err
	}
	if len(resp) == 0 {
		return components.ErrNoResults
	}
	embedding.Object = text
	embedding.Embedding = resp[0]
	embedding.Index = 0
	return nil
}

func (p *Embedder) BatchEmbed(ctx context.Context, parts []string, usage *components.LLMUsage) ([]embedder.Embedding, error) {
	isTrue := true
	req := EmbeddingRequest{
		Inputs: parts,
		Options: options{
			WaitForModel: &isTrue,
		},
		Model: p.Model(),
	}
	resp, err := p.CreateEmbeddings(ctx, &req)
	if err != nil {
		return nil, err
	}
	ret := make([]embedder.Embedding, 0, len(resp))
	for idx, v := range resp {
		ret = append(ret, embedder.Embedding{
			Object:    parts[idx],
			Embedding: v,
			Index:     idx,
		})
	}
	return ret, nil
}
