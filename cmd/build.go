package cmd

import (
	"context"
	"fmt"

	gemini "github.com/google/generative-ai-go/genai"
	milvusClient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/philippgille/chromem-go"
	"google.golang.org/api/option"

	"github.com/medassist/medichat/components/embedder"
	geminiembed "github.com/medassist/medichat/components/embedder/providers/gemini"
	"github.com/medassist/medichat/components/embedder/providers/huggingface"
	"github.com/medassist/medichat/components/vectordb"
	chromemEngine "github.com/medassist/medichat/components/vectordb/engines/chromem"
	milvusEngine "github.com/medassist/medichat/components/vectordb/engines/milvus"
	"github.com/medassist/medichat/config"
)

// newGenAIClient builds the Google generative AI client used for grounded
// search and, optionally, embeddings.
func newGenAIClient(ctx context.Context, cfg *config.Config) (*gemini.Client, error) {
	return gemini.NewClient(ctx, option.WithAPIKey(cfg.Search.APIKey))
}

func newEmbedder(cfg *config.Config, genaiClt *gemini.Client) (embedder.Embedder, error) {
	var opts []embedder.Option
	if cfg.Embedding.Model != "" {
		opts = append(opts, embedder.WithModel(cfg.Embedding.Model))
	}
	switch cfg.Embedding.Provider {
	case "huggingface":
		var clientOpts []huggingface.Option
		if cfg.Embedding.APIKey != "" {
			clientOpts = append(clientOpts, huggingface.WithAPIKey(cfg.Embedding.APIKey))
		}
		return huggingface.New(huggingface.NewClient(clientOpts...), opts...), nil
	case "gemini":
		return geminiembed.New(genaiClt, opts...), nil
	}
	return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
}

// ensureStore makes the knowledge base collection exist and be ready to
// serve queries before the first retrieval runs.
func ensureStore(ctx context.Context, cfg *config.Config, engine vectordb.Engine) error {
	if err := engine.EnsureCollection(ctx, cfg.Store.Collection, cfg.Store.Dimension); err != nil {
		return fmt.Errorf("prepare collection %s: %w", cfg.Store.Collection, err)
	}
	return nil
}

func newEngine(ctx context.Context, cfg *config.Config) (vectordb.Engine, error) {
	opts := []vectordb.Option{
		vectordb.WithTopK(cfg.Store.TopK),
		vectordb.WithDimension(cfg.Store.Dimension),
	}
	switch cfg.Store.Engine {
	case "chromem":
		db, err := chromem.NewPersistentDB(cfg.Store.Address, false)
		if err != nil {
			return nil, fmt.Errorf("open chromem store: %w", err)
		}
		return chromemEngine.New(db, opts...), nil
	case "milvus":
		clt, err := milvusClient.NewClient(ctx, milvusClient.Config{
			Address: cfg.Store.Address,
			APIKey:  cfg.Store.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("connect milvus: %w", err)
		}
		return milvusEngine.New(clt, opts...), nil
	}
	return nil, fmt.Errorf("unknown vector store engine %q", cfg.Store.Engine)
}
