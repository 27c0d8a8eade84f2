package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/medassist/medichat/components"
	"github.com/medassist/medichat/components/document"
	"github.com/medassist/medichat/components/embedder"
	"github.com/medassist/medichat/components/embedder/splitter"
	"github.com/medassist/medichat/components/vectordb"
	"github.com/medassist/medichat/config"
)

var indexCmd = &cobra.Command{
	Use:   "index [path|s3://bucket/key ...]",
	Short: "Parse documents and load them into the knowledge base collection",
	Long: `index reads the given local files, directories, or S3 objects, parses them
(plain text, PDF, HTML), splits the text into sentence chunks, embeds each
chunk and stores the vectors in the configured collection.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	genaiClient, err := newGenAIClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create embedding client: %w", err)
	}
	defer genaiClient.Close()

	emb, err := newEmbedder(cfg, genaiClient)
	if err != nil {
		return err
	}
	engine, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	if err := ensureStore(ctx, cfg, engine); err != nil {
		return err
	}

	sources, err := collectSources(ctx, args)
	if err != nil {
		return err
	}

	chunker := splitter.NewSentences()
	var usage components.LLMUsage
	total := 0
	for _, src := range sources {
		n, err := indexSource(ctx, cfg, emb, chunker, engine, src, &usage)
		if err != nil {
			return err
		}
		total += n
	}
	logger.Info("indexing done",
		slog.Int("documents", len(sources)),
		slog.Int("chunks", total),
		slog.String("collection", cfg.Store.Collection))
	return nil
}

func indexSource(ctx context.Context, cfg *config.Config, emb embedder.Embedder, chunker embedder.Chunker, engine vectordb.Engine, src document.Source, usage *components.LLMUsage) (int, error) {
	defer src.Close()
	doc, err := document.Parse(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("parse %v: %w", src.Meta(), err)
	}
	storeCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Store)
	defer cancel()
	embeddings, err := embedder.EmbedText(storeCtx, emb, chunker, doc.Text, doc.Meta, usage)
	if err != nil {
		return 0, fmt.Errorf("embed %v: %w", src.Meta(), err)
	}
	records := make([]vectordb.Record, 0, len(embeddings))
	for _, e := range embeddings {
		records = append(records, vectordb.Record{
			ID:        e.UUID(),
			Embedding: e,
		})
	}
	if err := engine.Insert(storeCtx, cfg.Store.Collection, records...); err != nil {
		return 0, fmt.Errorf("store %v: %w", src.Meta(), err)
	}
	logger.Info("document indexed", slog.Any("meta", doc.Meta), slog.Int("chunks", len(records)))
	return len(records), nil
}

// collectSources resolves the command arguments into document sources. A
// directory expands to every regular file beneath it.
func collectSources(ctx context.Context, args []string) ([]document.Source, error) {
	var (
		sources  []document.Source
		s3Client *s3.Client
	)
	for _, arg := range args {
		if strings.HasPrefix(arg, "s3://") {
			bucket, key, ok := strings.Cut(strings.TrimPrefix(arg, "s3://"), "/")
			if !ok || bucket == "" || key == "" {
				return nil, fmt.Errorf("invalid S3 URI %q, want s3://bucket/key", arg)
			}
			if s3Client == nil {
				awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
				if err != nil {
					return nil, fmt.Errorf("load AWS config: %w", err)
				}
				s3Client = s3.NewFromConfig(awsCfg)
			}
			src, err := document.NewS3(ctx, s3Client, bucket, key)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
			continue
		}
		if err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			src, err := document.NewFile(path)
			if err != nil {
				return err
			}
			sources = append(sources, src)
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return sources, nil
}
