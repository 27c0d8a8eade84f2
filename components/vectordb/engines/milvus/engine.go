// Package milvus adapts a hosted Milvus cluster to the vectordb Engine
// interface. It is the production knowledge base store.
package milvus

import (
	"context"
	"encoding/json"
	"time"

	milvusClient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/medassist/medichat/components/vectordb"
)

const readinessPollInterval = time.Second

type Engine struct {
	db milvusClient.Client
	vectordb.Options
}

var _ vectordb.Engine = (*Engine)(nil)

func New(db milvusClient.Client, opts ...vectordb.Option) *Engine {
	ret := &Engine{
		db: db,
	}
	vectordb.WithEngine(vectordb.Milvus)(&ret.Options)
	for _, opt := range opts {
		opt(&ret.Options)
	}
	return ret
}

// EnsureCollection creates the collection with a cosine HNSW index if it does
// not exist, loads it, and polls until it is ready to serve queries.
func (e *Engine) EnsureCollection(ctx context.Context, name string, dim int) error {
	exists, err := e.db.HasCollection(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		if err := e.createCollection(ctx, name, int64(dim)); err != nil {
			return err
		}
	}
	if err := e.db.LoadCollection(ctx, name, true); err != nil {
		return err
	}
	return e.waitReady(ctx, name)
}

func (e *Engine) createCollection(ctx context.Context, name string, dim int64) error {
	idField := entity.NewField().WithName("id").WithDataType(entity.FieldTypeVarChar).WithMaxLength(36).WithIsPrimaryKey(true).WithIsAutoID(false)
	vectorField := entity.NewField().WithName("embedding").WithDataType(entity.FieldTypeFloatVector).WithDim(dim)
	contentField := entity.NewField().WithName("content").WithDataType(entity.FieldTypeVarChar).WithMaxLength(65535)
	metaField := entity.NewField().WithName("meta").WithDataType(entity.FieldTypeJSON).WithIsDynamic(true)
	schema := entity.NewSchema().WithName(name).WithAutoID(false).WithField(idField).WithField(vectorField).WithField(contentField).WithField(metaField)
	if err := e.db.CreateCollection(ctx, schema, 0); err != nil {
		return err
	}
	idxHnsw, err := entity.NewIndexHNSW(entity.COSINE, 8, 200)
	if err != nil {
		return err
	}
	return e.db.CreateIndex(ctx, name, "embedding", idxHnsw, true, milvusClient.WithIndexName("embedding_idx"))
}

func (e *Engine) waitReady(ctx context.Context, name string) error {
	ticker := time.NewTicker(readinessPollInterval)
	defer ticker.Stop()
	for {
		state, err := e.db.GetLoadState(ctx, name, nil)
		if err != nil {
			return err
		}
		if state == entity.LoadStateLoaded {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Engine) Insert(ctx context.Context, collection string, records ...vectordb.Record) error {
	if len(records) == 0 {
		return nil
	}
	dim := len(records[0].Embedding.Embedding)
	if err := e.EnsureCollection(ctx, collection, dim); err != nil {
		return err
	}
	var (
		ids      = make([]string, 0, len(records))
		vectors  = make([][]float32, 0, len(records))
		contents = make([]string, 0, len(records))
		metas    = make([][]byte, 0, len(records))
	)
	for _, record := range records {
		if record.ID == "" {
			record.ID = record.Embedding.UUID()
		}
		ids = append(ids, record.ID)
		vectors = append(vectors, vectordb.Float32s(record.Embedding.Embedding))
		contents = append(contents, record.Embedding.Object)
		bs, _ := json.Marshal(record.Embedding.Meta)
		metas = append(metas, bs)
	}
	columns := []entity.Column{
		entity.NewColumnVarChar("id", ids),
		entity.NewColumnFloatVector("embedding", dim, vectors),
		entity.NewColumnVarChar("content", contents),
		entity.NewColumnJSONBytes("meta", metas),
	}
	_, err := e.db.Insert(ctx, collection, "", columns...)
	return err
}

// Search performs vector similarity search on a collection.
func (e *Engine) Search(ctx context.Context, vector []float64, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	var option vectordb.SearchOptions
	for _, opt := range opts {
		opt(&option)
	}
	topK := option.TopK
	if topK == 0 {
		topK = e.TopK
	}
	query := entity.FloatVector(vectordb.Float32s(vector))
	searchParams, err := entity.NewIndexHNSWSearchParam(topK)
	if err != nil {
		return nil, err
	}
	results, err := e.db.Search(ctx, option.Collection, nil, "", []string{"id", "content", "meta"}, []entity.Vector{query}, "embedding", entity.COSINE, topK, searchParams)
	if err != nil {
		return nil, err
	}
	searchResults := make([]vectordb.Record, 0, topK)
	for _, result := range results {
		searchResults = append(searchResults, resultRecords(&result)...)
	}
	return searchResults, nil
}

func resultRecords(result *milvusClient.SearchResult) []vectordb.Record {
	records := make([]vectordb.Record, result.ResultCount)
	for i := 0; i < result.ResultCount; i++ {
		if i < len(result.Scores) {
			records[i].Score = float64(result.Scores[i])
		}
		if col := result.Fields.GetColumn("id"); col != nil {
			records[i].ID, _ = col.GetAsString(i)
		}
		if col := result.Fields.GetColumn("content"); col != nil {
			records[i].Embedding.Object, _ = col.GetAsString(i)
		}
		if col := result.Fields.GetColumn("meta"); col != nil {
			if v, err := col.Get(i); err == nil {
				if bs, ok := v.([]byte); ok {
					json.Unmarshal(bs, &records[i].Embedding.Meta)
				}
			}
		}
	}
	return records
}
