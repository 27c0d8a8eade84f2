// Package chromem adapts the embedded chromem-go database to the vectordb
// Engine interface. It is the local development and test store.
package chromem

import (
	"context"

	"github.com/philippgille/chromem-go"

	"github.com/medassist/medichat/components/vectordb"
)

type Engine struct {
	db *chromem.DB
	vectordb.Options
}

var _ vectordb.Engine = (*Engine)(nil)

func New(db *chromem.DB, opts ...vectordb.Option) *Engine {
	ret := &Engine{
		db: db,
	}
	vectordb.WithEngine(vectordb.Chromem)(&ret.Options)
	for _, opt := range opts {
		opt(&ret.Options)
	}
	return ret
}

func (e *Engine) collection(name string) (*chromem.Collection, error) {
	return e.db.GetOrCreateCollection(name, nil, nil)
}

// EnsureCollection creates the collection if absent. An embedded store is
// ready as soon as the collection exists, so there is nothing to poll.
func (e *Engine) EnsureCollection(ctx context.Context, name string, dim int) error {
	_, err := e.collection(name)
	return err
}

func (e *Engine) Insert(ctx context.Context, collection string, records ...vectordb.Record) error {
	col, err := e.collection(collection)
	if err != nil {
		return err
	}
	for _, record := range records {
		var doc chromem.Document
		recordToDocument(&record, &doc)
		if err := col.AddDocument(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// Search performs vector similarity search on a collection.
func (e *Engine) Search(ctx context.Context, vector []float64, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	var option vectordb.SearchOptions
	for _, opt := range opts {
		opt(&option)
	}
	col, err := e.collection(option.Collection)
	if err != nil {
		return nil, err
	}
	topK := option.TopK
	if topK == 0 {
		topK = e.TopK
	}
	// chromem rejects queries asking for more results than stored documents
	if count := col.Count(); count == 0 {
		return nil, nil
	} else if topK > count {
		topK = count
	}
	results, err := col.QueryEmbedding(ctx, vectordb.Float32s(vector), topK, option.Meta, nil)
	if err != nil {
		return nil, err
	}
	searchResults := make([]vectordb.Record, 0, len(results))
	for _, result := range results {
		var rec vectordb.Record
		resultToRecord(&result, &rec)
		searchResults = append(searchResults, rec)
	}
	return searchResults, nil
}

func resultToRecord(res *chromem.Result, record *vectordb.Record) {
	record.ID = res.ID
	record.Score = float64(res.Similarity)
	record.Embedding.Object = res.Content
	record.Embedding.Meta = res.Metadata
	record.Embedding.Embedding = vectordb.Float64s(res.Embedding)
}

func recordToDocument(record *vectordb.Record, doc *chromem.Document) {
	if record.ID == "" {
		record.ID = record.Embedding.UUID()
	}
	doc.ID = record.ID
	doc.Content = record.Embedding.Object
	doc.Metadata = record.Embedding.Meta
	doc.Embedding = vectordb.Float32s(record.Embedding.Embedding)
}
