package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/medassist/medichat/components"
	"github.com/medassist/medichat/components/embedder"
	"github.com/medassist/medichat/components/vectordb"
	"github.com/medassist/medichat/schema"
)

type fakeEmbedder struct {
	embedder.Options
	vector []float64
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, embedding *embedder.Embedding, usage *components.LLMUsage) error {
	if f.err != nil {
		return f.err
	}
	embedding.Object = text
	embedding.Embedding = f.vector
	return nil
}

func (f *fakeEmbedder) BatchEmbed(ctx context.Context, parts []string, usage *components.LLMUsage) ([]embedder.Embedding, error) {
	return nil, f.err
}

type fakeEngine struct {
	records    []vectordb.Record
	err        error
	gotOptions vectordb.SearchOptions
}

func (f *fakeEngine) EnsureCollection(ctx context.Context, name string, dim int) error {
	return nil
}

func (f *fakeEngine) Insert(ctx context.Context, collection string, records ...vectordb.Record) error {
	return nil
}

func (f *fakeEngine) Search(ctx context.Context, vector []float64, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	for _, opt := range opts {
		opt(&f.gotOptions)
	}
	return f.records, f.err
}

type fakeSynthesizer struct {
	gotPrompt string
	html      string
	err       error
}

func (f *fakeSynthesizer) Run(ctx context.Context, input *schema.String, output *Output, llmResp *components.LLMResponse) error {
	f.gotPrompt = input.String()
	if f.err != nil {
		return f.err
	}
	output.HTML = f.html
	return nil
}

func passage(content string, score float64, meta map[string]string) vectordb.Record {
	return vectordb.Record{
		Score: score,
		Embedding: embedder.Embedding{
			Object: content,
			Meta:   meta,
		},
	}
}

func TestRetrieve(t *testing.T) {
	engine := &fakeEngine{records: []vectordb.Record{
		passage("Cancer symptoms include fatigue and weight loss.", 0.91, map[string]string{"source": "oncology.pdf"}),
		passage("Screening guidelines vary by age.", 0.42, nil),
	}}
	synth := &fakeSynthesizer{html: "<b>Common symptoms</b><ul><li>fatigue</li></ul>"}
	tool := New(&fakeEmbedder{vector: []float64{1, 0}}, engine, synth)

	got, err := tool.Retrieve(context.Background(), "What are the symptoms of Cancer?")
	if err != nil {
		t.Fatal(err)
	}
	if got != synth.html {
		t.Errorf("answer mismatch, got:%s", got)
	}
	if engine.gotOptions.Collection != DefaultCollection {
		t.Errorf("expect collection %s, got:%s", DefaultCollection, engine.gotOptions.Collection)
	}
	if engine.gotOptions.TopK != DefaultTopK {
		t.Errorf("expect topK %d, got:%d", DefaultTopK, engine.gotOptions.TopK)
	}
	for _, want := range []string{
		"1. Cancer symptoms include fatigue and weight loss.",
		"source: oncology.pdf",
		"2. Screening guidelines vary by age.",
		"User's question: What are the symptoms of Cancer?",
	} {
		if !strings.Contains(synth.gotPrompt, want) {
			t.Errorf("context prompt missing %q", want)
		}
	}
}

func TestRetrieveEmptyQuestion(t *testing.T) {
	tool := New(&fakeEmbedder{}, &fakeEngine{}, &fakeSynthesizer{})
	if _, err := tool.Retrieve(context.Background(), "  "); err == nil {
		t.Error("expect error for empty question")
	}
}

func TestRetrieveNoMatches(t *testing.T) {
	synth := &fakeSynthesizer{html: "I could not find that in my sources."}
	tool := New(&fakeEmbedder{vector: []float64{1, 0}}, &fakeEngine{}, synth)
	if _, err := tool.Retrieve(context.Background(), "rare condition"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(synth.gotPrompt, "(no stored passages matched this question)") {
		t.Error("empty result set should be stated in the context prompt")
	}
}

func TestRetrieveServiceErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name        string
		tool        *Tool
		wantService string
	}{
		{
			name:        "embedding failure",
			tool:        New(&fakeEmbedder{err: boom}, &fakeEngine{}, &fakeSynthesizer{}),
			wantService: "embedding",
		},
		{
			name:        "vector store failure",
			tool:        New(&fakeEmbedder{vector: []float64{1}}, &fakeEngine{err: boom}, &fakeSynthesizer{}),
			wantService: "vector store",
		},
		{
			name:        "model failure",
			tool:        New(&fakeEmbedder{vector: []float64{1}}, &fakeEngine{}, &fakeSynthesizer{err: boom}),
			wantService: "language model",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tool.Retrieve(context.Background(), "question")
			var serr *components.ServiceError
			if !errors.As(err, &serr) {
				t.Fatalf("expect ServiceError, got:%v", err)
			}
			if serr.Service != tt.wantService {
				t.Errorf("expect service %s, got:%s", tt.wantService, serr.Service)
			}
			if !errors.Is(err, boom) {
				t.Error("cause should be preserved")
			}
		})
	}
}

func TestCall(t *testing.T) {
	engine := &fakeEngine{}
	tool := New(
		&fakeEmbedder{vector: []float64{1}},
		engine,
		&fakeSynthesizer{html: "<b>answer</b>"},
	)
	tool.Configure(WithCollection("custom"), WithTopK(3))

	args, _ := json.Marshal(Input{Question: "what is hypertension?"})
	result, err := tool.Call(context.Background(), string(args))
	if err != nil {
		t.Fatal(err)
	}
	if result != "<b>answer</b>" {
		t.Errorf("result mismatch, got:%s", result)
	}
	if engine.gotOptions.Collection != "custom" || engine.gotOptions.TopK != 3 {
		t.Errorf("configured pipeline options not applied: %+v", engine.gotOptions)
	}
}

func TestCallInvalidArguments(t *testing.T) {
	tool := New(&fakeEmbedder{}, &fakeEngine{}, &fakeSynthesizer{})
	if _, err := tool.Call(context.Background(), "{not json"); err == nil {
		t.Error("expect error for malformed arguments")
	}
	if _, err := tool.Call(context.Background(), `{"question":""}`); err == nil {
		t.Error("expect validation error for empty question")
	}
}

func TestDefaults(t *testing.T) {
	tool := New(&fakeEmbedder{}, &fakeEngine{}, &fakeSynthesizer{})
	if tool.Name() != "retrieval" {
		t.Errorf("default name mismatch, got:%s", tool.Name())
	}
	if tool.Description() == "" {
		t.Error("default description should be set")
	}
	if tool.InputSchema() == nil {
		t.Error("input schema should not be nil")
	}
}
