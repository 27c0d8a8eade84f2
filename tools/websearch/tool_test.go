package websearch

import (
	"context"
	"errors"
	"strings"
	"testing"

	genai "github.com/google/generative-ai-go/genai"

	"github.com/medassist/medichat/components"
)

type fakeGenerator struct {
	resp     *genai.GenerateContentResponse
	err      error
	gotParts []genai.Part
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.gotParts = parts
	return f.resp, f.err
}

func textResponse(text string, uris ...string) *genai.GenerateContentResponse {
	candidate := &genai.Candidate{
		Content: &genai.Content{
			Parts: []genai.Part{genai.Text(text)},
		},
	}
	if len(uris) > 0 {
		candidate.CitationMetadata = &genai.CitationMetadata{}
		for i := range uris {
			candidate.CitationMetadata.CitationSources = append(
				candidate.CitationMetadata.CitationSources,
				&genai.CitationSource{URI: &uris[i]},
			)
		}
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate}}
}

func TestSearch(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("Recent studies describe new screening methods.")}
	tool := New(gen)
	got, err := tool.Search(context.Background(), "latest cancer screening guidelines")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Recent studies describe new screening methods." {
		t.Errorf("result mismatch, got:%s", got)
	}
	if len(gen.gotParts) != 1 {
		t.Fatalf("expect 1 part, got:%d", len(gen.gotParts))
	}
	if txt, ok := gen.gotParts[0].(genai.Text); !ok || string(txt) != "latest cancer screening guidelines" {
		t.Errorf("query should be sent as a text part, got:%v", gen.gotParts[0])
	}
}

func TestSearchWithSources(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("answer text",
		"https://example.org/a",
		"https://example.org/a",
		"https://example.org/b",
	)}
	tool := New(gen)
	got, err := tool.Search(context.Background(), "query")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Sources:") {
		t.Error("sources section missing")
	}
	if strings.Count(got, "https://example.org/a") != 1 {
		t.Error("duplicate source links should be deduplicated")
	}
	if !strings.Contains(got, "- https://example.org/b") {
		t.Error("second source missing")
	}
}

func TestSearchNoResults(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{name: "nil response", resp: nil},
		{name: "zero candidates", resp: &genai.GenerateContentResponse{}},
		{
			name: "candidate without text",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := New(&fakeGenerator{resp: tt.resp})
			got, err := tool.Search(context.Background(), "query")
			if err != nil {
				t.Fatal(err)
			}
			if got != NoResultsText {
				t.Errorf("expect %q, got:%q", NoResultsText, got)
			}
		})
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	tool := New(&fakeGenerator{})
	if _, err := tool.Search(context.Background(), " "); err == nil {
		t.Error("expect error for empty query")
	}
}

func TestSearchProviderError(t *testing.T) {
	boom := errors.New("quota exceeded")
	tool := New(&fakeGenerator{err: boom})
	_, err := tool.Search(context.Background(), "query")
	var serr *components.ServiceError
	if !errors.As(err, &serr) {
		t.Fatalf("expect ServiceError, got:%v", err)
	}
	if serr.Service != "search" {
		t.Errorf("expect service search, got:%s", serr.Service)
	}
	if !errors.Is(err, boom) {
		t.Error("cause should be preserved")
	}
}

func TestCall(t *testing.T) {
	tool := New(&fakeGenerator{resp: textResponse("result")})
	got, err := tool.Call(context.Background(), `{"query":"flu season"}`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "result" {
		t.Errorf("result mismatch, got:%s", got)
	}
	if _, err := tool.Call(context.Background(), `{"query":""}`); err == nil {
		t.Error("expect validation error for empty query")
	}
}

func TestDefaults(t *testing.T) {
	tool := New(&fakeGenerator{})
	if tool.Name() != "search_tool" {
		t.Errorf("default name mismatch, got:%s", tool.Name())
	}
	if tool.Description() == "" {
		t.Error("default description should be set")
	}
}
