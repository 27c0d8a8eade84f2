// Package websearch answers queries through a hosted generation call with
// web-search grounding enabled, returning text plus source links.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"

	"github.com/medassist/medichat/components"
	"github.com/medassist/medichat/schema"
	"github.com/medassist/medichat/tools"
)

const (
	// NoResultsText is returned when the provider yields zero candidates or
	// zero content parts, so callers always receive a defined string.
	NoResultsText = "No results found for this query."

	defaultName        = "search_tool"
	defaultDescription = "Search the internet for up-to-date and relevant medical information based on the user's query. " +
		"This tool is used when additional or current information is required to supplement knowledge base results. " +
		"Input: user query as a string. " +
		"Output: extracted text result from the search, with source links for reference."
)

// Input is the function-call argument schema.
type Input struct {
	schema.Base
	// Query is the free-text search query.
	Query string `json:"query" jsonschema:"title=query,description=Free-text query to search the web for." validate:"required"`
}

// Generator is the slice of the generative client the tool needs.
// *genai.GenerativeModel satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// NewGenerativeModel configures a model handle with the provider's web search
// grounding capability enabled and a text-only response modality.
func NewGenerativeModel(clt *genai.Client, modelID string) *genai.GenerativeModel {
	model := clt.GenerativeModel(modelID)
	model.Tools = []*genai.Tool{
		{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}},
	}
	model.ResponseMIMEType = "text/plain"
	return model
}

// Tool wraps a search-grounded generation call.
type Tool struct {
	tools.Config
	model Generator
}

var _ tools.Tool = (*Tool)(nil)

func New(model Generator, opts ...tools.Option) *Tool {
	ret := &Tool{
		model: model,
	}
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Name() == "" {
		ret.SetName(defaultName)
	}
	if ret.Description() == "" {
		ret.SetDescription(defaultDescription)
	}
	return ret
}

func (t *Tool) InputSchema() any {
	return tools.SchemaOf(&Input{})
}

// Call implements the tools.Tool dispatch contract.
func (t *Tool) Call(ctx context.Context, arguments string) (string, error) {
	t.OnStart(ctx, arguments)
	var input Input
	if err := json.Unmarshal([]byte(arguments), &input); err != nil {
		err = fmt.Errorf("invalid search arguments: %w", err)
		t.OnError(ctx, arguments, err)
		return "", err
	}
	if err := tools.Validate(&input); err != nil {
		t.OnError(ctx, arguments, err)
		return "", err
	}
	result, err := t.Search(ctx, input.Query)
	if err != nil {
		t.OnError(ctx, arguments, err)
		return "", err
	}
	t.OnEnd(ctx, arguments, result)
	return result, nil
}

// Search submits a non-empty query and returns the first candidate's first
// text part, with source links appended. A provider response with zero
// candidates or parts yields NoResultsText, never an undefined value.
func (t *Tool) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("empty search query")
	}
	resp, err := t.model.GenerateContent(ctx, genai.Text(query))
	if err != nil {
		return "", components.NewServiceError("search", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return NoResultsText, nil
	}
	candidate := resp.Candidates[0]
	text := firstText(candidate)
	if text == "" {
		return NoResultsText, nil
	}
	if sources := sourceLinks(candidate); len(sources) > 0 {
		sb := new(strings.Builder)
		sb.WriteString(text)
		sb.WriteString("\n\nSources:\n")
		for _, link := range sources {
			fmt.Fprintf(sb, "- %s\n", link)
		}
		return sb.String(), nil
	}
	return text, nil
}

func firstText(candidate *genai.Candidate) string {
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return ""
}

func sourceLinks(candidate *genai.Candidate) []string {
	if candidate == nil || candidate.CitationMetadata == nil {
		return nil
	}
	links := make([]string, 0, len(candidate.CitationMetadata.CitationSources))
	seen := make(map[string]struct{}, len(candidate.CitationMetadata.CitationSources))
	for _, src := range candidate.CitationMetadata.CitationSources {
		if src == nil || src.URI == nil || *src.URI == "" {
			continue
		}
		if _, dup := seen[*src.URI]; dup {
			continue
		}
		seen[*src.URI] = struct{}{}
		links = append(links, *src.URI)
	}
	return links
}
