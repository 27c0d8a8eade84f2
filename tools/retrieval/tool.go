// Package retrieval answers questions over the pre-indexed medical knowledge
// base: embed the question, fetch the nearest stored passages, and ask a
// language model to compose an answer grounded in them.
package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/medassist/medichat/components"
	"github.com/medassist/medichat/components/embedder"
	"github.com/medassist/medichat/components/vectordb"
	"github.com/medassist/medichat/schema"
	"github.com/medassist/medichat/tools"
)

const (
	// DefaultCollection is the knowledge base collection identifier.
	DefaultCollection = "medical-chatbot"
	// DefaultTopK is the number of nearest passages fetched per question.
	DefaultTopK = 5

	defaultName        = "retrieval"
	defaultDescription = "Retrieve relevant medical information for the given question from the vector database. " +
		"This tool searches pre-stored medical knowledge and returns the most contextually relevant answer. " +
		"Input: medical question as a string. " +
		"Output: retrieved answer from the vector store to be used in forming the final medical response."
)

// Input is the function-call argument schema.
type Input struct {
	schema.Base
	// Question is the medical question to answer from stored knowledge.
	Question string `json:"question" jsonschema:"title=question,description=Medical question to answer from the knowledge base." validate:"required"`
}

// Output is the synthesized, house-style answer.
type Output struct {
	schema.Base
	// HTML is the answer formatted with HTML-safe markup.
	HTML string `json:"html_answer" jsonschema:"title=html_answer,description=The helpful formatted answer as HTML." validate:"required"`
}

func (o Output) String() string {
	return o.HTML
}

// Synthesizer composes the final grounded answer from the context prompt.
// *agents.Agent[schema.String, Output] satisfies it.
type Synthesizer interface {
	Run(ctx context.Context, input *schema.String, output *Output, llmResp *components.LLMResponse) error
}

// Tool wraps the retrieval-augmented answering pipeline. It is read-only
// against the vector store.
type Tool struct {
	tools.Config
	embedder    embedder.Embedder
	engine      vectordb.Engine
	synthesizer Synthesizer
	collection  string
	topK        int
}

var _ tools.Tool = (*Tool)(nil)

type PipelineOption func(*Tool)

func WithCollection(name string) PipelineOption {
	return func(t *Tool) {
		t.collection = name
	}
}

func WithTopK(topK int) PipelineOption {
	return func(t *Tool) {
		t.topK = topK
	}
}

func New(e embedder.Embedder, engine vectordb.Engine, synthesizer Synthesizer, opts ...tools.Option) *Tool {
	ret := &Tool{
		embedder:    e,
		engine:      engine,
		synthesizer: synthesizer,
		collection:  DefaultCollection,
		topK:        DefaultTopK,
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

// Configure applies pipeline options after construction.
func (t *Tool) Configure(opts ...PipelineOption) *Tool {
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tool) InputSchema() any {
	return tools.SchemaOf(&Input{})
}

// Call implements the tools.Tool dispatch contract.
func (t *Tool) Call(ctx context.Context, arguments string) (string, error) {
	t.OnStart(ctx, arguments)
	var input Input
	if err := json.Unmarshal([]byte(arguments), &input); err != nil {
		err = fmt.Errorf("invalid retrieval arguments: %w", err)
		t.OnError(ctx, arguments, err)
		return "", err
	}
	if err := tools.Validate(&input); err != nil {
		t.OnError(ctx, arguments, err)
		return "", err
	}
	result, err := t.Retrieve(ctx, input.Question)
	if err != nil {
		t.OnError(ctx, arguments, err)
		return "", err
	}
	t.OnEnd(ctx, arguments, result)
	return result, nil
}

// Retrieve answers a non-empty question from the knowledge base. Any failure
// of the embedding provider, the vector store, or the model surfaces as a
// ServiceError; the result is never silently empty.
func (t *Tool) Retrieve(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("empty retrieval question")
	}
	embedding := new(embedder.Embedding)
	usage := new(components.LLMUsage)
	if err := t.embedder.Embed(ctx, question, embedding, usage); err != nil {
		return "", components.NewServiceError("embedding", err)
	}
	records, err := t.engine.Search(ctx, embedding.Embedding,
		vectordb.SearchWithCollection(t.collection),
		vectordb.SearchWithTopK(t.topK),
	)
	if err != nil {
		return "", components.NewServiceError("vector store", err)
	}
	prompt := schema.NewString(contextPrompt(question, records))
	output := new(Output)
	llmResp := new(components.LLMResponse)
	if err := t.synthesizer.Run(ctx, prompt, output, llmResp); err != nil {
		return "", components.NewServiceError("language model", err)
	}
	return output.HTML, nil
}

// contextPrompt combines the retrieved passages and the question using the
// fixed template the synthesis model is prompted with.
func contextPrompt(question string, records []vectordb.Record) string {
	sb := new(strings.Builder)
	sb.WriteString("Use the following pieces of retrieved medical information to answer the user's question clearly, professionally, and empathetically.\n\n")
	sb.WriteString("Context:\n")
	if len(records) == 0 {
		sb.WriteString("(no stored passages matched this question)\n")
	}
	for i, record := range records {
		fmt.Fprintf(sb, "%d. %s\n", i+1, record.Embedding.Object)
		for k, v := range record.Embedding.Meta {
			fmt.Fprintf(sb, "  - %s: %s\n", k, v)
		}
		fmt.Fprintf(sb, "  - relevance: %.3f\n", record.Score)
	}
	fmt.Fprintf(sb, "\nUser's question: %s\n", question)
	return sb.String()
}
