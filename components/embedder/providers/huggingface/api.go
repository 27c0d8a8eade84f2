package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

const BaseURL = "https://api-inference.huggingface.co/pipeline/feature-extraction/"

type options struct {
	WaitForModel *bool `json:"wait_for_model,omitempty"`
}

type EmbeddingRequest struct {
	Inputs  []string `json:"inputs,omitempty"`
	Options options  `json:"options,omitempty"`
	Model   string   `json:"-"`
}

// Client is the Hugging Face Inference HTTP API client.
type Client struct {
	opts Options
}

// Options are client options
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Option is functional option.
type Option func(*Options)

// NewClient creates a new HTTP API client and returns it.
// By default it reads the API key from the HUGGING_FACE_API_KEY env var and
// uses the default Go http.Client for making API requests.
func NewClient(opts ...Option) *Client {
	options := Options{
		APIKey:     os.Getenv("HUGGING_FACE_API_KEY"),
		BaseURL:    BaseURL,
		HTTPClient: http.DefaultClient,
	}
	for _, apply := range opts {
		apply(&options)
	}
	return &Client{
		opts: options,
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(apiKey string) Option {
	return func(o *Options) {
		o.APIKey = apiKey
	}
}

// WithBaseURL sets the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.BaseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = httpClient
	}
}

func (c *Client) CreateEmbeddings(ctx context.Context, req *EmbeddingRequest) ([][]float64, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(req); err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+req.Model, buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.opts.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}
	httpResp, err := c.opts.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		bs, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, bytes.TrimSpace(bs))
	}
	var embeddings [][]float64
	if err := json.NewDecoder(httpResp.Body).Decode(&embeddings); err != nil {
		return nil, err
	}
	return embeddings, nil
}
