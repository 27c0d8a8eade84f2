// Package config assembles the process configuration from defaults, an
// optional YAML file, and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvGenAIKey            = "GEMINI_API_KEY"
	EnvVectorStoreKey      = "PINECONE_API_KEY"
	EnvVectorStoreKeyAlias = "VECTOR_STORE_API_KEY"
	EnvHuggingFaceKey      = "HUGGING_FACE_API_KEY"
)

// Defaults.
const (
	DefaultBaseURL        = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel          = "gemini-2.0-flash"
	DefaultSearchModel    = "gemini-2.0-flash"
	DefaultCollection     = "medical-chatbot"
	DefaultDimension      = 384
	DefaultTopK           = 5
	DefaultGenerateTimeout = 60 * time.Second
	DefaultStoreTimeout   = 30 * time.Second
)

// ConfigurationError reports a required credential missing at startup. It is
// fatal and names the variable so the operator knows what to set.
type ConfigurationError struct {
	Variable string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not set. Please ensure it is defined in your environment or .env file", e.Variable)
}

// Model is the immutable per-session model configuration.
type Model struct {
	// BaseURL points the OpenAI-compatible chat-completions protocol at the
	// provider endpoint.
	BaseURL string `yaml:"base_url" validate:"required,url"`
	// ID selects the hosted model.
	ID string `yaml:"id" validate:"required"`
	// APIKey authenticates against the provider.
	APIKey string `yaml:"-" validate:"required"`
	// TracingDisabled turns off request tracing.
	TracingDisabled bool `yaml:"tracing_disabled"`
}

// Store configures the vector store backing the retrieval tool. Its APIKey is
// not validated at startup; a hosted store without credentials fails when the
// retrieval backing store initializes.
type Store struct {
	// Engine selects the store implementation: "chromem" or "milvus".
	Engine string `yaml:"engine" validate:"oneof=chromem milvus"`
	// Address is the milvus endpoint, or the chromem persistence path.
	Address string `yaml:"address"`
	APIKey  string `yaml:"-"`
	// Collection is the knowledge base collection identifier.
	Collection string `yaml:"collection" validate:"required"`
	// Dimension is the fixed embedding vector dimension.
	Dimension int `yaml:"dimension" validate:"gt=0"`
	// TopK is how many passages a retrieval query fetches.
	TopK int `yaml:"top_k" validate:"gt=0"`
}

// Embedding configures the embedding provider.
type Embedding struct {
	// Provider is "huggingface" or "gemini".
	Provider string `yaml:"provider" validate:"oneof=huggingface gemini"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"-"`
}

// Timeouts bound every outbound call so a hung provider cannot block a
// session forever.
type Timeouts struct {
	Generate time.Duration `yaml:"generate"`
	Store    time.Duration `yaml:"store"`
}

// UnmarshalYAML accepts Go duration strings like "90s" or "2m".
func (t *Timeouts) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Generate string `yaml:"generate"`
		Store    string `yaml:"store"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Generate != "" {
		d, err := time.ParseDuration(raw.Generate)
		if err != nil {
			return fmt.Errorf("invalid generate timeout: %w", err)
		}
		t.Generate = d
	}
	if raw.Store != "" {
		d, err := time.ParseDuration(raw.Store)
		if err != nil {
			return fmt.Errorf("invalid store timeout: %w", err)
		}
		t.Store = d
	}
	return nil
}

type Config struct {
	Model     Model     `yaml:"model"`
	Search    Model     `yaml:"search"`
	Store     Store     `yaml:"store"`
	Embedding Embedding `yaml:"embedding"`
	Timeouts  Timeouts  `yaml:"timeouts"`
}

var validate = validator.New()

// Load builds the configuration. path may be empty to skip the file layer.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(bs, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Model: Model{
			BaseURL:         DefaultBaseURL,
			ID:              DefaultModel,
			TracingDisabled: true,
		},
		Search: Model{
			BaseURL: DefaultBaseURL,
			ID:      DefaultSearchModel,
		},
		Store: Store{
			Engine:     "chromem",
			Address:    "medichat.db",
			Collection: DefaultCollection,
			Dimension:  DefaultDimension,
			TopK:       DefaultTopK,
		},
		Embedding: Embedding{
			Provider: "huggingface",
		},
		Timeouts: Timeouts{
			Generate: DefaultGenerateTimeout,
			Store:    DefaultStoreTimeout,
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvGenAIKey); v != "" {
		c.Model.APIKey = v
		c.Search.APIKey = v
	}
	if v := os.Getenv(EnvVectorStoreKey); v != "" {
		c.Store.APIKey = v
	} else if v := os.Getenv(EnvVectorStoreKeyAlias); v != "" {
		c.Store.APIKey = v
	}
	if v := os.Getenv(EnvHuggingFaceKey); v != "" {
		c.Embedding.APIKey = v
	}
}

// Validate enforces startup requirements. A missing generative-AI key is a
// fatal ConfigurationError; the vector store key is checked lazily by the
// store itself.
func (c *Config) Validate() error {
	if c.Model.APIKey == "" {
		return &ConfigurationError{Variable: EnvGenAIKey}
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
