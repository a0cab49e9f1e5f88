// Package config loads the application configuration from a TOML file,
// applying defaults and environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Backend names accepted in the [embedding] and [llm] sections.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

// Default values applied when the config file omits a field.
const (
	DefaultAddr         = ":8080"
	DefaultTopK         = 3
	DefaultMaxTopK      = 20
	DefaultHistoryLimit = 5
	DefaultRatePerMin   = 60
)

// Config is the full application configuration.
type Config struct {
	// Document is the source document the corpus is built from.
	Document DocumentConfig `toml:"document"`

	// Server configures the HTTP API.
	Server ServerConfig `toml:"server"`

	// Storage configures local persistence paths.
	Storage StorageConfig `toml:"storage"`

	// Embedding selects and configures the embedding backend.
	Embedding EmbeddingConfig `toml:"embedding"`

	// LLM selects and configures the generation backend.
	LLM LLMConfig `toml:"llm"`

	// Chat tunes retrieval and conversation behaviour.
	Chat ChatConfig `toml:"chat"`
}

// DocumentConfig names the source document.
type DocumentConfig struct {
	// Path is the document the index is built from (.pdf, .txt, .md,
	// .html, .docx).
	Path string `toml:"path"`

	// Watch rebuilds the index when the document changes on disk.
	Watch bool `toml:"watch"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// RatePerMinute limits chat requests per client. Zero disables limiting.
	RatePerMinute int `toml:"rate_per_minute"`
}

// StorageConfig holds local persistence paths.
type StorageConfig struct {
	// DataDir holds the chat database. Empty means ~/.docchat/data.
	DataDir string `toml:"data_dir"`

	// IndexDir holds the index snapshot. Empty means ~/.docchat/index.
	IndexDir string `toml:"index_dir"`
}

// EmbeddingConfig selects the embedding backend.
type EmbeddingConfig struct {
	Backend string `toml:"backend"`

	// BaseURL overrides the backend's API URL.
	BaseURL string `toml:"base_url"`

	Model string `toml:"model"`

	// Dimensions overrides the vector size for OpenAI models that accept a
	// dimensions parameter. Ollama models have a fixed size.
	Dimensions int `toml:"dimensions"`

	// APIKey for hosted backends. The OPENAI_API_KEY environment variable
	// takes precedence so keys can stay out of the config file.
	APIKey string `toml:"api_key"`
}

// LLMConfig selects the generation backend.
type LLMConfig struct {
	Backend string `toml:"backend"`

	BaseURL string `toml:"base_url"`

	Model string `toml:"model"`

	// MaxTokens caps completion length. Zero means the backend default.
	MaxTokens int `toml:"max_tokens"`

	// Temperature controls sampling. Zero means the backend default.
	Temperature float64 `toml:"temperature"`

	APIKey string `toml:"api_key"`
}

// ChatConfig tunes retrieval and conversation behaviour.
type ChatConfig struct {
	// TopK is the default number of passages retrieved per question.
	TopK int `toml:"top_k"`

	// MaxTopK bounds per-request top_k overrides.
	MaxTopK int `toml:"max_top_k"`

	// HistoryLimit is how many recent messages feed the prompt.
	HistoryLimit int `toml:"history_limit"`
}

// DefaultPath returns the default config file location, ~/.docchat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docchat", "config.toml"), nil
}

// Load reads the config file at path. A missing file yields the defaults.
// If path is empty the default location is used.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file yet - that's fine, run on defaults
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.RatePerMinute == 0 {
		c.Server.RatePerMinute = DefaultRatePerMin
	}
	if c.Embedding.Backend == "" {
		c.Embedding.Backend = BackendOllama
	}
	if c.LLM.Backend == "" {
		c.LLM.Backend = BackendOllama
	}
	if c.Chat.TopK == 0 {
		c.Chat.TopK = DefaultTopK
	}
	if c.Chat.MaxTopK == 0 {
		c.Chat.MaxTopK = DefaultMaxTopK
	}
	if c.Chat.HistoryLimit == 0 {
		c.Chat.HistoryLimit = DefaultHistoryLimit
	}
}

// applyEnv lets environment variables override file-sourced secrets.
func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.Embedding.Backend == BackendOpenAI {
			c.Embedding.APIKey = key
		}
		if c.LLM.Backend == BackendOpenAI {
			c.LLM.APIKey = key
		}
	}
	if url := os.Getenv("OLLAMA_HOST"); url != "" {
		if c.Embedding.Backend == BackendOllama && c.Embedding.BaseURL == "" {
			c.Embedding.BaseURL = url
		}
		if c.LLM.Backend == BackendOllama && c.LLM.BaseURL == "" {
			c.LLM.BaseURL = url
		}
	}
}

func (c *Config) validate() error {
	if err := validBackend(c.Embedding.Backend); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if err := validBackend(c.LLM.Backend); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if c.Chat.TopK < 1 {
		return fmt.Errorf("chat: top_k must be at least 1")
	}
	if c.Chat.MaxTopK < c.Chat.TopK {
		return fmt.Errorf("chat: max_top_k must be >= top_k")
	}
	return nil
}

func validBackend(name string) error {
	switch name {
	case BackendOllama, BackendOpenAI:
		return nil
	}
	return fmt.Errorf("unknown backend %q", name)
}
