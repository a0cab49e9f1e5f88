package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, BackendOllama, cfg.Embedding.Backend)
	assert.Equal(t, BackendOllama, cfg.LLM.Backend)
	assert.Equal(t, DefaultTopK, cfg.Chat.TopK)
	assert.Equal(t, DefaultMaxTopK, cfg.Chat.MaxTopK)
	assert.Equal(t, DefaultHistoryLimit, cfg.Chat.HistoryLimit)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[document]
path = "/docs/manual.pdf"
watch = true

[server]
addr = ":9090"

[embedding]
backend = "ollama"
model = "nomic-embed-text"

[llm]
backend = "ollama"
model = "llama3.2"
temperature = 0.2

[chat]
top_k = 5
max_top_k = 10
history_limit = 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/docs/manual.pdf", cfg.Document.Path)
	assert.True(t, cfg.Document.Watch)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 5, cfg.Chat.TopK)
	assert.Equal(t, 10, cfg.Chat.MaxTopK)
	assert.Equal(t, 8, cfg.Chat.HistoryLimit)
}

func TestLoad_UnknownBackend(t *testing.T) {
	path := writeConfig(t, `
[llm]
backend = "bedrock"
`)

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_TopKBounds(t *testing.T) {
	path := writeConfig(t, `
[chat]
top_k = 30
max_top_k = 10
`)

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	path := writeConfig(t, `
[embedding]
backend = "openai"
api_key = "sk-from-file"

[llm]
backend = "openai"
`)
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
}

func TestLoad_OllamaHostEnv(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", cfg.Embedding.BaseURL)
	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.BaseURL)
}
