package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
llm:
  provider: "gemini"
  model: "gemini-2.0-flash"
  api_key: "test-key"
  max_tokens: 1000
  temperature: 0.5

embedding:
  base_url: "http://localhost:11434"
  model: "nomic-embed-text:latest"

store:
  backend: "memory"
  data_dir: "corpus"

retrieval:
  num_results: 5

ingest:
  chunk_size: 500
  chunk_overlap: 100
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	t.Setenv("OLLAMA_BASE_URL", "")
	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "gemini", config.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", config.LLM.Model)
	assert.Equal(t, "test-key", config.LLM.APIKey)
	assert.Equal(t, 1000, config.LLM.MaxTokens)
	assert.Equal(t, 0.5, config.LLM.Temperature)
	assert.Equal(t, "memory", config.Store.Backend)
	assert.Equal(t, "corpus", config.Store.DataDir)
	assert.Equal(t, 5, config.Retrieval.NumResults)
	assert.Equal(t, 500, config.Ingest.ChunkSize)
	assert.Equal(t, 100, config.Ingest.ChunkOverlap)

	// Unset values pick up defaults
	assert.Equal(t, "http://localhost:11434", config.LLM.BaseURL)
	assert.Equal(t, 2, config.Fetcher.MaxDepth)
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Nil(t, config)
}

func TestDefaultConfig(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "ollama", config.LLM.Provider)
	assert.Equal(t, "mistral", config.LLM.Model)
	assert.Equal(t, "memory", config.Store.Backend)
	assert.Equal(t, "processed_data", config.Store.DataDir)
	assert.Equal(t, 3, config.Retrieval.NumResults)
	assert.Empty(t, config.Validate())
}

func TestValidateNumResultsRange(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)

	config.Retrieval.NumResults = 11
	errs := config.Validate()
	require.NotEmpty(t, errs)
	assert.Equal(t, "retrieval.num_results", errs[0].Field)

	config.Retrieval.NumResults = 0
	assert.NotEmpty(t, config.Validate())
}

func TestValidateGeminiRequiresKey(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)

	config.LLM.Provider = "gemini"
	config.LLM.APIKey = ""

	var fields []string
	for _, e := range config.Validate() {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "llm.api_key")
}

func TestValidatePgvectorRequiresURL(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)

	config.Store.Backend = "pgvector"
	config.Store.URL = ""

	var fields []string
	for _, e := range config.Validate() {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "store.url")
}

func TestValidateChunkOverlap(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)

	config.Ingest.ChunkOverlap = config.Ingest.ChunkSize
	var fields []string
	for _, e := range config.Validate() {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "ingest.chunk_overlap")
}
