package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.Provider != "ollama" && c.LLM.Provider != "gemini" {
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown provider: %s", c.LLM.Provider),
		})
	}

	if c.LLM.Provider == "ollama" && c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	}

	if c.LLM.Provider == "gemini" && c.LLM.APIKey == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.api_key",
			Message: "Gemini API key is required",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 1",
		})
	}

	if _, err := url.Parse(c.LLM.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	// Validate store config
	if c.Store.Backend != "memory" && c.Store.Backend != "pgvector" {
		errors = append(errors, ValidationError{
			Field:   "store.backend",
			Message: fmt.Sprintf("unknown backend: %s", c.Store.Backend),
		})
	}

	if c.Store.Backend == "pgvector" {
		if c.Store.URL == "" {
			errors = append(errors, ValidationError{
				Field:   "store.url",
				Message: "pgvector backend requires a database URL",
			})
		} else if _, err := url.Parse(c.Store.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "store.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Store.Backend == "memory" && c.Store.DataDir == "" {
		errors = append(errors, ValidationError{
			Field:   "store.data_dir",
			Message: "memory backend requires a data directory",
		})
	}

	if c.Store.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "store.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	if c.Store.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "store.batch_size",
			Message: "batch_size must be positive",
		})
	}

	// Number of retrieved chunks is a caller policy with a hard range
	if c.Retrieval.NumResults < 1 || c.Retrieval.NumResults > 10 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.num_results",
			Message: "num_results must be between 1 and 10",
		})
	}

	// Validate ingest config
	if c.Ingest.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "ingest.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Ingest.ChunkOverlap < 0 || c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "ingest.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	// Validate fetcher config
	if c.Fetcher.MaxDepth < 1 {
		errors = append(errors, ValidationError{
			Field:   "fetcher.max_depth",
			Message: "max_depth must be positive",
		})
	}

	if c.Fetcher.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "fetcher.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	return errors
}
