package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		Provider    string  `yaml:"provider"`
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		APIKey      string  `yaml:"api_key"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"llm"`

	Embedding struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"embedding"`

	Store struct {
		Backend   string `yaml:"backend"` // "memory" or "pgvector"
		DataDir   string `yaml:"data_dir"`
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
		VectorDim int    `yaml:"vector_dim"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"store"`

	Retrieval struct {
		NumResults int `yaml:"num_results"`
	} `yaml:"retrieval"`

	Ingest struct {
		ChunkSize      int `yaml:"chunk_size"`
		ChunkOverlap   int `yaml:"chunk_overlap"`
		MinChunkLength int `yaml:"min_chunk_length"`
	} `yaml:"ingest"`

	Fetcher struct {
		MaxDepth       int      `yaml:"max_depth"`
		RateLimit      float64  `yaml:"rate_limit"`
		IgnorePatterns []string `yaml:"ignore_patterns"`
	} `yaml:"fetcher"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/tanya/config.yaml"),
			"/etc/tanya/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Provider == "" {
		config.LLM.Provider = "ollama"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "mistral"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2000
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}

	if config.Embedding.Model == "" {
		config.Embedding.Model = "nomic-embed-text:latest"
	}
	if config.Embedding.BaseURL == "" {
		config.Embedding.BaseURL = config.LLM.BaseURL
	}

	if config.Store.Backend == "" {
		config.Store.Backend = "memory"
	}
	if config.Store.DataDir == "" {
		config.Store.DataDir = "processed_data"
	}
	if config.Store.TableName == "" {
		config.Store.TableName = "law_chunks"
	}
	if config.Store.VectorDim == 0 {
		config.Store.VectorDim = 768
	}
	if config.Store.BatchSize == 0 {
		config.Store.BatchSize = 100
	}

	if config.Retrieval.NumResults == 0 {
		config.Retrieval.NumResults = 3
	}

	if config.Ingest.ChunkSize == 0 {
		config.Ingest.ChunkSize = 1000
	}
	if config.Ingest.ChunkOverlap == 0 {
		config.Ingest.ChunkOverlap = 200
	}
	if config.Ingest.MinChunkLength == 0 {
		config.Ingest.MinChunkLength = 100
	}

	if config.Fetcher.MaxDepth == 0 {
		config.Fetcher.MaxDepth = 2
	}
	if config.Fetcher.RateLimit == 0 {
		config.Fetcher.RateLimit = 1.0
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
		config.Embedding.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Store.URL = dbURL
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
}
