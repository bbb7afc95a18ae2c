package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanyahukum/tanya/internal/types"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"google.golang.org/genai"
)

// GeneratorConfig represents the configuration for the generation backend.
type GeneratorConfig struct {
	Provider    string // "ollama" or "gemini"
	Model       string
	BaseURL     string // Ollama server URL
	APIKey      string // Gemini API key
	Temperature float64
	MaxTokens   int
}

// NewGeneratorWithConfig builds the configured generation backend.
func NewGeneratorWithConfig(config GeneratorConfig) (types.Generator, error) {
	if config.Temperature < 0 || config.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be between 0 and 1")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 2000
	}

	switch config.Provider {
	case "", "ollama":
		return newOllamaGenerator(config)
	case "gemini":
		return newGeminiGenerator(config)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", config.Provider)
	}
}

// OllamaGenerator generates answers with a local Ollama model.
type OllamaGenerator struct {
	config GeneratorConfig
	llm    llms.Model
}

func newOllamaGenerator(config GeneratorConfig) (*OllamaGenerator, error) {
	if config.Model == "" {
		config.Model = "mistral"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	llm, err := ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &OllamaGenerator{
		config: config,
		llm:    llm,
	}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(g.config.Temperature),
		llms.WithMaxTokens(g.config.MaxTokens))
	if err != nil {
		return "", fmt.Errorf("generation error: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// GeminiGenerator generates answers with the Gemini API.
type GeminiGenerator struct {
	config GeneratorConfig
}

func newGeminiGenerator(config GeneratorConfig) (*GeminiGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini provider requires an API key")
	}
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	return &GeminiGenerator{config: config}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(
		ctx,
		g.config.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("generation error: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
