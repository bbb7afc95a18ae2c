package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/tanyahukum/tanya/internal/models"
	"github.com/tanyahukum/tanya/internal/types"
	cfgPkg "github.com/tanyahukum/tanya/pkg/config"
	"github.com/tanyahukum/tanya/pkg/engine"
	"github.com/tanyahukum/tanya/pkg/llm"
	"github.com/tanyahukum/tanya/pkg/retriever"
	"github.com/tanyahukum/tanya/pkg/store"
	"github.com/tanyahukum/tanya/server"
)

func main() {
	var configPath, listen string
	var dataDir, provider, model, baseURL, dbURL, backend string
	var numResults int

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&listen, "listen", "", "Serve over WebSocket on this address instead of the chat loop")
	flag.StringVar(&dataDir, "data-dir", "", "Directory with processed chunk records")
	flag.StringVar(&provider, "provider", "", "LLM provider (ollama or gemini)")
	flag.StringVar(&model, "model", "", "LLM model to use")
	flag.StringVar(&baseURL, "ollama-url", os.Getenv("OLLAMA_BASE_URL"), "Ollama server URL")
	flag.StringVar(&dbURL, "db-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.StringVar(&backend, "store", "", "Chunk store backend (memory or pgvector)")
	flag.IntVar(&numResults, "k", 0, "Number of chunks retrieved per question (1-10)")
	flag.Parse()

	config, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Command line flags override the config file
	if dataDir != "" {
		config.Store.DataDir = dataDir
	}
	if provider != "" {
		config.LLM.Provider = provider
	}
	if model != "" {
		config.LLM.Model = model
	}
	if baseURL != "" {
		config.LLM.BaseURL = baseURL
		config.Embedding.BaseURL = baseURL
	}
	if dbURL != "" {
		config.Store.URL = dbURL
	}
	if backend != "" {
		config.Store.Backend = backend
	}
	if numResults != 0 {
		config.Retrieval.NumResults = numResults
	}

	if errs := config.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("Invalid config: %v", e)
		}
		os.Exit(1)
	}

	if err := run(config, listen); err != nil {
		log.Fatal(err)
	}
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func buildStore(config *cfgPkg.Config) (types.ChunkStore, error) {
	if config.Store.Backend == "pgvector" {
		return store.NewPgStoreWithConfig(store.PgStoreConfig{
			ConnString: config.Store.URL,
			TableName:  config.Store.TableName,
			VectorDim:  config.Store.VectorDim,
			BatchSize:  config.Store.BatchSize,
		})
	}

	cs := store.NewWithConfig(store.CorpusStoreConfig{
		DataDir: config.Store.DataDir,
	})
	if err := cs.Load(); err != nil {
		// An empty store is usable: every search returns no results
		color.Red("Warning: %v", err)
	}
	return cs, nil
}

func run(config *cfgPkg.Config, listen string) error {
	chunkStore, err := buildStore(config)
	if err != nil {
		return fmt.Errorf("failed to initialize chunk store: %v", err)
	}

	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:   config.Embedding.Model,
		BaseURL: config.Embedding.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
	}

	generator, err := llm.NewGeneratorWithConfig(llm.GeneratorConfig{
		Provider:    config.LLM.Provider,
		Model:       config.LLM.Model,
		BaseURL:     config.LLM.BaseURL,
		APIKey:      config.LLM.APIKey,
		Temperature: config.LLM.Temperature,
		MaxTokens:   config.LLM.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %v", err)
	}

	eng := engine.New(retriever.New(embedder, chunkStore), generator)

	documents, chunks := chunkStore.Stats()
	color.Green("✓ Corpus ready: %d documents, %d chunks", documents, chunks)

	if listen != "" {
		return server.New(server.Config{
			Addr:       listen,
			NumResults: config.Retrieval.NumResults,
		}, eng, chunkStore).Start()
	}

	return chatLoop(eng, chunkStore, config.Retrieval.NumResults)
}

func chatLoop(eng *engine.Engine, chunkStore types.ChunkStore, numResults int) error {
	color.Cyan("\nTanya Hukum: ask about Indonesian law (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	conversation := &models.Conversation{}

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.ToLower(query) == "exit" {
			break
		}

		// While a request is pending the model is not offered the catalog,
		// so it cannot ask for a second document.
		var catalog []string
		if conversation.Pending == nil {
			catalog = chunkStore.Documents()
		}

		conversation.Append(models.RoleUser, query)

		spinner := getSpinner(" Mencari jawaban...")
		answer := eng.Answer(context.Background(), query, conversation, numResults, catalog)
		spinner.Finish()
		fmt.Print("\r")

		assistantPrompt("\nAssistant: %s\n", answer.Text)
		conversation.Append(models.RoleAssistant, answer.Text)

		if len(answer.Sources) > 0 {
			fmt.Println()
			for i, source := range answer.Sources {
				color.Yellow("  [%d] %s (hal. %d-%d, skor %.3f)",
					i+1, source.Chunk.Source, source.Chunk.PageStart, source.Chunk.PageEnd, source.Score)
			}
		}

		if answer.DocumentRequest != "" {
			conversation.SetPending(answer.DocumentRequest)
			userPrompt("\nIzinkan akses ke dokumen '%s'? (y/n): ", answer.DocumentRequest)
			if !scanner.Scan() {
				break
			}
			approved := strings.ToLower(strings.TrimSpace(scanner.Text())) == "y"
			conversation.ResolvePending(approved)
			if approved {
				color.Green("Permintaan disetujui.")
			} else {
				color.Red("Permintaan ditolak.")
			}
		}
	}

	return nil
}
