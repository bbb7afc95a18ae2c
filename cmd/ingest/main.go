package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/tanyahukum/tanya/internal/models"
	cfgPkg "github.com/tanyahukum/tanya/pkg/config"
	"github.com/tanyahukum/tanya/pkg/fetch"
	"github.com/tanyahukum/tanya/pkg/ingest"
	"github.com/tanyahukum/tanya/pkg/llm"
	"github.com/tanyahukum/tanya/pkg/store"
	"golang.org/x/time/rate"
)

func main() {
	var configPath, inDir, fetchURL, outDir string
	var toPg bool
	var embedRate float64

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&inDir, "in", "", "Directory with extracted law text files (.txt, form feed = page break)")
	flag.StringVar(&fetchURL, "url", "", "Law portal URL to fetch documents from")
	flag.StringVar(&outDir, "out", "", "Output directory for chunk records")
	flag.BoolVar(&toPg, "pg", false, "Store chunks in pgvector instead of JSON records")
	flag.Float64Var(&embedRate, "embed-rate", 10, "Embedding requests per second")
	flag.Parse()

	if inDir == "" && fetchURL == "" {
		log.Fatal("either -in or -url is required")
	}

	config, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if outDir == "" {
		outDir = config.Store.DataDir
	}

	if err := run(config, inDir, fetchURL, outDir, toPg, embedRate); err != nil {
		log.Fatal(err)
	}
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

type rawDocument struct {
	source string
	text   string
}

func run(config *cfgPkg.Config, inDir, fetchURL, outDir string, toPg bool, embedRate float64) error {
	var raw []rawDocument

	if inDir != "" {
		docs, err := readTextFiles(inDir)
		if err != nil {
			return err
		}
		raw = append(raw, docs...)
	}

	if fetchURL != "" {
		docs, err := fetchDocuments(config, fetchURL)
		if err != nil {
			return err
		}
		raw = append(raw, docs...)
	}

	if len(raw) == 0 {
		return fmt.Errorf("no documents to ingest")
	}
	color.Green("✓ Collected %d documents", len(raw))

	chunker := ingest.NewChunkerWithConfig(ingest.ChunkerConfig{
		ChunkSize:      config.Ingest.ChunkSize,
		ChunkOverlap:   config.Ingest.ChunkOverlap,
		MinChunkLength: config.Ingest.MinChunkLength,
	})

	var documents []models.Document
	totalChunks := 0
	for _, r := range raw {
		chunks := chunker.Chunk(r.source, r.text)
		documents = append(documents, models.Document{Source: r.source, Chunks: chunks})
		totalChunks += len(chunks)
	}
	color.Green("✓ Split into %d chunks", totalChunks)

	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:   config.Embedding.Model,
		BaseURL: config.Embedding.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
	}

	// Pace embedding calls so a local Ollama instance is not flooded
	limiter := rate.NewLimiter(rate.Limit(embedRate), 1)
	embeddingBar := getProgressBar(totalChunks, "Embedding chunks...")

	ctx := context.Background()
	for d := range documents {
		for c := range documents[d].Chunks {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			embedding, err := embedder.Embed(ctx, documents[d].Chunks[c].Text)
			if err != nil {
				return fmt.Errorf("failed to embed chunk from %s: %v", documents[d].Source, err)
			}
			documents[d].Chunks[c].Embedding = embedding
			embeddingBar.Add(1)
		}
	}
	embeddingBar.Finish()

	if toPg {
		return storeToPg(config, documents)
	}
	return writeRecords(outDir, documents)
}

func readTextFiles(dir string) ([]rawDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %v", err)
	}

	var docs []rawDocument
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %v", entry.Name(), err)
		}
		docs = append(docs, rawDocument{
			source: entry.Name(),
			text:   string(data),
		})
	}
	return docs, nil
}

func fetchDocuments(config *cfgPkg.Config, fetchURL string) ([]rawDocument, error) {
	var fetchedCount int32
	fetcher, err := fetch.NewWithConfig(fetch.FetcherConfig{
		BaseURL:        fetchURL,
		MaxDepth:       config.Fetcher.MaxDepth,
		RateLimit:      config.Fetcher.RateLimit,
		IgnorePatterns: config.Fetcher.IgnorePatterns,
		OnProgress: func(url string) {
			atomic.AddInt32(&fetchedCount, 1)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fetcher: %v", err)
	}

	fetchBar := getProgressBar(-1, "Fetching law pages...")
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				fetchBar.Set(int(atomic.LoadInt32(&fetchedCount)))
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()

	pages, err := fetcher.Fetch(fetchURL)
	close(done)
	fetchBar.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %v", err)
	}

	docs := make([]rawDocument, 0, len(pages))
	for _, page := range pages {
		docs = append(docs, rawDocument{
			source: page.Title,
			text:   page.Text,
		})
	}
	return docs, nil
}

func writeRecords(outDir string, documents []models.Document) error {
	writeBar := getProgressBar(len(documents), "Writing chunk records...")
	for _, doc := range documents {
		if err := ingest.WriteCorpusRecord(outDir, doc); err != nil {
			return err
		}
		writeBar.Add(1)
	}
	writeBar.Finish()
	color.Green("\n✓ Wrote %d chunk records to %s", len(documents), outDir)
	return nil
}

func storeToPg(config *cfgPkg.Config, documents []models.Document) error {
	pg, err := store.NewPgStoreWithConfig(store.PgStoreConfig{
		ConnString: config.Store.URL,
		TableName:  config.Store.TableName,
		VectorDim:  config.Store.VectorDim,
		BatchSize:  config.Store.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize vector store: %v", err)
	}
	defer pg.Close()

	storeBar := getProgressBar(len(documents), "Storing in vector database...")
	for _, doc := range documents {
		if err := pg.Store(doc); err != nil {
			return fmt.Errorf("failed to store %s: %v", doc.Source, err)
		}
		storeBar.Add(1)
	}
	storeBar.Finish()
	color.Green("\n✓ Stored %d documents", len(documents))
	return nil
}
