package types

import (
	"context"

	"github.com/tanyahukum/tanya/internal/models"
)

// Core interfaces

// ChunkStore holds the corpus and answers similarity queries. Implementations
// are read-only after loading, so concurrent searches need no locking.
type ChunkStore interface {
	Search(queryEmbedding []float32, k int) ([]models.SearchResult, error)
	Documents() []string
	Stats() (documents int, chunks int)
}

// Embedder turns text into the fixed-dimension vector used for similarity
// comparison. The same embedder must be used at ingestion and query time.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator is the language-model backend: one prompt in, generated text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Retriever embeds a query and returns the top-k chunks from the store.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.SearchResult, error)
}
