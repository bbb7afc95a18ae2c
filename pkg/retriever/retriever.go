package retriever

import (
	"context"
	"fmt"

	"github.com/tanyahukum/tanya/internal/models"
	"github.com/tanyahukum/tanya/internal/types"
)

// RetrievalError reports a failed query embedding or search. It is kept
// distinct from an empty result, which means no relevant chunks exist.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// DocumentRetriever embeds a query with the injected embedder and delegates
// the similarity search to the chunk store.
type DocumentRetriever struct {
	embedder types.Embedder
	store    types.ChunkStore
}

func New(embedder types.Embedder, store types.ChunkStore) *DocumentRetriever {
	return &DocumentRetriever{
		embedder: embedder,
		store:    store,
	}
}

func (r *DocumentRetriever) Retrieve(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	if k < 1 {
		return nil, &RetrievalError{Err: fmt.Errorf("k must be at least 1, got %d", k)}
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}

	results, err := r.store.Search(embedding, k)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}
	return results, nil
}
