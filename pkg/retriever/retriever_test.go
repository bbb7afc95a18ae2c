package retriever_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanyahukum/tanya/internal/models"
	"github.com/tanyahukum/tanya/pkg/retriever"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vector, s.err
}

type stubStore struct {
	results  []models.SearchResult
	err      error
	lastK    int
	lastEmbd []float32
}

func (s *stubStore) Search(queryEmbedding []float32, k int) ([]models.SearchResult, error) {
	s.lastEmbd = queryEmbedding
	s.lastK = k
	return s.results, s.err
}

func (s *stubStore) Documents() []string { return nil }
func (s *stubStore) Stats() (int, int)   { return 0, 0 }

func TestRetrieveDelegates(t *testing.T) {
	results := []models.SearchResult{{Score: 0.8}}
	st := &stubStore{results: results}
	r := retriever.New(&stubEmbedder{vector: []float32{1, 2, 3}}, st)

	got, err := r.Retrieve(context.Background(), "pertanyaan", 5)
	require.NoError(t, err)
	assert.Equal(t, results, got)
	assert.Equal(t, 5, st.lastK)
	assert.Equal(t, []float32{1, 2, 3}, st.lastEmbd)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	r := retriever.New(&stubEmbedder{err: errors.New("ollama unreachable")}, &stubStore{})

	_, err := r.Retrieve(context.Background(), "pertanyaan", 3)
	var retrievalErr *retriever.RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	assert.Contains(t, err.Error(), "ollama unreachable")
}

func TestRetrieveSearchFailure(t *testing.T) {
	r := retriever.New(&stubEmbedder{vector: []float32{1}}, &stubStore{err: errors.New("search failed")})

	_, err := r.Retrieve(context.Background(), "pertanyaan", 3)
	var retrievalErr *retriever.RetrievalError
	assert.ErrorAs(t, err, &retrievalErr)
}

func TestRetrieveInvalidK(t *testing.T) {
	r := retriever.New(&stubEmbedder{vector: []float32{1}}, &stubStore{})

	_, err := r.Retrieve(context.Background(), "pertanyaan", 0)
	var retrievalErr *retriever.RetrievalError
	assert.ErrorAs(t, err, &retrievalErr)
}
