package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tanyahukum/tanya/internal/models"
)

// LoadError reports that the persisted corpus could not be read. The store
// is left empty when it occurs.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading corpus from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type CorpusStoreConfig struct {
	DataDir string
}

// CorpusStore keeps the whole chunk corpus in memory and answers similarity
// queries with a full cosine scan. Read-only once Load has returned.
type CorpusStore struct {
	config    CorpusStoreConfig
	documents []models.Document
	chunks    []models.Chunk
	dim       int
}

func NewWithConfig(config CorpusStoreConfig) *CorpusStore {
	if config.DataDir == "" {
		config.DataDir = "processed_data"
	}
	return &CorpusStore{config: config}
}

// Load reads every .json chunk record in the data directory. Any missing or
// malformed file fails the whole load and leaves the store empty.
func (s *CorpusStore) Load() error {
	s.documents = nil
	s.chunks = nil
	s.dim = 0

	entries, err := os.ReadDir(s.config.DataDir)
	if err != nil {
		return &LoadError{Path: s.config.DataDir, Err: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(s.config.DataDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			s.reset()
			return &LoadError{Path: path, Err: err}
		}

		var doc models.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			s.reset()
			return &LoadError{Path: path, Err: err}
		}
		if doc.Source == "" {
			doc.Source = strings.TrimSuffix(name, ".json")
		}

		for i := range doc.Chunks {
			doc.Chunks[i].Source = doc.Source
			if len(doc.Chunks[i].Embedding) == 0 {
				s.reset()
				return &LoadError{Path: path, Err: fmt.Errorf("chunk %d has no embedding", i)}
			}
			if s.dim == 0 {
				s.dim = len(doc.Chunks[i].Embedding)
			} else if len(doc.Chunks[i].Embedding) != s.dim {
				s.reset()
				return &LoadError{Path: path, Err: fmt.Errorf(
					"chunk %d has dimension %d, store has %d", i, len(doc.Chunks[i].Embedding), s.dim)}
			}
			s.chunks = append(s.chunks, doc.Chunks[i])
		}
		s.documents = append(s.documents, doc)
	}

	return nil
}

func (s *CorpusStore) reset() {
	s.documents = nil
	s.chunks = nil
	s.dim = 0
}

// Search returns the k most similar chunks, descending by cosine similarity.
// Ties keep the original chunk order. An empty store yields no results.
func (s *CorpusStore) Search(queryEmbedding []float32, k int) ([]models.SearchResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}
	if len(s.chunks) == 0 {
		return nil, nil
	}

	results := make([]models.SearchResult, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		results = append(results, models.SearchResult{
			Chunk: chunk,
			Score: cosineSimilarity(queryEmbedding, chunk.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Documents lists the source names in load order, for the catalog.
func (s *CorpusStore) Documents() []string {
	names := make([]string, 0, len(s.documents))
	for _, doc := range s.documents {
		names = append(names, doc.Source)
	}
	return names
}

func (s *CorpusStore) Stats() (int, int) {
	return len(s.documents), len(s.chunks)
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
