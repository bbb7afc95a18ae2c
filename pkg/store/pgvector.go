package store

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/tanyahukum/tanya/internal/models"
)

type PgStoreConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
	BatchSize  int
}

// PgStore is the pgvector-backed chunk store. It satisfies the same search
// contract as CorpusStore, with the index living in PostgreSQL instead of a
// full in-memory scan.
type PgStore struct {
	config PgStoreConfig
	pool   *pgxpool.Pool
}

func NewPgStoreWithConfig(config PgStoreConfig) (*PgStore, error) {
	if config.TableName == "" {
		config.TableName = "law_chunks"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	ps := &PgStore{
		config: config,
		pool:   pool,
	}

	if err := ps.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return ps, nil
}

func (ps *PgStore) initialize() error {
	ctx := context.Background()

	_, err := ps.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			chunk_index INTEGER,
			content TEXT,
			page_start INTEGER,
			page_end INTEGER,
			embedding vector(%d)
		)`, ps.config.TableName, ps.config.VectorDim)

	_, err = ps.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		ps.config.TableName, ps.config.TableName)

	_, err = ps.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

// Store inserts a document's chunks in one transaction. Existing rows with
// the same id are replaced, so re-ingesting a document is safe.
func (ps *PgStore) Store(doc models.Document) error {
	ctx := context.Background()

	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, source, chunk_index, content, page_start, page_end, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			page_start = EXCLUDED.page_start,
			page_end = EXCLUDED.page_end,
			embedding = EXCLUDED.embedding`,
		ps.config.TableName)

	for i, chunk := range doc.Chunks {
		id := fmt.Sprintf("%s_%d", doc.Source, i)

		_, err = tx.Exec(ctx, stmt,
			id,
			doc.Source,
			i,
			sanitizeUTF8(chunk.Text),
			chunk.PageStart,
			chunk.PageEnd,
			pgvector.NewVector(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

// Search returns the k nearest chunks by cosine distance.
func (ps *PgStore) Search(queryEmbedding []float32, k int) ([]models.SearchResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}
	ctx := context.Background()

	query := fmt.Sprintf(`
		SELECT source, content, page_start, page_end, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1, chunk_index
		LIMIT $2`,
		ps.config.TableName)

	rows, err := ps.pool.Query(ctx, query, pgvector.NewVector(queryEmbedding), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %v", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var result models.SearchResult
		err := rows.Scan(
			&result.Chunk.Source,
			&result.Chunk.Text,
			&result.Chunk.PageStart,
			&result.Chunk.PageEnd,
			&result.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		results = append(results, result)
	}

	return results, nil
}

func (ps *PgStore) Documents() []string {
	ctx := context.Background()

	query := fmt.Sprintf("SELECT DISTINCT source FROM %s ORDER BY source", ps.config.TableName)
	rows, err := ps.pool.Query(ctx, query)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil
		}
		names = append(names, name)
	}
	return names
}

func (ps *PgStore) Stats() (int, int) {
	ctx := context.Background()

	var documents, chunks int
	query := fmt.Sprintf("SELECT COUNT(DISTINCT source), COUNT(*) FROM %s", ps.config.TableName)
	if err := ps.pool.QueryRow(ctx, query).Scan(&documents, &chunks); err != nil {
		return 0, 0
	}
	return documents, chunks
}

func (ps *PgStore) Close() {
	if ps.pool != nil {
		ps.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
