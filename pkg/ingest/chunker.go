package ingest

import (
	"strings"

	"github.com/tanyahukum/tanya/internal/models"
)

type ChunkerConfig struct {
	ChunkSize      int
	ChunkOverlap   int
	MinChunkLength int
}

// Chunker splits extracted document text into retrievable chunks. Form feed
// characters mark page boundaries, as produced by PDF text extraction, so
// every chunk keeps the page range it came from for citation.
type Chunker struct {
	config ChunkerConfig
}

func NewChunkerWithConfig(config ChunkerConfig) Chunker {
	if config.ChunkSize == 0 {
		config.ChunkSize = 1000
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 200
	}
	if config.MinChunkLength == 0 {
		config.MinChunkLength = 100
	}

	return Chunker{
		config: config,
	}
}

type sentence struct {
	text string
	page int
}

// Chunk splits the text of one document into page-annotated chunks.
// Embeddings are filled in by a later pass.
func (c *Chunker) Chunk(source, text string) []models.Chunk {
	var sentences []sentence
	for i, page := range strings.Split(text, "\f") {
		clean := strings.Join(strings.Fields(page), " ")
		if clean == "" {
			continue
		}
		for _, s := range splitIntoSentences(clean) {
			sentences = append(sentences, sentence{text: s, page: i + 1})
		}
	}

	var chunks []models.Chunk
	current := strings.Builder{}
	pageStart, pageEnd := 0, 0

	flush := func() {
		if current.Len() >= c.config.MinChunkLength {
			chunks = append(chunks, models.Chunk{
				Source:    source,
				Text:      strings.TrimSpace(current.String()),
				PageStart: pageStart,
				PageEnd:   pageEnd,
			})
		}
	}

	for _, s := range sentences {
		if current.Len() > 0 && current.Len()+len(s.text) > c.config.ChunkSize {
			flush()

			// Carry the tail of the finished chunk into the next one
			if c.config.ChunkOverlap > 0 && current.Len() > c.config.ChunkOverlap {
				tail := current.String()
				tail = tail[len(tail)-c.config.ChunkOverlap:]
				current.Reset()
				current.WriteString(tail)
				pageStart = pageEnd
			} else {
				current.Reset()
			}
		}

		if current.Len() == 0 {
			pageStart = s.page
		}
		pageEnd = s.page

		current.WriteString(s.text)
		current.WriteString(" ")
	}

	flush()
	return chunks
}

func splitIntoSentences(text string) []string {
	sentenceEnders := []string{". ", "! ", "? "}
	var sentences []string

	current := strings.Builder{}
	for i := 0; i < len(text); i++ {
		current.WriteByte(text[i])

		for _, ender := range sentenceEnders {
			if strings.HasSuffix(current.String(), ender) {
				sentences = append(sentences, strings.TrimSpace(current.String()))
				current.Reset()
				break
			}
		}
	}

	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}
	return sentences
}
