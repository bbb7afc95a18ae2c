package models

// Document is one source file from the legal corpus together with the
// chunks extracted from it at ingestion time. Loaded read-only.
type Document struct {
	Source string  `json:"source"`
	Chunks []Chunk `json:"chunks"`
}

// Chunk is a contiguous span of text from a document, with the page range
// it was extracted from and its embedding vector.
type Chunk struct {
	Source    string    `json:"source,omitempty"`
	Text      string    `json:"text"`
	PageStart int       `json:"page_start"`
	PageEnd   int       `json:"page_end"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// SearchResult pairs a chunk with its similarity score for one query.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// Answer is what the engine returns for one turn. DocumentRequest holds the
// name of a document the model asked permission to consult, or is empty.
type Answer struct {
	Text            string         `json:"answer"`
	Sources         []SearchResult `json:"sources"`
	DocumentRequest string         `json:"document_request,omitempty"`
}
