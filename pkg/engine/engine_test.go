package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanyahukum/tanya/internal/models"
	"github.com/tanyahukum/tanya/pkg/engine"
)

type stubRetriever struct {
	results []models.SearchResult
	err     error
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	return s.results, s.err
}

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func someResults() []models.SearchResult {
	return []models.SearchResult{
		{
			Chunk: models.Chunk{
				Source:    "UU-13-2003.pdf",
				Text:      "Setiap pekerja berhak memperoleh perlakuan yang sama.",
				PageStart: 5,
				PageEnd:   6,
			},
			Score: 0.91,
		},
	}
}

func TestAnswerWithResults(t *testing.T) {
	generator := &stubGenerator{response: "Jawaban berdasarkan dokumen."}
	eng := engine.New(&stubRetriever{results: someResults()}, generator)

	answer := eng.Answer(context.Background(), "Apa hak pekerja?", &models.Conversation{}, 3, []string{"UU-13-2003.pdf"})

	assert.Equal(t, "Jawaban berdasarkan dokumen.", answer.Text)
	assert.Equal(t, someResults(), answer.Sources)
	assert.Empty(t, answer.DocumentRequest)

	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "Setiap pekerja berhak")
	assert.Contains(t, generator.prompts[0], "Apa hak pekerja?")
	assert.Contains(t, generator.prompts[0], "UU-13-2003.pdf")
}

func TestAnswerExtractsDocumentRequest(t *testing.T) {
	generator := &stubGenerator{response: "Perlu dokumen lain. [REQUEST_DOCUMENT:UU-40-2007.pdf]"}
	eng := engine.New(&stubRetriever{results: someResults()}, generator)

	answer := eng.Answer(context.Background(), "Bagaimana dengan PT?", &models.Conversation{}, 3, []string{"UU-40-2007.pdf"})

	assert.Equal(t, "Perlu dokumen lain.", answer.Text)
	assert.Equal(t, "UU-40-2007.pdf", answer.DocumentRequest)
}

func TestAnswerNoResultsNoCatalog(t *testing.T) {
	generator := &stubGenerator{response: "should never be used"}
	eng := engine.New(&stubRetriever{}, generator)

	answer := eng.Answer(context.Background(), "pertanyaan", &models.Conversation{}, 3, nil)

	assert.Equal(t, engine.NoInformationAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Empty(t, answer.DocumentRequest)
	// The backend must not be invoked for a source-free generation
	assert.Empty(t, generator.prompts)
}

func TestAnswerNoResultsWithCatalog(t *testing.T) {
	generator := &stubGenerator{
		response: "Tidak ada yang relevan; coba UU-1.pdf. [REQUEST_DOCUMENT:UU-1.pdf]",
	}
	eng := engine.New(&stubRetriever{}, generator)

	answer := eng.Answer(context.Background(), "pertanyaan", &models.Conversation{}, 3,
		[]string{"UU-1.pdf", "UU-2.pdf"})

	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "UU-1.pdf")
	assert.Contains(t, generator.prompts[0], "UU-2.pdf")

	assert.Equal(t, "UU-1.pdf", answer.DocumentRequest)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, "Tidak ada yang relevan; coba UU-1.pdf.", answer.Text)
}

func TestAnswerRetrievalFailure(t *testing.T) {
	eng := engine.New(&stubRetriever{err: errors.New("embedding backend down")},
		&stubGenerator{response: "unused"})

	answer := eng.Answer(context.Background(), "pertanyaan", &models.Conversation{}, 3, nil)

	assert.NotEmpty(t, answer.Text)
	assert.Contains(t, answer.Text, "embedding backend down")
	assert.Empty(t, answer.Sources)
}

func TestAnswerGenerationFailure(t *testing.T) {
	eng := engine.New(&stubRetriever{results: someResults()},
		&stubGenerator{err: errors.New("model unavailable")})

	answer := eng.Answer(context.Background(), "pertanyaan", &models.Conversation{}, 3, nil)

	assert.NotEmpty(t, answer.Text)
	assert.Contains(t, answer.Text, "model unavailable")
	assert.Empty(t, answer.Sources)
}

func TestAnswerGroundsOnResolvedRequests(t *testing.T) {
	conversation := &models.Conversation{}
	conversation.Append(models.RoleUser, "Bagaimana pendirian PT?")
	conversation.Append(models.RoleAssistant, "Perlu dokumen lain.")
	conversation.SetPending("UU-40-2007.pdf")
	conversation.ResolvePending(true)

	generator := &stubGenerator{response: "Jawaban."}
	eng := engine.New(&stubRetriever{results: someResults()}, generator)

	eng.Answer(context.Background(), "Lanjutkan.", conversation, 3, []string{"UU-40-2007.pdf"})

	require.Len(t, generator.prompts, 1)
	resolution := conversation.Turns[len(conversation.Turns)-1]
	assert.Contains(t, generator.prompts[0], resolution.Content)
}

func TestAnswerNilConversation(t *testing.T) {
	eng := engine.New(&stubRetriever{results: someResults()}, &stubGenerator{response: "ok"})

	answer := eng.Answer(context.Background(), "pertanyaan", nil, 3, nil)
	assert.Equal(t, "ok", answer.Text)
}
