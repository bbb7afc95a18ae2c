// Package engine sequences retrieval, prompt construction, generation, and
// response parsing for one conversation turn. Every failure below the engine
// is converted into a user-facing answer; nothing above it sees a fault.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanyahukum/tanya/internal/models"
	"github.com/tanyahukum/tanya/internal/types"
	"github.com/tanyahukum/tanya/pkg/prompt"
)

// NoInformationAnswer is returned when retrieval finds nothing and no
// document catalog is available. The backend is not invoked in that case.
const NoInformationAnswer = "Saya tidak dapat menemukan informasi yang relevan untuk menjawab pertanyaan Anda. Silakan coba dengan pertanyaan yang berbeda atau pastikan dokumen telah diproses."

// maxRecentRequests caps how many prior request resolutions are replayed
// into the prompt.
const maxRecentRequests = 3

type Engine struct {
	retriever types.Retriever
	generator types.Generator
}

func New(retriever types.Retriever, generator types.Generator) *Engine {
	return &Engine{
		retriever: retriever,
		generator: generator,
	}
}

// Answer runs one turn. The conversation is read-only here: the caller owns
// appending the query and this answer as new turns, and owns the pending
// document-request slot.
func (e *Engine) Answer(ctx context.Context, query string, conversation *models.Conversation, k int, availableDocuments []string) models.Answer {
	var history []models.ConversationTurn
	if conversation != nil {
		history = conversation.Turns
	}
	recentRequests := recentDocumentRequests(history)

	results, err := e.retriever.Retrieve(ctx, query, k)
	if err != nil {
		return degraded(err)
	}

	if len(results) == 0 {
		if len(availableDocuments) == 0 {
			return models.Answer{
				Text:    NoInformationAnswer,
				Sources: []models.SearchResult{},
			}
		}
		return e.suggestDocument(ctx, query, availableDocuments)
	}

	contextBlock := prompt.BuildContext(results, history)
	fullPrompt := prompt.BuildPrompt(query, contextBlock, availableDocuments, recentRequests)

	raw, err := e.generator.Generate(ctx, fullPrompt)
	if err != nil {
		return degraded(err)
	}

	parsed := ParseResponse(raw)
	return models.Answer{
		Text:            parsed.Answer,
		Sources:         results,
		DocumentRequest: parsed.DocumentRequest,
	}
}

// suggestDocument handles the no-results case when the catalog is known:
// the model names the document most likely to hold the answer and may ask
// permission to consult it.
func (e *Engine) suggestDocument(ctx context.Context, query string, availableDocuments []string) models.Answer {
	raw, err := e.generator.Generate(ctx, prompt.BuildFallbackPrompt(query, availableDocuments))
	if err != nil {
		return degraded(err)
	}

	parsed := ParseResponse(raw)
	return models.Answer{
		Text:            parsed.Answer,
		Sources:         []models.SearchResult{},
		DocumentRequest: parsed.DocumentRequest,
	}
}

// recentDocumentRequests collects the most recent system turns recording a
// document-request resolution, newest first.
func recentDocumentRequests(history []models.ConversationTurn) []string {
	var requests []string
	for i := len(history) - 1; i >= 0 && len(requests) < maxRecentRequests; i-- {
		turn := history[i]
		if turn.Role == models.RoleSystem && strings.Contains(turn.Content, models.RequestMarker) {
			requests = append(requests, turn.Content)
		}
	}
	return requests
}

func degraded(err error) models.Answer {
	return models.Answer{
		Text:    fmt.Sprintf("Error generating response: %v", err),
		Sources: []models.SearchResult{},
	}
}
