// Package server exposes the question-answering boundary over a WebSocket.
// Each connection owns its own conversation, so independent sessions share
// nothing but the immutable chunk store.
package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/tanyahukum/tanya/internal/models"
	"github.com/tanyahukum/tanya/internal/types"
	"github.com/tanyahukum/tanya/pkg/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

// Message is what the client sends: a question, or a resolution of the
// pending document request.
type Message struct {
	Type     string `json:"type"` // "query" or "resolve"
	Content  string `json:"content,omitempty"`
	Approved bool   `json:"approved,omitempty"`
}

// Response is one server reply.
type Response struct {
	Type            string                `json:"type"` // "answer", "resolved" or "error"
	Answer          string                `json:"answer,omitempty"`
	Sources         []models.SearchResult `json:"sources,omitempty"`
	DocumentRequest string                `json:"document_request,omitempty"`
	Error           string                `json:"error,omitempty"`
}

type Config struct {
	Addr       string
	NumResults int
}

type WSServer struct {
	config Config
	engine *engine.Engine
	store  types.ChunkStore
}

func New(config Config, eng *engine.Engine, store types.ChunkStore) *WSServer {
	if config.NumResults == 0 {
		config.NumResults = 3
	}
	return &WSServer{
		config: config,
		engine: eng,
		store:  store,
	}
}

// Handler returns the HTTP handler serving the chat WebSocket at /ws.
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *WSServer) Start() error {
	log.Printf("Listening on %s", s.config.Addr)
	return http.ListenAndServe(s.config.Addr, s.Handler())
}

func (s *WSServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	// One conversation per connection
	conversation := &models.Conversation{}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "query":
			s.handleQuery(r.Context(), conn, conversation, msg.Content)
		case "resolve":
			conversation.ResolvePending(msg.Approved)
			if err := conn.WriteJSON(Response{Type: "resolved"}); err != nil {
				return
			}
		default:
			if err := conn.WriteJSON(Response{Type: "error", Error: "unknown message type"}); err != nil {
				return
			}
		}
	}
}

func (s *WSServer) handleQuery(ctx context.Context, conn *websocket.Conn, conversation *models.Conversation, query string) {
	if query == "" {
		conn.WriteJSON(Response{Type: "error", Error: "empty query"})
		return
	}

	// While a request is pending, withhold the catalog so the model is not
	// solicited for another one.
	var catalog []string
	if conversation.Pending == nil {
		catalog = s.store.Documents()
	}

	conversation.Append(models.RoleUser, query)
	answer := s.engine.Answer(ctx, query, conversation, s.config.NumResults, catalog)
	conversation.Append(models.RoleAssistant, answer.Text)
	conversation.SetPending(answer.DocumentRequest)

	conn.WriteJSON(Response{
		Type:            "answer",
		Answer:          answer.Text,
		Sources:         answer.Sources,
		DocumentRequest: answer.DocumentRequest,
	})
}
