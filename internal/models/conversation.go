package models

import "fmt"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// RequestMarker is the phrase a hidden system turn must contain so the
// engine recognizes it as a document-request resolution.
const RequestMarker = "permintaan dokumen"

// ConversationTurn is a single message in a conversation. Turns are
// append-only; Position is assigned at append time and never changes.
type ConversationTurn struct {
	Role     Role   `json:"role"`
	Content  string `json:"content"`
	Position int    `json:"position"`
	Hidden   bool   `json:"hidden,omitempty"`
}

// PendingDocumentRequest is the single outstanding request for permission
// to consult a named document. At most one exists per conversation.
type PendingDocumentRequest struct {
	Document string `json:"document"`
}

// Conversation is the caller-owned turn history plus the pending
// document-request slot. The engine only reads it; the caller appends the
// query and answer after each turn.
type Conversation struct {
	Turns   []ConversationTurn      `json:"turns"`
	Pending *PendingDocumentRequest `json:"pending,omitempty"`
}

// Append adds a visible turn with the next position index.
func (c *Conversation) Append(role Role, content string) ConversationTurn {
	turn := ConversationTurn{
		Role:     role,
		Content:  content,
		Position: len(c.Turns),
	}
	c.Turns = append(c.Turns, turn)
	return turn
}

// AppendHidden adds a system turn that is kept out of the display but still
// feeds the model context.
func (c *Conversation) AppendHidden(content string) ConversationTurn {
	turn := ConversationTurn{
		Role:     RoleSystem,
		Content:  content,
		Position: len(c.Turns),
		Hidden:   true,
	}
	c.Turns = append(c.Turns, turn)
	return turn
}

// SetPending records a new outstanding document request. A request that
// arrives while another is pending is ignored; the caller is expected to
// resolve the current one first.
func (c *Conversation) SetPending(document string) {
	if document == "" || c.Pending != nil {
		return
	}
	c.Pending = &PendingDocumentRequest{Document: document}
}

// ResolvePending clears the pending slot and appends a hidden system turn
// recording the outcome, which the next turn picks up as grounding context.
func (c *Conversation) ResolvePending(approved bool) {
	if c.Pending == nil {
		return
	}
	outcome := "ditolak"
	if approved {
		outcome = "disetujui"
	}
	c.AppendHidden(fmt.Sprintf("Sistem: %s '%s' %s oleh pengguna.",
		RequestMarker, c.Pending.Document, outcome))
	c.Pending = nil
}
