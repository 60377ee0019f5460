// Package chat owns the conversation state: the ordered message history,
// the single in-flight assistant message, and the send flow that drives
// the decode pipeline and applies its deltas.
package chat

import (
	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the conversation. Content is mutable only for
// the single in-flight assistant message, and only by the decode flow
// that created it; every other message is immutable once superseded.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a message with a fresh identifier.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
	}
}

// Delta is an incremental fragment of text to append to an in-progress
// message. Deltas are ephemeral; consumers apply them immediately and in
// arrival order.
type Delta struct {
	MessageID string
	Text      string
}
