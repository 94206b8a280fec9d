// ABOUTME: ConversationTurn represents one side of a chat exchange
// ABOUTME: Turns are owned by the caller; the core stays stateless per query
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is a single chat message with its metadata. Sources
// lists the IDs of indexed entries whose text backed an assistant answer.
type ConversationTurn struct {
	TurnID    string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sources   []string  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAssistantTurn creates an assistant turn with a fresh ID and timestamp.
func NewAssistantTurn(content string, sources []string) ConversationTurn {
	return ConversationTurn{
		TurnID:    generateTurnID(),
		Role:      RoleAssistant,
		Content:   content,
		Sources:   sources,
		Timestamp: time.Now().UTC(),
	}
}

// generateTurnID generates a unique turn identifier
func generateTurnID() string {
	return fmt.Sprintf("turn_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
