package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidMessage   = errors.New("invalid message format")
	ErrCompletionFailed = errors.New("completion backend failed")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type MessageType string

const (
	MessageTypePlan    MessageType = "plan"
	MessageTypeCheckin MessageType = "checkin"
	MessageTypeSummary MessageType = "summary"
)

type MessageMetadata struct {
	Type        MessageType   `json:"type,omitempty"`
	Week        string        `json:"week,omitempty"`
	ParsedItems []WorkoutItem `json:"parsedItems,omitempty"`
}

type ChatMessage struct {
	ID        string           `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Timestamp string           `json:"timestamp"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

func NewAssistantMessage(content, week string, items []WorkoutItem) *ChatMessage {
	return &ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Metadata: &MessageMetadata{
			Type:        MessageTypePlan,
			Week:        week,
			ParsedItems: items,
		},
	}
}
