package services

import (
	"context"
	"fmt"
	"log"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/extractor"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

// HistoryLimit caps how many conversation messages are forwarded.
const HistoryLimit = 10

type ChatService struct {
	completer domain.Completer
	timezone  string
}

func NewChatService(completer domain.Completer, timezone string) *ChatService {
	if timezone == "" {
		timezone = week.DefaultTimezone
	}
	return &ChatService{
		completer: completer,
		timezone:  timezone,
	}
}

func (s *ChatService) Backend() string {
	return s.completer.Name()
}

// SendMessage forwards the conversation to the completion backend and turns
// the reply into an assistant message carrying any workout items found in it.
func (s *ChatService) SendMessage(ctx context.Context, messages []domain.ChatMessage, weekID string) (*domain.ChatMessage, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: messages array is required", domain.ErrInvalidMessage)
	}
	if messages[len(messages)-1].Role != domain.RoleUser {
		return nil, fmt.Errorf("%w: last message must be from user", domain.ErrInvalidMessage)
	}

	r, err := week.Dates(weekID)
	if err != nil {
		return nil, err
	}

	req := domain.CompletionRequest{
		Week:     weekID,
		System:   SystemPrompt(r, weekID, s.timezone),
		Messages: recent(messages, HistoryLimit),
		Params:   domain.DefaultDecodingParams,
	}

	content, err := s.completer.Complete(ctx, req)
	if err != nil {
		log.Printf("[CHAT] %s completion failed for week %s: %v", s.completer.Name(), weekID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}

	items := extractor.Extract(content, weekID)
	log.Printf("[CHAT] %s replied for week %s (%d items)", s.completer.Name(), weekID, len(items))

	return domain.NewAssistantMessage(content, weekID, items), nil
}

func recent(messages []domain.ChatMessage, limit int) []domain.CompletionMessage {
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	out := make([]domain.CompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, domain.CompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
