package domain

import "context"

type CompletionMessage struct {
	Role    Role
	Content string
}

// DecodingParams are forwarded to the backend unchanged.
type DecodingParams struct {
	MaxTokens        int
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

var DefaultDecodingParams = DecodingParams{
	MaxTokens:   1000,
	Temperature: 0.7,
	TopP:        0.95,
}

type CompletionRequest struct {
	Week     string
	System   string
	Messages []CompletionMessage
	Params   DecodingParams
}

type Completer interface {
	// Complete returns the raw assistant text for the conversation.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Name identifies the backend in logs and health output.
	Name() string
}
