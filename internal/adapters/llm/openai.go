package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"

	"github.com/comitanigiacomo/musule-planner/internal/config"
	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
)

const defaultOpenAIModel = "gpt-4o-mini"

var errEmptyReply = errors.New("backend returned no choices")

// OpenAICompleter talks to the chat completions API, either on Azure OpenAI
// (where the model is the deployment name) or on the public endpoint.
type OpenAICompleter struct {
	client openai.Client
	model  openai.ChatModel
	name   string
}

func NewAzureCompleter(cfg config.LLMConfig, extra ...option.RequestOption) (*OpenAICompleter, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, errors.New("azure openai credentials not configured")
	}

	opts := append([]option.RequestOption{
		azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		azure.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}, extra...)

	return &OpenAICompleter{
		client: openai.NewClient(opts...),
		model:  openai.ChatModel(cfg.Deployment),
		name:   "azure:" + cfg.Deployment,
	}, nil
}

func NewOpenAICompleter(cfg config.LLMConfig, extra ...option.RequestOption) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key not configured")
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	opts = append(opts, extra...)

	return &OpenAICompleter{
		client: openai.NewClient(opts...),
		model:  openai.ChatModel(model),
		name:   "openai:" + model,
	}, nil
}

func (c *OpenAICompleter) Name() string {
	return c.name
}

func (c *OpenAICompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	messages = append(messages, openai.SystemMessage(req.System))

	for _, m := range req.Messages {
		switch m.Role {
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:            c.model,
		Messages:         messages,
		MaxTokens:        openai.Int(int64(req.Params.MaxTokens)),
		Temperature:      openai.Float(req.Params.Temperature),
		TopP:             openai.Float(req.Params.TopP),
		FrequencyPenalty: openai.Float(req.Params.FrequencyPenalty),
		PresencePenalty:  openai.Float(req.Params.PresencePenalty),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", c.name, errEmptyReply)
	}

	return resp.Choices[0].Message.Content, nil
}
