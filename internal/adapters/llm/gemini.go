package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/comitanigiacomo/musule-planner/internal/config"
	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
)

const defaultGeminiModel = "gemini-2.5-flash"

type GeminiCompleter struct {
	client *genai.Client
	model  string
}

func NewGeminiCompleter(ctx context.Context, cfg config.LLMConfig) (*GeminiCompleter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key not configured")
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiCompleter{client: client, model: model}, nil
}

func (c *GeminiCompleter) Name() string {
	return "gemini:" + c.model
}

func (c *GeminiCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleModel),
		MaxOutputTokens:   int32(req.Params.MaxTokens),
		Temperature:       genai.Ptr(float32(req.Params.Temperature)),
		TopP:              genai.Ptr(float32(req.Params.TopP)),
	}
	// Zero penalties stay unset: some models reject the fields.
	if req.Params.FrequencyPenalty != 0 {
		genCfg.FrequencyPenalty = genai.Ptr(float32(req.Params.FrequencyPenalty))
	}
	if req.Params.PresencePenalty != 0 {
		genCfg.PresencePenalty = genai.Ptr(float32(req.Params.PresencePenalty))
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.Name(), err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%s: %w", c.Name(), errEmptyReply)
	}
	return text, nil
}
