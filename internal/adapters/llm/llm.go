// Package llm provides the completion backends behind domain.Completer.
package llm

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/musule-planner/internal/config"
	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
)

// New selects the backend named by cfg.Provider. Selection happens once at
// startup; a misconfigured live backend is an error rather than a silent
// switch to canned replies.
func New(ctx context.Context, cfg config.LLMConfig) (domain.Completer, error) {
	var (
		completer domain.Completer
		err       error
	)

	switch cfg.Provider {
	case config.ProviderAzure:
		completer, err = NewAzureCompleter(cfg)
	case config.ProviderOpenAI:
		completer, err = NewOpenAICompleter(cfg)
	case config.ProviderGemini:
		completer, err = NewGeminiCompleter(ctx, cfg)
	case config.ProviderCanned, "":
		completer = NewCannedCompleter()
	default:
		err = fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	if err != nil {
		return nil, err
	}
	return completer, nil
}
