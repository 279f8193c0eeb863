package cli

import (
	"context"
	"strings"
	"time"

	"github.com/suPer8Hu/ai-assistant/internal/ai"
	"github.com/suPer8Hu/ai-assistant/internal/config"
)

// buildRegistry registers Ollama always and OpenRouter when an API key is set.
func buildRegistry(cfg config.Config) *ai.Registry {
	reg := ai.NewRegistry()
	timeout := time.Duration(cfg.OllamaTimeoutSeconds) * time.Second

	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, strings.TrimSpace(model), timeout), nil
	})
	reg.RegisterCatalog("ollama", ai.NewOllamaProvider(cfg.OllamaBaseURL, "", timeout))

	if cfg.OpenRouterAPIKey != "" {
		reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
			return ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey,
				strings.TrimSpace(model), cfg.OpenRouterSiteURL, cfg.OpenRouterAppName, timeout), nil
		})
		reg.RegisterCatalog("openrouter", ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey,
			"", cfg.OpenRouterSiteURL, cfg.OpenRouterAppName, timeout))
	}
	return reg
}
