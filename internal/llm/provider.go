package llm

import (
	"fmt"
	"net/http"

	"github.com/MrJamesThe3rd/tally/internal/classifier"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/llm/ollama"
	"github.com/MrJamesThe3rd/tally/internal/llm/openai"
)

// NewGenerator builds the text generator for the configured provider.
func NewGenerator(cfg *config.Config, httpClient *http.Client) (classifier.Generator, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOllama:
		return ollama.New(cfg.LLM.BaseURL, cfg.LLM.Model, httpClient), nil
	case config.ProviderOpenAI:
		return openai.New(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
