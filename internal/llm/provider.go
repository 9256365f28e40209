package llm

import (
	"fmt"
	"os"
	"strings"
)

// New builds a Client from the config.
//
// An explicit provider wins. With no provider configured, the
// environment decides: OPENAI_API_KEY selects openai, then
// ANTHROPIC_API_KEY selects anthropic. Ollama never auto-detects; a
// local model server is always an explicit choice.
func New(cfg Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = detectProvider()
	}

	switch provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		return newAnthropicClient(cfg)
	case ProviderOllama:
		return newOllamaClient(cfg)
	case "":
		return nil, fmt.Errorf("no llm provider configured: set llm.provider or export OPENAI_API_KEY / ANTHROPIC_API_KEY")
	default:
		return nil, fmt.Errorf("unknown llm provider %q (want openai, anthropic or ollama)", cfg.Provider)
	}
}

func detectProvider() string {
	if os.Getenv("OPENAI_API_KEY") != "" {
		return ProviderOpenAI
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return ProviderAnthropic
	}
	return ""
}
