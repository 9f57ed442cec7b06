package factory

import (
	"fmt"

	"whatsapp-sales-be/pkg/llm"
	"whatsapp-sales-be/pkg/llm/ollama"
	"whatsapp-sales-be/pkg/llm/openai"
)

// NewLLMProvider builds the configured model backend.
func NewLLMProvider(providerType, modelName, apiKey, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return openai.NewProvider(apiKey, modelName, baseURL), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
