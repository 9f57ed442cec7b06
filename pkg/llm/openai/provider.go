package openai

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"whatsapp-sales-be/pkg/llm"
)

// Provider implements llm.LLMProvider on top of the OpenAI chat completion
// API. BaseURL can point at any OpenAI-compatible endpoint.
type Provider struct {
	client *openai.Client
	model  string
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(apiKey, modelName, baseURL string) *Provider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(config),
		model:  modelName,
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		role := msg.Role
		if role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	temperature := float32(options.Temperature)
	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: &temperature,
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
