package ai

import (
	"context"
	"fmt"

	"finboard/config"

	"github.com/sashabaranov/go-openai"
)

// LLMClient is the completion surface the analyzer needs. Production talks
// to OpenRouter through the OpenAI-compatible API; tests swap in a stub.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// OpenRouterClient implements LLMClient against OpenRouter's OpenAI-shaped
// chat completion endpoint.
type OpenRouterClient struct {
	client *openai.Client
	model  string
}

func NewOpenRouterClient(cfg config.Config) *OpenRouterClient {
	clientConfig := openai.DefaultConfig(cfg.OpenRouterApiKey)
	clientConfig.BaseURL = cfg.OpenRouterBaseURL
	return &OpenRouterClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.OpenRouterModel,
	}
}

func (c *OpenRouterClient) Model() string {
	return c.model
}

// Complete sends a system+user prompt pair and returns the first choice.
func (c *OpenRouterClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from llm")
	}
	return resp.Choices[0].Message.Content, nil
}
