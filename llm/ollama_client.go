package llm

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
)

// OllamaClient implements CompletionClient against a local Ollama server.
// Used for development and air-gapped deployments where clinical text must
// not leave the host.
type OllamaClient struct {
	client *api.Client
	model  string
}

func NewOllamaClient(model string) (*OllamaClient, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("error creating ollama client: %w", err)
	}

	return &OllamaClient{
		client: client,
		model:  model,
	}, nil
}

func (c *OllamaClient) GetModel() string {
	return c.model
}

func (c *OllamaClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := LLMSettings{
		model:       c.model,
		temperature: 0.7,
		maxTokens:   4096,
	}

	for _, opt := range opts {
		opt(&settings)
	}

	chatMessages := make([]api.Message, 0, len(messages)+1)
	if settings.system != "" {
		chatMessages = append(chatMessages, api.Message{Role: "system", Content: settings.system})
	}
	for _, m := range messages {
		chatMessages = append(chatMessages, api.Message{Role: m.Role, Content: m.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    settings.model,
		Messages: chatMessages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": settings.temperature,
			"num_predict": settings.maxTokens,
		},
	}

	return c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		return callback(resp.Message.Content)
	})
}
