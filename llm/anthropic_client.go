package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// AnthropicClient implements CompletionClient and DocumentAnalyzer against
// the Anthropic messages API.
type AnthropicClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func NewAnthropicClient(model string) (*AnthropicClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
	}

	return &AnthropicClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		url:        "https://api.anthropic.com/v1/messages",
		model:      model,
	}, nil
}

func (c *AnthropicClient) GetModel() string {
	return c.model
}

func (c *AnthropicClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := LLMSettings{
		model:       c.model,
		temperature: 0.7,
		maxTokens:   4096,
	}

	for _, opt := range opts {
		opt(&settings)
	}

	request := anthropicRequest{
		Model:       settings.model,
		MaxTokens:   settings.maxTokens,
		Temperature: settings.temperature,
		System:      settings.system,
	}
	for _, m := range messages {
		request.Messages = append(request.Messages, anthropicMessage{
			Role:    m.Role,
			Content: []anthropicContent{{Type: "text", Text: m.Content}},
		})
	}

	return c.send(ctx, &request, callback)
}

// AnalyzeDocument sends a base64-encoded PDF as a document content block
// together with the extraction instruction.
func (c *AnthropicClient) AnalyzeDocument(ctx context.Context, documentB64 string, instruction string, callback func(chunk string) error, opts ...LLMOption) error {
	settings := LLMSettings{
		model:       c.model,
		temperature: 0.2,
		maxTokens:   1500,
	}

	for _, opt := range opts {
		opt(&settings)
	}

	request := anthropicRequest{
		Model:       settings.model,
		MaxTokens:   settings.maxTokens,
		Temperature: settings.temperature,
		System:      settings.system,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []anthropicContent{
					{
						Type: "document",
						Source: &anthropicSource{
							Type:      "base64",
							MediaType: "application/pdf",
							Data:      documentB64,
						},
					},
					{Type: "text", Text: instruction},
				},
			},
		},
	}

	return c.send(ctx, &request, callback)
}

func (c *AnthropicClient) send(ctx context.Context, request *anthropicRequest, callback func(chunk string) error) error {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp.StatusCode, string(body))
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}

	if len(response.Content) == 0 {
		return fmt.Errorf("no content in response")
	}

	return callback(response.Content[0].Text)
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// anthropicResponse represents the response from Anthropic API
type anthropicResponse struct {
	Content []responseContent `json:"content"`
	ID      string            `json:"id"`
	Model   string            `json:"model"`
	Role    string            `json:"role"`
	Type    string            `json:"type"`
}

type responseContent struct {
	Text string `json:"text"`
	Type string `json:"type"`
}
