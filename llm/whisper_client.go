package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
)

// WhisperClient implements Transcriber against the OpenAI audio API.
type WhisperClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func NewWhisperClient() (*WhisperClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	return &WhisperClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		url:        "https://api.openai.com/v1/audio/transcriptions",
		model:      "whisper-1",
	}, nil
}

func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if filename == "" {
		filename = "dictation.wav"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("error building multipart form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("error writing audio payload: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("error writing model field: %w", err)
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("error writing response_format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("error finalizing multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, &buf)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, string(body))
	}

	return strings.TrimSpace(string(body)), nil
}
