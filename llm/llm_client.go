package llm

import (
	"context"
)

// CompletionClient is the external text-generation collaborator used by the
// coder, intake and rebuttal stages.
type CompletionClient interface {
	GenerateInference(
		ctx context.Context,
		messages []Message,
		callback func(chunk string) error,
		opts ...LLMOption,
	) error

	GetModel() string
}

// DocumentAnalyzer is the document-understanding collaborator. The document
// travels base64-encoded alongside an extraction instruction.
type DocumentAnalyzer interface {
	AnalyzeDocument(
		ctx context.Context,
		documentB64 string,
		instruction string,
		callback func(chunk string) error,
		opts ...LLMOption,
	) error
}

// Transcriber converts dictation audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type LLMSettings struct {
	model       string  // model name
	temperature float64 // randomness (0.0 to 1.0)
	maxTokens   int     // maximum tokens to generate
	system      string  // system prompt
}

type LLMOption func(*LLMSettings)

// Common options for all LLM providers
func WithModel(model string) LLMOption {
	return func(s *LLMSettings) { s.model = model }
}

func WithTemperature(temp float64) LLMOption {
	return func(s *LLMSettings) { s.temperature = temp }
}

func WithMaxTokens(tokens int) LLMOption {
	return func(s *LLMSettings) { s.maxTokens = tokens }
}

func WithSystemPrompt(prompt string) LLMOption {
	return func(s *LLMSettings) { s.system = prompt }
}

type Message struct {
	Role    string `json:"role"`    // "user", "assistant", "system"
	Content string `json:"content"` // the message content
}
