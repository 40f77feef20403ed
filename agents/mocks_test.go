package agents

import (
	"context"

	"github.com/sentinel-health/sentinel-core/llm"
)

type mockLLMClient struct {
	responses []string
	callCount int
	err       error
	model     string
	prompts   []string
}

func (m *mockLLMClient) GetModel() string { return m.model }

func (m *mockLLMClient) GenerateInference(ctx context.Context, messages []llm.Message, callback func(string) error, opts ...llm.LLMOption) error {
	if len(messages) > 0 {
		m.prompts = append(m.prompts, messages[len(messages)-1].Content)
	}
	if m.err != nil {
		return m.err
	}
	if m.callCount < len(m.responses) {
		response := m.responses[m.callCount]
		m.callCount++
		return callback(response)
	}
	return callback("")
}

type mockTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.transcript, nil
}

// mockAnalyzer fails the first len(errs) attempts with the listed errors,
// then succeeds with response.
type mockAnalyzer struct {
	response string
	errs     []error
	calls    int
}

func (m *mockAnalyzer) AnalyzeDocument(ctx context.Context, documentB64, instruction string, callback func(string) error, opts ...llm.LLMOption) error {
	attempt := m.calls
	m.calls++
	if attempt < len(m.errs) && m.errs[attempt] != nil {
		return m.errs[attempt]
	}
	return callback(m.response)
}

type mockRetriever struct {
	context string
	err     error
	queries []string
	payers  []string
}

func (m *mockRetriever) Query(ctx context.Context, query string, topK int, payer string) (string, error) {
	m.queries = append(m.queries, query)
	m.payers = append(m.payers, payer)
	if m.err != nil {
		return "", m.err
	}
	return m.context, nil
}
