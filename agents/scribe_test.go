package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

const extractionJSON = `{
	"chief_complaint": "chest pain",
	"clinical_entities": [{"type": "symptom", "name": "chest pain", "value": "present", "unit": "", "status": "active"}],
	"soap_note": {"subjective": "s", "objective": "o", "assessment": "NSTEMI", "plan": "p"},
	"proposed_treatments": ["aspirin", "heparin"],
	"urgency_indicators": ["elevated troponin"]
}`

func TestScribeProcessText(t *testing.T) {
	client := &mockLLMClient{responses: []string{extractionJSON}}
	scribe := NewScribe(&mockTranscriber{}, client, "m")

	result := scribe.Process(context.Background(), nil, "Patient has chest pain.")

	assert.Empty(t, result.Err)
	assert.Equal(t, "Patient has chest pain.", result.RawTranscript)
	assert.Equal(t, "chest pain", result.ChiefComplaint)
	assert.Equal(t, "NSTEMI", result.SOAPNote.Assessment)
	assert.Equal(t, []string{"aspirin", "heparin"}, result.ProposedTreatments)
	assert.Len(t, result.ClinicalEntities, 1)
}

func TestScribeProcessAudio(t *testing.T) {
	transcriber := &mockTranscriber{transcript: "transcribed dictation"}
	client := &mockLLMClient{responses: []string{extractionJSON}}
	scribe := NewScribe(transcriber, client, "m")

	result := scribe.Process(context.Background(), []byte{0x52, 0x49}, "")

	assert.Empty(t, result.Err)
	assert.Equal(t, 1, transcriber.calls)
	assert.Equal(t, "transcribed dictation", result.RawTranscript)
}

func TestScribeProcessAudioWinsOverText(t *testing.T) {
	transcriber := &mockTranscriber{transcript: "from audio"}
	client := &mockLLMClient{responses: []string{extractionJSON}}
	scribe := NewScribe(transcriber, client, "m")

	result := scribe.Process(context.Background(), []byte{0x01}, "from text")

	assert.Equal(t, "from audio", result.RawTranscript)
}

func TestScribeProcessNoInput(t *testing.T) {
	transcriber := &mockTranscriber{}
	client := &mockLLMClient{}
	scribe := NewScribe(transcriber, client, "m")

	result := scribe.Process(context.Background(), nil, "")

	assert.Equal(t, "no audio or text provided", result.Err)
	assert.Equal(t, 0, transcriber.calls)
	assert.NotNil(t, result.ClinicalEntities)
	assert.NotNil(t, result.ProposedTreatments)
}

func TestScribeProcessTranscriptionFailure(t *testing.T) {
	transcriber := &mockTranscriber{err: errors.New("service down")}
	client := &mockLLMClient{}
	scribe := NewScribe(transcriber, client, "m")

	result := scribe.Process(context.Background(), []byte{0x01}, "")

	assert.Contains(t, result.Err, "transcription failed")
	assert.Empty(t, client.prompts)
}

func TestScribeProcessExtractionFailure(t *testing.T) {
	client := &mockLLMClient{err: errors.New("boom")}
	scribe := NewScribe(&mockTranscriber{}, client, "m")

	result := scribe.Process(context.Background(), nil, "some text")

	assert.Contains(t, result.Err, "clinical extraction failed")
	assert.Equal(t, "some text", result.RawTranscript)
}

func TestScribeProcessMalformedExtractionDefaults(t *testing.T) {
	client := &mockLLMClient{responses: []string{"not json"}}
	scribe := NewScribe(&mockTranscriber{}, client, "m")

	result := scribe.Process(context.Background(), nil, "some text")

	assert.Empty(t, result.Err)
	assert.Empty(t, result.ChiefComplaint)
	assert.NotNil(t, result.ClinicalEntities)
	assert.Empty(t, result.ClinicalEntities)
}
