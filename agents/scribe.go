package agents

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.uber.org/zap"

	"github.com/sentinel-health/sentinel-core/llm"
	"github.com/sentinel-health/sentinel-core/prompts"
	"github.com/sentinel-health/sentinel-core/schema"
)

// Scribe is stage 1: transcribes dictation audio (or accepts raw text) and
// extracts structured clinical data from it.
type Scribe struct {
	transcriber llm.Transcriber
	client      llm.CompletionClient
	model       string
}

func NewScribe(transcriber llm.Transcriber, client llm.CompletionClient, model string) *Scribe {
	return &Scribe{
		transcriber: transcriber,
		client:      client,
		model:       model,
	}
}

// ScribeResult is the fragment returned to the engine. Every field is
// always present; Err carries the diagnostic when the stage could not
// produce real output.
type ScribeResult struct {
	RawTranscript      string
	SOAPNote           schema.SOAPNote
	ClinicalEntities   []schema.ClinicalEntity
	ProposedTreatments []string
	UrgencyIndicators  []string
	ChiefComplaint     string
	Err                string
}

func newScribeResult() *ScribeResult {
	return &ScribeResult{
		ClinicalEntities:   []schema.ClinicalEntity{},
		ProposedTreatments: []string{},
		UrgencyIndicators:  []string{},
	}
}

// Process accepts exactly one of audio or dictation text. It never returns
// an error: input-shape problems and collaborator failures both surface as
// a defaulted fragment with Err set.
func (s *Scribe) Process(ctx context.Context, audio []byte, dictation string) *ScribeResult {
	result := newScribeResult()

	transcript := dictation
	switch {
	case len(audio) > 0:
		text, err := s.transcriber.Transcribe(ctx, audio, "dictation.wav")
		if err != nil {
			logger.Error("transcription failed", zap.Error(err))
			result.Err = "transcription failed: " + err.Error()
			return result
		}
		transcript = text
	case dictation != "":
		// use the supplied text directly
	default:
		result.Err = "no audio or text provided"
		return result
	}

	result.RawTranscript = transcript

	extraction, err := async.Await(prompts.ExtractClinical(ctx, s.client, s.model, transcript))
	if err != nil {
		result.Err = "clinical extraction failed: " + err.Error()
		return result
	}

	result.SOAPNote = extraction.SOAPNote
	result.ClinicalEntities = extraction.ClinicalEntities
	result.ProposedTreatments = extraction.ProposedTreatments
	result.UrgencyIndicators = extraction.UrgencyIndicators
	result.ChiefComplaint = extraction.ChiefComplaint

	logger.Info("scribe processing complete",
		zap.String("model", s.model),
		zap.Int("entities", len(result.ClinicalEntities)))

	return result
}
