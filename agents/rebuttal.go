package agents

import (
	"context"
	"encoding/json"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.uber.org/zap"

	"github.com/sentinel-health/sentinel-core/llm"
	"github.com/sentinel-health/sentinel-core/prompts"
	"github.com/sentinel-health/sentinel-core/schema"
)

const (
	rebuttalTopK        = 5
	rebuttalQueryPrefix = "medical necessity criteria "

	// policy context passed to the short talking-points completion is
	// truncated harder than the letter's.
	talkingPointsContextLimit = 1000
)

// Rebuttal is stage 4: generates the appeal letter and the peer-to-peer
// talking points for a detected denial.
type Rebuttal struct {
	client    llm.CompletionClient
	model     string
	retriever PolicyRetriever
}

func NewRebuttal(client llm.CompletionClient, model string, retriever PolicyRetriever) *Rebuttal {
	return &Rebuttal{
		client:    client,
		model:     model,
		retriever: retriever,
	}
}

// RebuttalResult is the fragment returned to the engine.
type RebuttalResult struct {
	Letter           string
	TalkingPoints    []string
	PolicyReferences string
	ConfidenceScore  float64
	Err              string
}

func newRebuttalResult() *RebuttalResult {
	return &RebuttalResult{
		TalkingPoints: []string{},
	}
}

// Process issues one retrieval keyed on the denial reason, then two
// independent completions: the long-form letter and the bounded talking
// points. A malformed talking-points response degrades to a single raw
// entry; it never fails the stage.
func (r *Rebuttal) Process(ctx context.Context, denialReason, patientName, clinicalContext string, extraction schema.DenialExtraction) *RebuttalResult {
	result := newRebuttalResult()

	if patientName == "" {
		patientName = "Patient"
	}

	policyContext, err := r.retriever.Query(ctx, rebuttalQueryPrefix+denialReason, rebuttalTopK, "")
	if err != nil {
		logger.Error("policy retrieval failed", zap.Error(err))
		result.Err = "policy retrieval failed: " + err.Error()
		return result
	}

	missingCriteriaJSON, _ := json.MarshalIndent(extraction.KeyMissingCriteria, "", "  ")

	letter, err := async.Await(prompts.AppealLetter(ctx, r.client, r.model, prompts.AppealData{
		DenialReason:        denialReason,
		PatientName:         patientName,
		ClinicalContext:     clinicalContext,
		PolicyContext:       policyContext,
		MissingCriteriaJSON: string(missingCriteriaJSON),
	}))
	if err != nil {
		result.Err = "appeal letter generation failed: " + err.Error()
		return result
	}
	result.Letter = letter

	points, err := async.Await(prompts.TalkingPoints(ctx, r.client, r.model,
		denialReason, truncate(policyContext, talkingPointsContextLimit)))
	if err != nil {
		// keep the letter; talking points alone failed
		result.Err = "talking points generation failed: " + err.Error()
		return result
	}
	result.TalkingPoints = points
	result.PolicyReferences = truncate(policyContext, 500)
	result.ConfidenceScore = 0.85

	logger.Info("rebuttal generated",
		zap.Int("letterChars", len(result.Letter)),
		zap.Int("talkingPoints", len(result.TalkingPoints)))

	return result
}
