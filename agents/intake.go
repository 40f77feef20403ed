package agents

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/sentinel-health/sentinel-core/llm"
	"github.com/sentinel-health/sentinel-core/llmjson"
	"github.com/sentinel-health/sentinel-core/prompts"
	"github.com/sentinel-health/sentinel-core/schema"
)

// maxDocumentBytes caps uploads before base64 expansion pushes the request
// past the provider's document limit.
const maxDocumentBytes = 10 << 20 // 10 MB

// defaultAttemptTimeout bounds each model-fallback attempt.
const defaultAttemptTimeout = 60 * time.Second

// Intake is stage 3: classifies an insurance document via the
// document-understanding collaborator, trying an ordered list of model
// candidates.
type Intake struct {
	analyzer       llm.DocumentAnalyzer
	models         []string
	attemptTimeout time.Duration
	now            func() time.Time
}

func NewIntake(analyzer llm.DocumentAnalyzer, models []string) *Intake {
	return &Intake{
		analyzer:       analyzer,
		models:         models,
		attemptTimeout: defaultAttemptTimeout,
		now:            time.Now,
	}
}

// IntakeResult is the fragment returned to the engine.
type IntakeResult struct {
	IsDenial     bool
	DenialReason string
	Deadline     time.Time
	Extraction   schema.DenialExtraction
	Urgency      schema.Urgency
	ModelUsed    string
	Err          string
}

func newIntakeResult() *IntakeResult {
	return &IntakeResult{
		Extraction: schema.NewDenialExtraction(),
		Urgency:    schema.UrgencyMedium,
	}
}

// Process classifies a denial document. Input-shape problems (missing or
// oversize payload) are rejected before any external call; an exhausted
// model-fallback list yields a failure fragment, never an error.
func (i *Intake) Process(ctx context.Context, doc []byte) *IntakeResult {
	result := newIntakeResult()

	if len(doc) == 0 {
		result.Err = "no document provided"
		return result
	}

	if len(doc) > maxDocumentBytes {
		result.Err = fmt.Sprintf("document too large (%.2f MB), maximum is %d MB",
			float64(len(doc))/(1024*1024), maxDocumentBytes>>20)
		return result
	}

	if pages, err := api.PageCount(bytes.NewReader(doc), nil); err != nil {
		logger.Info("could not read PDF page count", zap.Error(err))
	} else {
		logger.Info("processing insurance document", zap.Int("pages", pages))
	}

	instruction, err := prompts.ClassifyDocumentInstruction()
	if err != nil {
		result.Err = "failed to load classification instruction: " + err.Error()
		return result
	}

	docB64 := base64.StdEncoding.EncodeToString(doc)

	var responseText string
	model, err := llm.TryCandidates(ctx, i.models, i.attemptTimeout, func(ctx context.Context, model string) error {
		return i.analyzer.AnalyzeDocument(ctx, docB64, instruction,
			func(chunk string) error {
				responseText = chunk
				return nil
			},
			llm.WithModel(model),
			llm.WithMaxTokens(1500),
		)
	})
	if err != nil {
		logger.Error("document classification failed", zap.Error(err))
		result.Err = "document classification failed: " + err.Error()
		return result
	}
	result.ModelUsed = model

	extraction := schema.NewDenialExtraction()
	if !llmjson.DecodeInto(responseText, &extraction) {
		extraction = schema.NewDenialExtraction()
		extraction.DocumentType = "OTHER"
	}
	if extraction.KeyMissingCriteria == nil {
		extraction.KeyMissingCriteria = []string{}
	}
	if extraction.Urgency == "" {
		extraction.Urgency = schema.UrgencyMedium
	}

	result.Extraction = extraction
	result.IsDenial = extraction.DocumentType == "DENIAL"
	result.DenialReason = extraction.DenialReason
	result.Urgency = extraction.Urgency

	if extraction.AppealDeadlineDays > 0 {
		result.Deadline = i.now().Add(time.Duration(extraction.AppealDeadlineDays) * 24 * time.Hour)
	}

	logger.Info("document classified",
		zap.String("documentType", extraction.DocumentType),
		zap.Bool("isDenial", result.IsDenial),
		zap.String("model", model))

	return result
}
