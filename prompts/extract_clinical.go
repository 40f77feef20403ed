package prompts

import (
	"context"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.uber.org/zap"

	"github.com/sentinel-health/sentinel-core/llm"
	"github.com/sentinel-health/sentinel-core/llmjson"
	"github.com/sentinel-health/sentinel-core/schema"
)

type PatientInfo struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
}

// ClinicalExtraction is the structured record pulled out of a dictation
// transcript. Absent fields stay at their defaults.
type ClinicalExtraction struct {
	PatientInfo        PatientInfo             `json:"patient_info"`
	ChiefComplaint     string                  `json:"chief_complaint"`
	ClinicalEntities   []schema.ClinicalEntity `json:"clinical_entities"`
	SOAPNote           schema.SOAPNote         `json:"soap_note"`
	ProposedTreatments []string                `json:"proposed_treatments"`
	UrgencyIndicators  []string                `json:"urgency_indicators"`
}

// Normalize replaces nil slices so downstream stages never nil-check.
func (e *ClinicalExtraction) Normalize() {
	if e.ClinicalEntities == nil {
		e.ClinicalEntities = []schema.ClinicalEntity{}
	}
	if e.ProposedTreatments == nil {
		e.ProposedTreatments = []string{}
	}
	if e.UrgencyIndicators == nil {
		e.UrgencyIndicators = []string{}
	}
}

// ExtractClinical runs the structured-extraction completion over a
// transcript. A malformed completion yields a fully-defaulted extraction,
// never an error; errors are reserved for service failures.
func ExtractClinical(ctx context.Context, client llm.CompletionClient, model, transcript string) <-chan async.Result[*ClinicalExtraction] {
	return async.Go(func() (*ClinicalExtraction, error) {
		userPrompt, err := loadPrompt("templates/extract_clinical_user.md", map[string]string{
			"TRANSCRIPT": transcript,
		})
		if err != nil {
			return nil, err
		}

		var response strings.Builder
		err = client.GenerateInference(ctx,
			[]llm.Message{{Role: "user", Content: userPrompt}},
			func(chunk string) error {
				response.WriteString(chunk)
				return nil
			},
			llm.WithModel(model),
			llm.WithMaxTokens(2000),
			llm.WithTemperature(0.2),
		)
		if err != nil {
			logger.Error("clinical extraction inference failed", zap.Error(err))
			return nil, err
		}

		out := &ClinicalExtraction{}
		if !llmjson.DecodeInto(response.String(), out) {
			logger.Info("clinical extraction returned undecodable output, defaulting")
			out = &ClinicalExtraction{}
		}
		out.Normalize()

		return out, nil
	})
}
