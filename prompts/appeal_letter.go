package prompts

import (
	"context"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.uber.org/zap"

	"github.com/sentinel-health/sentinel-core/llm"
)

// AppealData carries everything embedded into the appeal-letter completion.
type AppealData struct {
	DenialReason        string
	PatientName         string
	ClinicalContext     string
	PolicyContext       string
	MissingCriteriaJSON string
}

// AppealLetter generates the long-form appeal letter. The letter is free
// text; no structured decode happens here.
func AppealLetter(ctx context.Context, client llm.CompletionClient, model string, data AppealData) <-chan async.Result[string] {
	return async.Go(func() (string, error) {
		if data.ClinicalContext == "" {
			data.ClinicalContext = "Standard clinical documentation supports medical necessity."
		}

		userPrompt, err := loadPrompt("templates/appeal_letter_user.md", map[string]string{
			"DENIAL_REASON":         data.DenialReason,
			"PATIENT_NAME":          data.PatientName,
			"CLINICAL_CONTEXT":      data.ClinicalContext,
			"POLICY_CONTEXT":        data.PolicyContext,
			"MISSING_CRITERIA_JSON": data.MissingCriteriaJSON,
		})
		if err != nil {
			return "", err
		}

		var response strings.Builder
		err = client.GenerateInference(ctx,
			[]llm.Message{{Role: "user", Content: userPrompt}},
			func(chunk string) error {
				response.WriteString(chunk)
				return nil
			},
			llm.WithModel(model),
			llm.WithMaxTokens(2500),
			llm.WithTemperature(0.5),
		)
		if err != nil {
			logger.Error("appeal letter inference failed", zap.Error(err))
			return "", err
		}

		return response.String(), nil
	})
}
