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

// AuditData carries everything embedded into the policy-audit completion.
type AuditData struct {
	Note           schema.SOAPNote
	EntitiesJSON   string
	TreatmentsJSON string
	PolicyContext  string
	CodingGuidance string
}

// AuditFindings is the coder stage's completion schema.
type AuditFindings struct {
	ICDCodes              []schema.ICDCode         `json:"icd_codes"`
	PolicyGaps            []schema.PolicyGap       `json:"policy_gaps"`
	PreemptiveAlerts      []schema.PreemptiveAlert `json:"preemptive_alerts"`
	MedicalNecessityScore float64                  `json:"medical_necessity_score"`
	DenialRisk            string                   `json:"denial_risk"`
	Recommendations       []string                 `json:"recommendations"`
}

// NewAuditFindings returns findings with every field at its documented
// default. Score 0.5 / medium risk is the neutral stance when the model
// said nothing usable.
func NewAuditFindings() *AuditFindings {
	return &AuditFindings{
		ICDCodes:              []schema.ICDCode{},
		PolicyGaps:            []schema.PolicyGap{},
		PreemptiveAlerts:      []schema.PreemptiveAlert{},
		MedicalNecessityScore: 0.5,
		DenialRisk:            "medium",
		Recommendations:       []string{},
	}
}

func (f *AuditFindings) Normalize() {
	if f.ICDCodes == nil {
		f.ICDCodes = []schema.ICDCode{}
	}
	if f.PolicyGaps == nil {
		f.PolicyGaps = []schema.PolicyGap{}
	}
	if f.PreemptiveAlerts == nil {
		f.PreemptiveAlerts = []schema.PreemptiveAlert{}
	}
	if f.Recommendations == nil {
		f.Recommendations = []string{}
	}
	if f.DenialRisk == "" {
		f.DenialRisk = "medium"
	}
}

// AuditDocumentation runs the policy-audit completion. Parse failures
// default the findings rather than propagating.
func AuditDocumentation(ctx context.Context, client llm.CompletionClient, model string, data AuditData) <-chan async.Result[*AuditFindings] {
	return async.Go(func() (*AuditFindings, error) {
		userPrompt, err := loadPrompt("templates/audit_user.md", map[string]string{
			"SUBJECTIVE":      orNA(data.Note.Subjective),
			"OBJECTIVE":       orNA(data.Note.Objective),
			"ASSESSMENT":      orNA(data.Note.Assessment),
			"PLAN":            orNA(data.Note.Plan),
			"ENTITIES_JSON":   data.EntitiesJSON,
			"TREATMENTS_JSON": data.TreatmentsJSON,
			"POLICY_CONTEXT":  data.PolicyContext,
			"CODING_GUIDANCE": data.CodingGuidance,
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
			llm.WithMaxTokens(2500),
			llm.WithTemperature(0.2),
		)
		if err != nil {
			logger.Error("policy audit inference failed", zap.Error(err))
			return nil, err
		}

		out := NewAuditFindings()
		if !llmjson.DecodeInto(response.String(), out) {
			logger.Info("audit completion returned undecodable output, defaulting")
			return NewAuditFindings(), nil
		}
		out.Normalize()

		return out, nil
	})
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
