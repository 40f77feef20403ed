package agents

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.uber.org/zap"

	"github.com/sentinel-health/sentinel-core/llm"
	"github.com/sentinel-health/sentinel-core/prompts"
	"github.com/sentinel-health/sentinel-core/schema"
)

// policy retrieval parameters.
const (
	auditTopK        = 8
	auditQueryPrefix = "medical necessity criteria admission "
)

// Coder is stage 2: audits clinical documentation against payer policy
// requirements and proposes diagnosis codes, gaps and preemptive alerts.
type Coder struct {
	client    llm.CompletionClient
	model     string
	retriever PolicyRetriever
}

func NewCoder(client llm.CompletionClient, model string, retriever PolicyRetriever) *Coder {
	return &Coder{
		client:    client,
		model:     model,
		retriever: retriever,
	}
}

// AuditResult is the fragment returned to the engine.
type AuditResult struct {
	ICDCodes              []schema.ICDCode
	PolicyGaps            []schema.PolicyGap
	PreemptiveAlerts      []schema.PreemptiveAlert
	MedicalNecessityScore float64
	DenialRisk            string
	Recommendations       []string
	PolicyContextUsed     string
	Err                   string
}

func newAuditResult() *AuditResult {
	return &AuditResult{
		ICDCodes:              []schema.ICDCode{},
		PolicyGaps:            []schema.PolicyGap{},
		PreemptiveAlerts:      []schema.PreemptiveAlert{},
		MedicalNecessityScore: 0.5,
		DenialRisk:            "medium",
		Recommendations:       []string{},
	}
}

// Process audits documentation in three steps: derive bounded diagnosis
// keywords, retrieve matching policy passages (payer-filtered when given),
// then run one audit completion over the lot. Retrieved passages may be
// topically irrelevant to the actual diagnosis; the prompt instructs the
// model to raise a missing-data alert rather than fabricate compliance, so
// a corpus mismatch never aborts the stage.
func (c *Coder) Process(ctx context.Context, note schema.SOAPNote, entities []schema.ClinicalEntity, treatments []string, payer string) *AuditResult {
	result := newAuditResult()

	keywords, guidance := DeriveDiagnosisKeywords(note, entities)
	query := auditQueryPrefix + strings.Join(keywords, " ")

	policyContext, err := c.retriever.Query(ctx, query, auditTopK, payer)
	if err != nil {
		logger.Error("policy retrieval failed", zap.Error(err))
		result.Err = "policy retrieval failed: " + err.Error()
		return result
	}

	entitiesJSON, _ := json.MarshalIndent(entities, "", "  ")
	if treatments == nil {
		treatments = []string{}
	}
	treatmentsJSON, _ := json.MarshalIndent(treatments, "", "  ")

	findings, err := async.Await(prompts.AuditDocumentation(ctx, c.client, c.model, prompts.AuditData{
		Note:           note,
		EntitiesJSON:   string(entitiesJSON),
		TreatmentsJSON: string(treatmentsJSON),
		PolicyContext:  policyContext,
		CodingGuidance: guidance,
	}))
	if err != nil {
		result.Err = "policy audit failed: " + err.Error()
		return result
	}

	result.ICDCodes = findings.ICDCodes
	result.PolicyGaps = findings.PolicyGaps
	result.PreemptiveAlerts = findings.PreemptiveAlerts
	result.MedicalNecessityScore = findings.MedicalNecessityScore
	result.DenialRisk = findings.DenialRisk
	result.Recommendations = findings.Recommendations
	result.PolicyContextUsed = truncate(policyContext, 500)

	logger.Info("policy audit complete",
		zap.Int("codes", len(result.ICDCodes)),
		zap.Int("alerts", len(result.PreemptiveAlerts)),
		zap.String("denialRisk", result.DenialRisk))

	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
