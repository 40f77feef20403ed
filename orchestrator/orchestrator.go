// Package orchestrator runs the typed workflow graphs: it owns the state
// record for each case, executes stage agents in topology order, merges
// their fragments, and publishes progress events.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentinel-health/sentinel-core/agents"
	"github.com/sentinel-health/sentinel-core/db"
	"github.com/sentinel-health/sentinel-core/schema"
)

// Stage agent contracts, satisfied by the concrete agents.
type ScribeAgent interface {
	Process(ctx context.Context, audio []byte, dictation string) *agents.ScribeResult
}

type CoderAgent interface {
	Process(ctx context.Context, note schema.SOAPNote, entities []schema.ClinicalEntity, treatments []string, payer string) *agents.AuditResult
}

type IntakeAgent interface {
	Process(ctx context.Context, doc []byte) *agents.IntakeResult
}

type RebuttalAgent interface {
	Process(ctx context.Context, denialReason, patientName, clinicalContext string, extraction schema.DenialExtraction) *agents.RebuttalResult
}

// CaseInput carries everything a caller supplies for one workflow run.
type CaseInput struct {
	CaseID        string
	PatientName   string
	Audio         []byte
	DictationText string
	Document      []byte
	Payer         string
}

// Orchestrator executes workflow graphs over fresh per-call state. It is
// safe for concurrent use; each Run* call owns its own state record.
type Orchestrator struct {
	scribe   ScribeAgent
	coder    CoderAgent
	intake   IntakeAgent
	rebuttal RebuttalAgent

	hub         *ProgressHub
	cases       odm.OdmCollectionInterface[db.CaseModel]
	haltOnError bool
}

type Option func(*Orchestrator)

// WithCaseRepository enables best-effort persistence of final states.
func WithCaseRepository(repo odm.OdmCollectionInterface[db.CaseModel]) Option {
	return func(o *Orchestrator) { o.cases = repo }
}

// WithHaltOnError stops graph traversal at the first stage failure instead
// of letting downstream stages run over the partial state.
func WithHaltOnError() Option {
	return func(o *Orchestrator) { o.haltOnError = true }
}

func NewOrchestrator(scribe ScribeAgent, coder CoderAgent, intake IntakeAgent, rebuttal RebuttalAgent, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		scribe:   scribe,
		coder:    coder,
		intake:   intake,
		rebuttal: rebuttal,
		hub:      NewProgressHub(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Progress exposes the hub so callers can subscribe before starting a run.
func (o *Orchestrator) Progress() *ProgressHub { return o.hub }

// RunDictation runs scribe → coder.
func (o *Orchestrator) RunDictation(ctx context.Context, in CaseInput) (*schema.WorkflowState, error) {
	return o.run(ctx, schema.WorkflowDictation, in)
}

// RunDenial runs intake → (conditional) → rebuttal.
func (o *Orchestrator) RunDenial(ctx context.Context, in CaseInput) (*schema.WorkflowState, error) {
	return o.run(ctx, schema.WorkflowDenial, in)
}

// RunFull runs the complete pipeline across both halves.
func (o *Orchestrator) RunFull(ctx context.Context, in CaseInput) (*schema.WorkflowState, error) {
	return o.run(ctx, schema.WorkflowFull, in)
}

func (o *Orchestrator) run(ctx context.Context, kind schema.WorkflowKind, in CaseInput) (*schema.WorkflowState, error) {
	g, err := graphFor(kind)
	if err != nil {
		return nil, err
	}

	caseID := in.CaseID
	if caseID == "" {
		caseID = uuid.NewString()
	}

	st := schema.NewWorkflowState(caseID, in.PatientName, kind)
	st.AudioBytes = in.Audio
	st.DictationText = in.DictationText
	st.PDFBytes = in.Document

	logger.Info("workflow started",
		zap.String("caseId", caseID),
		zap.String("kind", string(kind)))

	for node := g.entry; node != nodeEnd; {
		stageErr := o.runNode(ctx, node, st, in.Payer)
		if stageErr != "" && o.haltOnError {
			break
		}

		next, err := g.nextNode(node, st)
		if err != nil {
			st.Error = err.Error()
			logger.Error("graph routing failed", zap.String("caseId", caseID), zap.Error(err))
			break
		}
		node = next
	}

	st.CurrentAgent = ""
	o.persist(ctx, st)

	logger.Info("workflow finished",
		zap.String("caseId", caseID),
		zap.String("kind", string(kind)),
		zap.Bool("hadError", st.Error != ""))

	return st, nil
}

// runNode executes one stage, merges its fragment into state, appends the
// log entry and publishes progress. A stage panic is contained and
// reported like any other stage failure. Returns the stage error message,
// empty on success.
func (o *Orchestrator) runNode(ctx context.Context, id nodeID, st *schema.WorkflowState, payer string) (errMsg string) {
	agent := string(id)
	st.CurrentAgent = agent

	defer func() {
		if r := recover(); r != nil {
			errMsg = fmt.Sprintf("stage panic: %v", r)
			logger.Error("stage panicked", zap.String("agent", agent), zap.Any("panic", r))
			o.finishNode(st, agent, errMsg, nil)
		}
	}()

	o.hub.Publish(st.CaseID, schema.StageEvent{
		Agent:   agent,
		Status:  schema.StatusRunning,
		Message: runningMessage(id),
	})

	var preview map[string]any

	switch id {
	case nodeScribe:
		res := o.scribe.Process(ctx, st.AudioBytes, st.DictationText)
		errMsg = res.Err
		st.RawTranscript = res.RawTranscript
		st.SOAPNote = res.SOAPNote
		st.ClinicalEntities = res.ClinicalEntities
		st.ProposedTreatments = res.ProposedTreatments
		st.UrgencyIndicators = res.UrgencyIndicators
		st.ChiefComplaint = res.ChiefComplaint
		preview = scribePreview(res)

	case nodeCoder:
		res := o.coder.Process(ctx, st.SOAPNote, st.ClinicalEntities, st.ProposedTreatments, payer)
		errMsg = res.Err
		st.ICDCodes = res.ICDCodes
		st.PolicyGaps = res.PolicyGaps
		st.PreemptiveAlerts = res.PreemptiveAlerts
		st.MedicalNecessityScore = res.MedicalNecessityScore
		st.DenialRisk = res.DenialRisk
		st.Recommendations = res.Recommendations
		st.PolicyContextUsed = res.PolicyContextUsed
		preview = coderPreview(res)

	case nodeIntake:
		res := o.intake.Process(ctx, st.PDFBytes)
		errMsg = res.Err
		st.DenialDetected = res.IsDenial
		st.DenialReason = res.DenialReason
		st.PeerToPeerDeadline = res.Deadline
		st.DenialExtraction = res.Extraction
		st.DenialUrgency = res.Urgency
		st.IntakeModelUsed = res.ModelUsed
		preview = intakePreview(res)

	case nodeRebuttal:
		res := o.rebuttal.Process(ctx, st.DenialReason, st.PatientName, clinicalContext(st), st.DenialExtraction)
		errMsg = res.Err
		st.RebuttalLetter = res.Letter
		st.TalkingPoints = res.TalkingPoints
		st.PolicyReferences = res.PolicyReferences
		st.ConfidenceScore = res.ConfidenceScore
		preview = rebuttalPreview(res)

	default:
		errMsg = fmt.Sprintf("unknown node %q", id)
	}

	o.finishNode(st, agent, errMsg, preview)
	return errMsg
}

// finishNode appends the log entry and publishes the terminal event for a
// stage.
func (o *Orchestrator) finishNode(st *schema.WorkflowState, agent, errMsg string, preview map[string]any) {
	status := schema.StatusComplete
	message := completeMessage(nodeID(agent))
	if errMsg != "" {
		status = schema.StatusError
		message = errMsg
		st.Error = errMsg
	}

	st.AgentLogs = append(st.AgentLogs, schema.AgentLog{
		Agent:     agent,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	})

	o.hub.Publish(st.CaseID, schema.StageEvent{
		Agent:   agent,
		Status:  status,
		Message: message,
		Data:    preview,
	})
}

func (o *Orchestrator) persist(ctx context.Context, st *schema.WorkflowState) {
	if o.cases == nil {
		return
	}
	if _, err := async.Await(o.cases.Save(ctx, db.FromState(st))); err != nil {
		logger.Error("failed to persist case", zap.String("caseId", st.CaseID), zap.Error(err))
	}
}

func runningMessage(id nodeID) string {
	switch id {
	case nodeScribe:
		return "Transcribing dictation and extracting clinical data"
	case nodeCoder:
		return "Auditing documentation against payer policy"
	case nodeIntake:
		return "Classifying insurance document"
	case nodeRebuttal:
		return "Drafting appeal letter and talking points"
	default:
		return "Running"
	}
}

func completeMessage(id nodeID) string {
	switch id {
	case nodeScribe:
		return "Clinical extraction complete"
	case nodeCoder:
		return "Policy audit complete"
	case nodeIntake:
		return "Document classification complete"
	case nodeRebuttal:
		return "Rebuttal package ready"
	default:
		return "Complete"
	}
}

// clinicalContext assembles the scribe half's output for the rebuttal
// stage: the full note plus up to 10 extracted entities. Empty when the
// scribe never ran, so the letter prompt falls back to its default context.
func clinicalContext(st *schema.WorkflowState) string {
	if st.SOAPNote == (schema.SOAPNote{}) {
		return ""
	}

	var b strings.Builder
	b.WriteString("SOAP Note:\n")
	fmt.Fprintf(&b, "- Subjective: %s\n", valueOrNA(st.SOAPNote.Subjective))
	fmt.Fprintf(&b, "- Objective: %s\n", valueOrNA(st.SOAPNote.Objective))
	fmt.Fprintf(&b, "- Assessment: %s\n", valueOrNA(st.SOAPNote.Assessment))
	fmt.Fprintf(&b, "- Plan: %s\n", valueOrNA(st.SOAPNote.Plan))

	b.WriteString("\nClinical Entities:\n")
	if len(st.ClinicalEntities) == 0 {
		b.WriteString("None extracted\n")
		return b.String()
	}
	for i, e := range st.ClinicalEntities {
		if i == 10 {
			break
		}
		line := fmt.Sprintf("- %s: %s", valueOrNA(e.Name), valueOrNA(e.Value))
		if e.Unit != "" {
			line += " " + e.Unit
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Previews are bounded; they never carry the full fragment.

func scribePreview(res *agents.ScribeResult) map[string]any {
	names := make([]string, 0, 3)
	for _, e := range res.ClinicalEntities {
		names = append(names, e.Name)
		if len(names) == 3 {
			break
		}
	}
	return map[string]any{
		"chief_complaint": res.ChiefComplaint,
		"entity_count":    len(res.ClinicalEntities),
		"entities":        names,
	}
}

func coderPreview(res *agents.AuditResult) map[string]any {
	alerts := make([]string, 0, 2)
	for _, a := range res.PreemptiveAlerts {
		alerts = append(alerts, a.Message)
		if len(alerts) == 2 {
			break
		}
	}
	return map[string]any{
		"icd_code_count":          len(res.ICDCodes),
		"denial_risk":             res.DenialRisk,
		"medical_necessity_score": res.MedicalNecessityScore,
		"alerts":                  alerts,
	}
}

func intakePreview(res *agents.IntakeResult) map[string]any {
	return map[string]any{
		"document_type":   res.Extraction.DocumentType,
		"denial_detected": res.IsDenial,
		"urgency":         string(res.Urgency),
		"model_used":      res.ModelUsed,
	}
}

func rebuttalPreview(res *agents.RebuttalResult) map[string]any {
	return map[string]any{
		"letter_chars":        len(res.Letter),
		"talking_point_count": len(res.TalkingPoints),
		"confidence_score":    res.ConfidenceScore,
	}
}
