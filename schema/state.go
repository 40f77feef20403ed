package schema

import (
	"time"
)

// WorkflowKind selects which graph topology a case runs through.
type WorkflowKind string

const (
	WorkflowDictation WorkflowKind = "dictation" // scribe -> coder
	WorkflowDenial    WorkflowKind = "denial"    // intake -> rebuttal
	WorkflowFull      WorkflowKind = "full"      // scribe -> coder -> intake -> rebuttal
)

// StageStatus tags a stage-transition event.
type StageStatus string

const (
	StatusRunning  StageStatus = "running"
	StatusComplete StageStatus = "complete"
	StatusError    StageStatus = "error"
)

// Urgency mirrors the priority tiers extracted from insurance documents.
type Urgency string

const (
	UrgencyCritical Urgency = "P0_CRITICAL"
	UrgencyHigh     Urgency = "P1_HIGH"
	UrgencyMedium   Urgency = "P2_MEDIUM"
	UrgencyLow      Urgency = "P3_LOW"
)

// SOAPNote is the four-section structured clinical note.
type SOAPNote struct {
	Subjective string `json:"subjective" bson:"subjective"`
	Objective  string `json:"objective" bson:"objective"`
	Assessment string `json:"assessment" bson:"assessment"`
	Plan       string `json:"plan" bson:"plan"`
}

// ClinicalEntity is one extracted clinical fact (lab value, symptom, diagnosis...).
type ClinicalEntity struct {
	Type   string `json:"type" bson:"type"`
	Name   string `json:"name" bson:"name"`
	Value  string `json:"value" bson:"value"`
	Unit   string `json:"unit" bson:"unit"`
	Status string `json:"status" bson:"status"`
}

// ICDCode is one proposed diagnosis code with its documentation evidence.
type ICDCode struct {
	Code               string `json:"code" bson:"code"`
	Description        string `json:"description" bson:"description"`
	Specificity        string `json:"specificity" bson:"specificity"`
	SupportingEvidence string `json:"supporting_evidence" bson:"supportingEvidence"`
}

// PolicyGap is a documentation deficit measured against payer policy.
type PolicyGap struct {
	Gap              string `json:"gap" bson:"gap"`
	RequiredByPolicy string `json:"required_by_policy" bson:"requiredByPolicy"`
	RiskLevel        string `json:"risk_level" bson:"riskLevel"`
	SuggestedFix     string `json:"suggested_fix" bson:"suggestedFix"`
}

// PreemptiveAlert warns the physician about an issue before claim submission.
type PreemptiveAlert struct {
	AlertType      string `json:"alert_type" bson:"alertType"`
	Message        string `json:"message" bson:"message"`
	ActionRequired string `json:"action_required" bson:"actionRequired"`
	Urgency        string `json:"urgency" bson:"urgency"`
}

// DenialExtraction is the raw record pulled out of an insurance document.
type DenialExtraction struct {
	DocumentType        string   `json:"document_type" bson:"documentType"`
	PatientName         string   `json:"patient_name" bson:"patientName"`
	AccountNumber       string   `json:"account_number" bson:"accountNumber"`
	DenialReason        string   `json:"denial_reason" bson:"denialReason"`
	DenialCode          string   `json:"denial_code" bson:"denialCode"`
	AppealDeadlineDays  int      `json:"appeal_deadline_days" bson:"appealDeadlineDays"`
	PeerToPeerAvailable bool     `json:"peer_to_peer_available" bson:"peerToPeerAvailable"`
	KeyMissingCriteria  []string `json:"key_missing_criteria" bson:"keyMissingCriteria"`
	Urgency             Urgency  `json:"urgency" bson:"urgency"`
}

// AgentLog is one entry in the append-only workflow log.
type AgentLog struct {
	Agent     string      `json:"agent" bson:"agent"`
	Status    StageStatus `json:"status" bson:"status"`
	Message   string      `json:"message" bson:"message"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

// StageEvent is published to progress subscribers after every node.
// Data carries a bounded preview, never the full fragment.
type StageEvent struct {
	Agent     string         `json:"agent"`
	Status    StageStatus    `json:"status"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// WorkflowState is the single record threaded through one case's pipeline run.
// It is owned exclusively by the engine; stage executors only ever receive a
// copy and return fragments. Every output field starts at a defined empty
// value so downstream stages can read without nil checks.
type WorkflowState struct {
	// Case identity
	CaseID      string `json:"case_id" bson:"caseId"`
	PatientName string `json:"patient_name" bson:"patientName"`

	// Raw inputs
	AudioBytes    []byte       `json:"-" bson:"-"`
	DictationText string       `json:"dictation_text" bson:"dictationText"`
	PDFBytes      []byte       `json:"-" bson:"-"`
	WorkflowKind  WorkflowKind `json:"workflow_kind" bson:"workflowKind"`

	// Scribe outputs
	RawTranscript      string           `json:"raw_transcript" bson:"rawTranscript"`
	SOAPNote           SOAPNote         `json:"soap_note" bson:"soapNote"`
	ClinicalEntities   []ClinicalEntity `json:"clinical_entities" bson:"clinicalEntities"`
	ProposedTreatments []string         `json:"proposed_treatments" bson:"proposedTreatments"`
	UrgencyIndicators  []string         `json:"urgency_indicators" bson:"urgencyIndicators"`
	ChiefComplaint     string           `json:"chief_complaint" bson:"chiefComplaint"`

	// Coder outputs
	ICDCodes              []ICDCode         `json:"icd_codes" bson:"icdCodes"`
	PolicyGaps            []PolicyGap       `json:"policy_gaps" bson:"policyGaps"`
	PreemptiveAlerts      []PreemptiveAlert `json:"preemptive_alerts" bson:"preemptiveAlerts"`
	MedicalNecessityScore float64           `json:"medical_necessity_score" bson:"medicalNecessityScore"`
	DenialRisk            string            `json:"denial_risk" bson:"denialRisk"`
	Recommendations       []string          `json:"recommendations" bson:"recommendations"`
	PolicyContextUsed     string            `json:"policy_context_used" bson:"policyContextUsed"`

	// Intake outputs
	DenialDetected     bool             `json:"denial_detected" bson:"denialDetected"`
	DenialReason       string           `json:"denial_reason" bson:"denialReason"`
	PeerToPeerDeadline time.Time        `json:"peer_to_peer_deadline" bson:"peerToPeerDeadline"`
	DenialExtraction   DenialExtraction `json:"denial_extraction" bson:"denialExtraction"`
	DenialUrgency      Urgency          `json:"denial_urgency" bson:"denialUrgency"`
	IntakeModelUsed    string           `json:"intake_model_used" bson:"intakeModelUsed"`

	// Rebuttal outputs
	RebuttalLetter   string   `json:"rebuttal_letter" bson:"rebuttalLetter"`
	TalkingPoints    []string `json:"talking_points" bson:"talkingPoints"`
	PolicyReferences string   `json:"policy_references" bson:"policyReferences"`
	ConfidenceScore  float64  `json:"confidence_score" bson:"confidenceScore"`

	// Bookkeeping
	CurrentAgent string     `json:"current_agent" bson:"currentAgent"`
	AgentLogs    []AgentLog `json:"agent_logs" bson:"agentLogs"`
	Error        string     `json:"error" bson:"error"`
}

// NewWorkflowState builds a fresh state for one invocation. State is never
// reused across calls, even for the same case id.
func NewWorkflowState(caseID, patientName string, kind WorkflowKind) *WorkflowState {
	return &WorkflowState{
		CaseID:       caseID,
		PatientName:  patientName,
		WorkflowKind: kind,

		ClinicalEntities:   []ClinicalEntity{},
		ProposedTreatments: []string{},
		UrgencyIndicators:  []string{},
		ICDCodes:           []ICDCode{},
		PolicyGaps:         []PolicyGap{},
		PreemptiveAlerts:   []PreemptiveAlert{},
		Recommendations:    []string{},
		DenialExtraction:   NewDenialExtraction(),
		DenialUrgency:      UrgencyMedium,
		TalkingPoints:      []string{},
		AgentLogs:          []AgentLog{},
	}
}

// NewDenialExtraction returns an extraction record with every field defaulted.
func NewDenialExtraction() DenialExtraction {
	return DenialExtraction{
		KeyMissingCriteria: []string{},
		Urgency:            UrgencyMedium,
	}
}
