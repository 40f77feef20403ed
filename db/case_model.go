package db

import (
	"time"

	"github.com/sentinel-health/sentinel-core/schema"
)

// CaseModel persists the final merged state of one workflow run. Raw audio
// and document bytes are deliberately not stored.
type CaseModel struct {
	CaseID       string              `json:"caseId" bson:"_id"`
	PatientName  string              `json:"patientName" bson:"patientName"`
	WorkflowKind schema.WorkflowKind `json:"workflowKind" bson:"workflowKind"`

	RawTranscript      string                  `json:"rawTranscript" bson:"rawTranscript"`
	SOAPNote           schema.SOAPNote         `json:"soapNote" bson:"soapNote"`
	ClinicalEntities   []schema.ClinicalEntity `json:"clinicalEntities" bson:"clinicalEntities"`
	ProposedTreatments []string                `json:"proposedTreatments" bson:"proposedTreatments"`
	UrgencyIndicators  []string                `json:"urgencyIndicators" bson:"urgencyIndicators"`
	ChiefComplaint     string                  `json:"chiefComplaint" bson:"chiefComplaint"`

	ICDCodes              []schema.ICDCode         `json:"icdCodes" bson:"icdCodes"`
	PolicyGaps            []schema.PolicyGap       `json:"policyGaps" bson:"policyGaps"`
	PreemptiveAlerts      []schema.PreemptiveAlert `json:"preemptiveAlerts" bson:"preemptiveAlerts"`
	MedicalNecessityScore float64                  `json:"medicalNecessityScore" bson:"medicalNecessityScore"`
	DenialRisk            string                   `json:"denialRisk" bson:"denialRisk"`
	Recommendations       []string                 `json:"recommendations" bson:"recommendations"`

	DenialDetected     bool                    `json:"denialDetected" bson:"denialDetected"`
	DenialReason       string                  `json:"denialReason" bson:"denialReason"`
	PeerToPeerDeadline time.Time               `json:"peerToPeerDeadline" bson:"peerToPeerDeadline"`
	DenialExtraction   schema.DenialExtraction `json:"denialExtraction" bson:"denialExtraction"`
	DenialUrgency      schema.Urgency          `json:"denialUrgency" bson:"denialUrgency"`

	RebuttalLetter   string   `json:"rebuttalLetter" bson:"rebuttalLetter"`
	TalkingPoints    []string `json:"talkingPoints" bson:"talkingPoints"`
	PolicyReferences string   `json:"policyReferences" bson:"policyReferences"`
	ConfidenceScore  float64  `json:"confidenceScore" bson:"confidenceScore"`

	AgentLogs []schema.AgentLog `json:"agentLogs" bson:"agentLogs"`
	Error     string            `json:"error" bson:"error"`
	UpdatedAt time.Time         `json:"updatedAt" bson:"updatedAt"`
}

func (m CaseModel) Id() string { return m.CaseID }

func (m CaseModel) CollectionName() string { return "cases" }

// FromState maps a final workflow state onto the persisted record.
func FromState(st *schema.WorkflowState) CaseModel {
	return CaseModel{
		CaseID:             st.CaseID,
		PatientName:        st.PatientName,
		WorkflowKind:       st.WorkflowKind,
		RawTranscript:      st.RawTranscript,
		SOAPNote:           st.SOAPNote,
		ClinicalEntities:   st.ClinicalEntities,
		ProposedTreatments: st.ProposedTreatments,
		UrgencyIndicators:  st.UrgencyIndicators,
		ChiefComplaint:     st.ChiefComplaint,

		ICDCodes:              st.ICDCodes,
		PolicyGaps:            st.PolicyGaps,
		PreemptiveAlerts:      st.PreemptiveAlerts,
		MedicalNecessityScore: st.MedicalNecessityScore,
		DenialRisk:            st.DenialRisk,
		Recommendations:       st.Recommendations,

		DenialDetected:     st.DenialDetected,
		DenialReason:       st.DenialReason,
		PeerToPeerDeadline: st.PeerToPeerDeadline,
		DenialExtraction:   st.DenialExtraction,
		DenialUrgency:      st.DenialUrgency,

		RebuttalLetter:   st.RebuttalLetter,
		TalkingPoints:    st.TalkingPoints,
		PolicyReferences: st.PolicyReferences,
		ConfidenceScore:  st.ConfidenceScore,

		AgentLogs: st.AgentLogs,
		Error:     st.Error,
		UpdatedAt: time.Now(),
	}
}
