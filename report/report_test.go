package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sentinel-health/sentinel-core/schema"
)

func fixedNow(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func TestAuditReport(t *testing.T) {
	fixedNow(t)

	st := schema.NewWorkflowState("case-7", "John Smith", schema.WorkflowDictation)
	st.MedicalNecessityScore = 0.82
	st.DenialRisk = "low"
	st.SOAPNote = schema.SOAPNote{
		Subjective: "Chest pressure since this morning.",
		Assessment: "NSTEMI",
	}
	st.ICDCodes = []schema.ICDCode{
		{Code: "I21.4", Description: "Non-ST elevation myocardial infarction", Specificity: "high"},
	}
	st.PreemptiveAlerts = []schema.PreemptiveAlert{
		{AlertType: "missing_documentation", Message: "No symptom onset time documented", ActionRequired: "Document onset time"},
	}
	st.PolicyGaps = []schema.PolicyGap{
		{Gap: "No serial troponins", RequiredByPolicy: "Two values 3h apart", RiskLevel: "high", SuggestedFix: "Order repeat troponin"},
	}
	st.ClinicalEntities = []schema.ClinicalEntity{
		{Type: "lab_value", Name: "troponin", Value: "0.4", Unit: "ng/mL"},
		{Type: "symptom", Name: "chest pressure", Value: "present"},
	}
	st.Recommendations = []string{"Document EKG interpretation"}

	got := AuditReport(st)

	assert.Contains(t, got, "# Clinical Documentation Audit Report")
	assert.Contains(t, got, "**Patient Name:** John Smith")
	assert.Contains(t, got, "**Case ID:** case-7")
	assert.Contains(t, got, "March 14, 2026")
	assert.Contains(t, got, "**82%** - High Medical Necessity")
	assert.Contains(t, got, "## Denial Risk: LOW")
	assert.Contains(t, got, "**Assessment:** NSTEMI")
	assert.Contains(t, got, "| I21.4 | Non-ST elevation myocardial infarction | high |")
	assert.Contains(t, got, "**missing documentation:** No symptom onset time documented")
	assert.Contains(t, got, "*Action Required: Document onset time*")
	assert.Contains(t, got, "| No serial troponins |")
	assert.Contains(t, got, "**Lab Value:**")
	assert.Contains(t, got, "- troponin: 0.4 ng/mL")
	assert.Contains(t, got, "- Document EKG interpretation")
}

func TestAuditReportScoreTiers(t *testing.T) {
	fixedNow(t)

	st := schema.NewWorkflowState("c", "", schema.WorkflowDictation)

	st.MedicalNecessityScore = 0.5
	assert.Contains(t, AuditReport(st), "Medium Medical Necessity")

	st.MedicalNecessityScore = 0.1
	assert.Contains(t, AuditReport(st), "Low Medical Necessity")
}

func TestAuditReportMissingPatientName(t *testing.T) {
	fixedNow(t)

	st := schema.NewWorkflowState("c", "", schema.WorkflowDictation)

	assert.Contains(t, AuditReport(st), "**Patient Name:** N/A")
}

func TestAuditReportCapsICDRows(t *testing.T) {
	fixedNow(t)

	st := schema.NewWorkflowState("c", "p", schema.WorkflowDictation)
	for i := 0; i < 15; i++ {
		st.ICDCodes = append(st.ICDCodes, schema.ICDCode{Code: "X", Description: "d", Specificity: "s"})
	}

	got := AuditReport(st)

	rows := strings.Count(got, "| X | d | s |")
	assert.Equal(t, maxICDRows, rows)
}

func TestAppealPacket(t *testing.T) {
	fixedNow(t)

	st := schema.NewWorkflowState("case-9", "Mary Major", schema.WorkflowDenial)
	st.RebuttalLetter = "Dear Medical Director,\n\nWe formally appeal this denial."
	st.TalkingPoints = []string{"Lead with the troponin trend", "Cite policy section 4.2", "Request expedited review"}
	st.DenialReason = "Medical necessity not established"
	st.PeerToPeerDeadline = time.Date(2026, 3, 16, 9, 30, 0, 0, time.UTC)

	got := AppealPacket(st)

	assert.Contains(t, got, "# Appeal Letter")
	assert.Contains(t, got, "**Patient:** Mary Major")
	assert.Contains(t, got, "We formally appeal this denial.")
	assert.Contains(t, got, "1. Lead with the troponin trend")
	assert.Contains(t, got, "3. Request expedited review")
	assert.Contains(t, got, "## Original Denial Reason")
	assert.Contains(t, got, "**Appeal Deadline:** March 16, 2026")
}

func TestAppealPacketDefaults(t *testing.T) {
	fixedNow(t)

	st := schema.NewWorkflowState("case-9", "", schema.WorkflowDenial)

	got := AppealPacket(st)

	assert.Contains(t, got, "**Patient:** Patient")
	assert.Contains(t, got, "No rebuttal letter available.")
	assert.NotContains(t, got, "Peer-to-Peer Talking Points")
	assert.NotContains(t, got, "Appeal Deadline")
}
