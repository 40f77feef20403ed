// Package report renders final workflow states into shareable markdown
// documents: the documentation audit report and the appeal packet.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sentinel-health/sentinel-core/schema"
)

// rendering caps keep the documents readable on long cases.
const (
	maxICDRows        = 10
	maxGapRows        = 10
	maxEntities       = 20
	maxEntitiesPerTyp = 5
)

var now = time.Now

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// AuditReport renders the clinical documentation audit for a finished run.
func AuditReport(st *schema.WorkflowState) string {
	var b strings.Builder

	b.WriteString("# Clinical Documentation Audit Report\n\n")
	fmt.Fprintf(&b, "**Patient Name:** %s\n", orNA(st.PatientName))
	fmt.Fprintf(&b, "**Case ID:** %s\n", orNA(st.CaseID))
	fmt.Fprintf(&b, "**Date Generated:** %s\n\n", now().Format("January 2, 2006 at 3:04 PM"))

	fmt.Fprintf(&b, "## Medical Necessity Score\n\n**%d%%** - %s Medical Necessity\n\n",
		int(st.MedicalNecessityScore*100), scoreTier(st.MedicalNecessityScore))

	if st.DenialRisk != "" {
		fmt.Fprintf(&b, "## Denial Risk: %s\n\n", strings.ToUpper(st.DenialRisk))
	}

	writeSOAPNote(&b, st.SOAPNote)
	writeICDCodes(&b, st.ICDCodes)
	writeAlerts(&b, st.PreemptiveAlerts)
	writeGaps(&b, st.PolicyGaps)
	writeEntities(&b, st.ClinicalEntities)

	if len(st.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range st.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}

	writeFooter(&b)
	return b.String()
}

// AppealPacket renders the appeal letter with its talking-points appendix.
func AppealPacket(st *schema.WorkflowState) string {
	var b strings.Builder

	b.WriteString("# Appeal Letter\n\n")
	fmt.Fprintf(&b, "**Date:** %s\n", now().Format("January 2, 2006"))
	b.WriteString("**RE:** Appeal of Denial - Medical Necessity\n")
	fmt.Fprintf(&b, "**Patient:** %s\n\n---\n\n", patientOrDefault(st.PatientName))

	if st.RebuttalLetter != "" {
		b.WriteString(st.RebuttalLetter)
		b.WriteString("\n\n")
	} else {
		b.WriteString("No rebuttal letter available.\n\n")
	}

	if len(st.TalkingPoints) > 0 {
		b.WriteString("## Peer-to-Peer Talking Points\n\n")
		for i, p := range st.TalkingPoints {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p)
		}
		b.WriteString("\n")
	}

	if st.DenialReason != "" {
		fmt.Fprintf(&b, "## Original Denial Reason\n\n%s\n\n", st.DenialReason)
	}

	if !st.PeerToPeerDeadline.IsZero() {
		fmt.Fprintf(&b, "**Appeal Deadline:** %s\n\n", st.PeerToPeerDeadline.Format("January 2, 2006"))
	}

	writeFooter(&b)
	return b.String()
}

func scoreTier(score float64) string {
	switch {
	case score >= 0.7:
		return "High"
	case score >= 0.4:
		return "Medium"
	default:
		return "Low"
	}
}

func patientOrDefault(name string) string {
	if name == "" {
		return "Patient"
	}
	return name
}

func writeSOAPNote(b *strings.Builder, note schema.SOAPNote) {
	sections := []struct {
		title string
		text  string
	}{
		{"Subjective", note.Subjective},
		{"Objective", note.Objective},
		{"Assessment", note.Assessment},
		{"Plan", note.Plan},
	}

	any := false
	for _, s := range sections {
		if s.text != "" {
			any = true
			break
		}
	}
	if !any {
		return
	}

	b.WriteString("## SOAP Note\n\n")
	for _, s := range sections {
		if s.text != "" {
			fmt.Fprintf(b, "**%s:** %s\n\n", s.title, s.text)
		}
	}
}

func writeICDCodes(b *strings.Builder, codes []schema.ICDCode) {
	if len(codes) == 0 {
		return
	}
	b.WriteString("## Suggested ICD Codes\n\n")
	b.WriteString("| Code | Description | Specificity |\n|---|---|---|\n")
	for i, c := range codes {
		if i == maxICDRows {
			break
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", orNA(c.Code), orNA(c.Description), orNA(c.Specificity))
	}
	b.WriteString("\n")
}

func writeAlerts(b *strings.Builder, alerts []schema.PreemptiveAlert) {
	if len(alerts) == 0 {
		return
	}
	b.WriteString("## Preemptive Alerts\n\n")
	for _, a := range alerts {
		fmt.Fprintf(b, "- **%s:** %s\n", strings.ReplaceAll(orNA(a.AlertType), "_", " "), a.Message)
		if a.ActionRequired != "" {
			fmt.Fprintf(b, "  - *Action Required: %s*\n", a.ActionRequired)
		}
	}
	b.WriteString("\n")
}

func writeGaps(b *strings.Builder, gaps []schema.PolicyGap) {
	if len(gaps) == 0 {
		return
	}
	b.WriteString("## Policy Gaps Identified\n\n")
	b.WriteString("| Gap | Required By Policy | Risk Level | Suggested Fix |\n|---|---|---|---|\n")
	for i, g := range gaps {
		if i == maxGapRows {
			break
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			orNA(g.Gap), orNA(g.RequiredByPolicy), orNA(g.RiskLevel), orNA(g.SuggestedFix))
	}
	b.WriteString("\n")
}

func writeEntities(b *strings.Builder, entities []schema.ClinicalEntity) {
	if len(entities) == 0 {
		return
	}
	b.WriteString("## Extracted Clinical Data\n\n")

	// group by type, preserving first-seen type order
	var order []string
	byType := make(map[string][]schema.ClinicalEntity)
	for i, e := range entities {
		if i == maxEntities {
			break
		}
		t := e.Type
		if t == "" {
			t = "other"
		}
		if _, ok := byType[t]; !ok {
			order = append(order, t)
		}
		byType[t] = append(byType[t], e)
	}

	for _, t := range order {
		fmt.Fprintf(b, "**%s:**\n", titleCase(strings.ReplaceAll(t, "_", " ")))
		for i, e := range byType[t] {
			if i == maxEntitiesPerTyp {
				break
			}
			line := fmt.Sprintf("- %s: %s", orNA(e.Name), orNA(e.Value))
			if e.Unit != "" {
				line += " " + e.Unit
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("---\n*Generated by Sentinel Core - AI-Powered Healthcare Administrative System*\n")
}
