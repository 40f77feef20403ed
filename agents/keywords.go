package agents

import (
	"strings"

	"github.com/sentinel-health/sentinel-core/schema"
)

// maxDiagnosisKeywords bounds the retrieval query cost.
const maxDiagnosisKeywords = 8

// conditionFamily groups trigger phrases with the canonical synonyms a
// policy corpus indexes under, plus coding guidance injected into the
// audit prompt when the family matches.
type conditionFamily struct {
	triggers []string
	synonyms []string
	guidance string
}

var conditionFamilies = []conditionFamily{
	{
		triggers: []string{"nstemi", "stemi", "myocardial infarction", "acute coronary", "acs", "heart attack", "troponin"},
		synonyms: []string{"NSTEMI", "myocardial infarction", "acute coronary syndrome"},
		guidance: "For suspected myocardial infarction, payers require serial troponin values, EKG findings, and documented symptom onset time. Code to the most specific MI subtype supported by the documentation (e.g., NSTEMI vs STEMI).",
	},
	{
		triggers: []string{"hyperkalemia", "elevated potassium", "peaked t wave", "potassium"},
		synonyms: []string{"hyperkalemia", "elevated serum potassium", "electrolyte imbalance"},
		guidance: "For hyperkalemia admissions, most payers require K+ at or above 5.5 mmol/L or documented EKG changes (peaked T waves, widened QRS). Flag values below threshold explicitly.",
	},
	{
		triggers: []string{"sepsis", "septic", "sirs", "bacteremia"},
		synonyms: []string{"sepsis", "systemic inflammatory response syndrome", "acute organ dysfunction"},
		guidance: "Sepsis coding requires documented infection source plus organ dysfunction criteria (lactate, hypotension, altered mentation). Payers routinely deny sepsis claims lacking explicit SOFA-relevant findings.",
	},
	{
		triggers: []string{"heart failure", "chf", "pulmonary edema", "reduced ejection fraction"},
		synonyms: []string{"heart failure", "acute decompensated heart failure", "congestive heart failure"},
		guidance: "Specify acuity (acute vs chronic), side, and ejection fraction category. Inpatient admission criteria usually require documented hypoxia, IV diuretic need, or hemodynamic instability.",
	},
	{
		triggers: []string{"pneumonia", "infiltrate", "consolidation"},
		synonyms: []string{"pneumonia", "community-acquired pneumonia", "lower respiratory infection"},
		guidance: "Document CURB-65 or PSI elements supporting the level of care. Payers expect imaging confirmation and oxygen-requirement documentation for inpatient pneumonia stays.",
	},
}

// DeriveDiagnosisKeywords builds the bounded keyword list used for the
// policy retrieval query, and the coding-guidance blocks for any matched
// condition families.
//
// The assessment text goes in verbatim first; the assessment and every
// diagnosis/symptom entity are then scanned for known condition families,
// whose canonical synonyms are appended. The result is deduplicated
// case-insensitively and capped.
func DeriveDiagnosisKeywords(note schema.SOAPNote, entities []schema.ClinicalEntity) ([]string, string) {
	var candidates []string
	var scannable []string

	if note.Assessment != "" {
		candidates = append(candidates, note.Assessment)
		scannable = append(scannable, note.Assessment)
	}

	for _, e := range entities {
		if e.Type == "diagnosis" || e.Type == "symptom" {
			if e.Name == "" {
				continue
			}
			candidates = append(candidates, e.Name)
			scannable = append(scannable, e.Name)
		}
	}

	var guidance []string
	for _, fam := range conditionFamilies {
		if familyMatches(fam, scannable) {
			candidates = append(candidates, fam.synonyms...)
			guidance = append(guidance, fam.guidance)
		}
	}

	return dedupeAndCap(candidates, maxDiagnosisKeywords), strings.Join(guidance, "\n\n")
}

func familyMatches(fam conditionFamily, texts []string) bool {
	for _, t := range texts {
		lower := strings.ToLower(t)
		for _, trigger := range fam.triggers {
			if strings.Contains(lower, trigger) {
				return true
			}
		}
	}
	return false
}

// dedupeAndCap keeps first-seen casing, compares case-insensitively.
func dedupeAndCap(keywords []string, limit int) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, limit)
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		lower := strings.ToLower(k)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, k)
		if len(out) == limit {
			break
		}
	}
	return out
}
