package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentinel-health/sentinel-core/schema"
)

func TestDeriveDiagnosisKeywordsAssessmentFirst(t *testing.T) {
	note := schema.SOAPNote{Assessment: "Acute hyperkalemia"}

	keywords, _ := DeriveDiagnosisKeywords(note, nil)

	assert.Equal(t, "Acute hyperkalemia", keywords[0])
}

func TestDeriveDiagnosisKeywordsExpandsConditionFamily(t *testing.T) {
	note := schema.SOAPNote{Assessment: "NSTEMI, troponin elevated"}

	keywords, guidance := DeriveDiagnosisKeywords(note, nil)

	assert.Contains(t, keywords, "NSTEMI")
	assert.Contains(t, keywords, "myocardial infarction")
	assert.Contains(t, keywords, "acute coronary syndrome")
	assert.Contains(t, guidance, "serial troponin")
}

func TestDeriveDiagnosisKeywordsUsesDiagnosisAndSymptomEntities(t *testing.T) {
	entities := []schema.ClinicalEntity{
		{Type: "diagnosis", Name: "sepsis"},
		{Type: "symptom", Name: "fever"},
		{Type: "lab_value", Name: "lactate"}, // not a keyword source
	}

	keywords, guidance := DeriveDiagnosisKeywords(schema.SOAPNote{}, entities)

	assert.Contains(t, keywords, "sepsis")
	assert.Contains(t, keywords, "fever")
	assert.NotContains(t, keywords, "lactate")
	assert.Contains(t, guidance, "organ dysfunction")
}

func TestDeriveDiagnosisKeywordsDedupesCaseInsensitively(t *testing.T) {
	entities := []schema.ClinicalEntity{
		{Type: "diagnosis", Name: "Hyperkalemia"},
		{Type: "diagnosis", Name: "hyperkalemia"},
	}

	keywords, _ := DeriveDiagnosisKeywords(schema.SOAPNote{}, entities)

	count := 0
	for _, k := range keywords {
		if k == "Hyperkalemia" || k == "hyperkalemia" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	// first-seen casing wins
	assert.Contains(t, keywords, "Hyperkalemia")
}

func TestDeriveDiagnosisKeywordsCapped(t *testing.T) {
	entities := []schema.ClinicalEntity{
		{Type: "diagnosis", Name: "sepsis"},
		{Type: "diagnosis", Name: "pneumonia"},
		{Type: "diagnosis", Name: "heart failure"},
		{Type: "symptom", Name: "fever"},
		{Type: "symptom", Name: "dyspnea"},
		{Type: "symptom", Name: "hypotension"},
	}
	note := schema.SOAPNote{Assessment: "Septic shock with multi-organ involvement"}

	keywords, _ := DeriveDiagnosisKeywords(note, entities)

	assert.LessOrEqual(t, len(keywords), maxDiagnosisKeywords)
}

func TestDeriveDiagnosisKeywordsEmptyInput(t *testing.T) {
	keywords, guidance := DeriveDiagnosisKeywords(schema.SOAPNote{}, nil)

	assert.Empty(t, keywords)
	assert.Empty(t, guidance)
}

func TestDeriveDiagnosisKeywordsSkipsUnnamedEntities(t *testing.T) {
	entities := []schema.ClinicalEntity{{Type: "diagnosis", Name: ""}}

	keywords, _ := DeriveDiagnosisKeywords(schema.SOAPNote{}, entities)

	assert.Empty(t, keywords)
}
