package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAssessment = `{
	"conditions": [
		{"name": "Influenza", "likelihood": 78.5, "symptoms": ["demam", "sakit kepala"], "description": "Infeksi virus"}
	],
	"triage": {"urgency": "medium", "priority": 3, "recommendation": "Konsultasi dokter", "reasoning": "Gejala sistemik"},
	"recommendations": ["Istirahat yang cukup"],
	"red_flags": ["Sesak napas"],
	"follow_up": "Kontrol dalam 48 jam"
}`

func Test_ParseAssessment(t *testing.T) {
	assessment, err := ParseAssessment(sampleAssessment)

	require.NoError(t, err)
	require.Len(t, assessment.Conditions, 1)
	assert.Equal(t, "Influenza", assessment.Conditions[0].Name)
	assert.Equal(t, 78.5, assessment.Conditions[0].Likelihood)
	assert.Equal(t, []string{"demam", "sakit kepala"}, assessment.Conditions[0].Symptoms)
	assert.Equal(t, "medium", assessment.Triage.Urgency)
	assert.Equal(t, 3, assessment.Triage.Priority)
	assert.Equal(t, []string{"Istirahat yang cukup"}, assessment.Recommendations)
	assert.Equal(t, []string{"Sesak napas"}, assessment.RedFlags)
	assert.Equal(t, "Kontrol dalam 48 jam", assessment.FollowUp)
	assert.Nil(t, assessment.SourcesUsed)
}

func Test_ParseAssessment_JSONFence(t *testing.T) {
	raw := "```json\n" + sampleAssessment + "\n```"

	assessment, err := ParseAssessment(raw)

	require.NoError(t, err)
	assert.Equal(t, "Influenza", assessment.Conditions[0].Name)
}

func Test_ParseAssessment_BareFence(t *testing.T) {
	raw := "```\n" + sampleAssessment + "\n```"

	assessment, err := ParseAssessment(raw)

	require.NoError(t, err)
	assert.Equal(t, "medium", assessment.Triage.Urgency)
}

func Test_ParseAssessment_SurroundingChatter(t *testing.T) {
	raw := "Berikut hasil analisis saya:\n" + sampleAssessment + "\nSemoga membantu!"

	assessment, err := ParseAssessment(raw)

	require.NoError(t, err)
	assert.Equal(t, "Influenza", assessment.Conditions[0].Name)
}

func Test_ParseAssessment_LeadingWhitespace(t *testing.T) {
	assessment, err := ParseAssessment("\n\n  " + sampleAssessment + "  \n")

	require.NoError(t, err)
	assert.Equal(t, "Influenza", assessment.Conditions[0].Name)
}

func Test_ParseAssessment_NoJSON(t *testing.T) {
	_, err := ParseAssessment("Maaf, saya tidak dapat menganalisis gejala tersebut.")

	assert.Error(t, err)
}

func Test_ParseAssessment_MalformedJSON(t *testing.T) {
	_, err := ParseAssessment(`{"conditions": [}`)

	assert.Error(t, err)
}

func Test_ParseAssessment_Empty(t *testing.T) {
	_, err := ParseAssessment("")

	assert.Error(t, err)
}
