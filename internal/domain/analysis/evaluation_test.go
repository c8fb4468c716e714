package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluation_JSONWithSurroundingText(t *testing.T) {
	output := "Here is the evaluation:\n```json\n" + `{
		"match_score": 82,
		"overall_assessment": "Good fit",
		"strengths": ["Go experience"],
		"weaknesses": [],
		"missing_keywords": ["kubernetes"],
		"ats_compatibility_score": 140
	}` + "\n```\nGood luck!"

	eval, fellBack := ParseEvaluation(output)
	require.False(t, fellBack)
	assert.Equal(t, 82, eval.MatchScore)
	assert.Equal(t, "Good fit", eval.OverallAssessment)
	assert.Equal(t, []string{"kubernetes"}, eval.MissingKeywords)
	assert.Equal(t, 100, eval.ATSCompatibilityScore)
	assert.NotNil(t, eval.ImprovedBulletPoints)
	assert.Empty(t, eval.ImprovedBulletPoints)
}

func TestParseEvaluation_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		output string
		score  int
	}{
		{"plain text with score", "Overall the candidate is solid.\nMatch score: 64/100\nImprove metrics.", 64},
		{"no score", "I cannot evaluate this resume.", fallbackMatchScore},
		{"out of range score", "Score: 250", fallbackMatchScore},
		{"broken json keeps the score", `{"match_score": 90, "strengths": [}`, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, fellBack := ParseEvaluation(tt.output)
			assert.True(t, fellBack)
			assert.Equal(t, tt.score, eval.MatchScore)
			assert.Equal(t, fallbackATSScore, eval.ATSCompatibilityScore)
			assert.NotNil(t, eval.Strengths)
		})
	}
}

func TestEvaluationPrompt(t *testing.T) {
	prompt := evaluationPrompt("RESUME BODY", "JOB BODY")

	assert.Contains(t, prompt, "Job Description:\nJOB BODY")
	assert.Contains(t, prompt, "Resume:\nRESUME BODY")
	assert.Contains(t, prompt, `"match_score"`)
	assert.Contains(t, prompt, "by 40%")
}
