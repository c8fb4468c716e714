package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rezzy/server/internal/model"
)

const (
	evaluationTemperature = 0.3
	evaluationMaxTokens   = 1500

	fallbackMatchScore = 70
	fallbackATSScore   = 80
)

const evaluationSystemPrompt = "You are an expert resume evaluator and career coach. " +
	"You answer with a single JSON object and no other text."

const evaluationPromptTemplate = `Analyze the following resume against the job description and provide a detailed evaluation.

Job Description:
%s

Resume:
%s

Provide your analysis in the following JSON format:
{
    "match_score": 85,
    "overall_assessment": "Strong match with room for improvement",
    "strengths": ["Good technical skills alignment", "Relevant experience in the field"],
    "weaknesses": ["Missing some key technologies", "Could improve quantifiable achievements"],
    "missing_keywords": ["python", "aws", "leadership"],
    "suggested_improvements": ["Add specific metrics to achievements", "Include more relevant keywords"],
    "improved_bullet_points": ["Led a team of 5 developers to deliver a web application that increased user engagement by 40%%"],
    "ats_compatibility_score": 90,
    "ats_recommendations": ["Use standard section headers", "Avoid graphics and tables"]
}

Focus on actionable, specific feedback that will help the candidate improve their resume for this specific job.`

var numberPattern = regexp.MustCompile(`\d+`)

func evaluationPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(evaluationPromptTemplate, jobDescription, resumeText)
}

// ParseEvaluation decodes the JSON object between the first '{' and the last
// '}' of the model output. Unparsable output yields a fallback evaluation
// with any score found in the text; fellBack reports that case.
func ParseEvaluation(output string) (eval *model.Evaluation, fellBack bool) {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start >= 0 && end > start {
		var parsed model.Evaluation
		if err := json.Unmarshal([]byte(output[start:end+1]), &parsed); err == nil {
			normalizeEvaluation(&parsed)
			return &parsed, false
		}
	}
	return fallbackEvaluation(output), true
}

func fallbackEvaluation(output string) *model.Evaluation {
	eval := &model.Evaluation{
		MatchScore:            fallbackMatchScore,
		OverallAssessment:     "Analysis completed",
		ATSCompatibilityScore: fallbackATSScore,
	}

	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(strings.ToLower(line), "score") {
			continue
		}
		if n, err := strconv.Atoi(numberPattern.FindString(line)); err == nil && n >= 0 && n <= 100 {
			eval.MatchScore = n
		}
	}

	normalizeEvaluation(eval)
	return eval
}

// normalizeEvaluation clamps scores and replaces nil lists with empty ones so
// the stored JSON has a stable shape.
func normalizeEvaluation(e *model.Evaluation) {
	e.MatchScore = clampScore(e.MatchScore)
	e.ATSCompatibilityScore = clampScore(e.ATSCompatibilityScore)
	for _, list := range []*[]string{
		&e.Strengths, &e.Weaknesses, &e.MissingKeywords, &e.SuggestedImprovements,
		&e.ImprovedBulletPoints, &e.ATSRecommendations,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
