package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rezzy/server/internal/model"
)

var (
	technicalSkills = []string{
		"python", "javascript", "java", "c++", "c#", "php", "ruby", "go", "rust", "swift", "kotlin",
		"react", "angular", "vue", "node.js", "express", "django", "flask", "spring", "laravel",
		"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch",
		"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git", "github",
		"machine learning", "ai", "data science", "pandas", "numpy", "tensorflow", "pytorch",
		"html", "css", "bootstrap", "tailwind", "sass", "less",
		"agile", "scrum", "kanban", "jira", "confluence",
	}

	softSkills = []string{
		"leadership", "communication", "teamwork", "problem solving", "analytical thinking",
		"creativity", "adaptability", "time management", "organization", "attention to detail",
		"customer service", "project management", "collaboration", "mentoring", "presentation",
	}

	experienceLevels = []string{
		"entry level", "junior", "mid level", "senior", "lead", "principal", "architect",
		"intern", "graduate", "experienced", "expert",
	}

	educationTerms = []string{
		"bachelor", "master", "phd", "degree", "diploma", "certification", "certified",
	}
)

var (
	yearsPattern  = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`)
	salaryPattern = regexp.MustCompile(`\$(\d{1,3}(?:,\d{3})*(?:-\d{1,3}(?:,\d{3})*)?)\s*(?:k\+|k|per\s*year|annually)`)
)

// vocabulary matches a fixed keyword list on token boundaries, so "go" does
// not match "google" and "ai" does not match "maintain".
type vocabulary struct {
	terms    []string
	patterns []*regexp.Regexp
}

func newVocabulary(terms []string) *vocabulary {
	v := &vocabulary{terms: terms, patterns: make([]*regexp.Regexp, len(terms))}
	for i, term := range terms {
		v.patterns[i] = regexp.MustCompile(`(?:^|[^a-z0-9+#.])` + regexp.QuoteMeta(term) + `(?:$|[^a-z0-9+#])`)
	}
	return v
}

// find returns the terms present in lowered text, in vocabulary order.
func (v *vocabulary) find(lowered string) []string {
	found := make([]string, 0)
	for i, p := range v.patterns {
		if p.MatchString(lowered) {
			found = append(found, v.terms[i])
		}
	}
	return found
}

func (v *vocabulary) contains(lowered, term string) bool {
	for i, t := range v.terms {
		if t == term {
			return v.patterns[i].MatchString(lowered)
		}
	}
	return false
}

var (
	technicalVocabulary  = newVocabulary(technicalSkills)
	softVocabulary       = newVocabulary(softSkills)
	experienceVocabulary = newVocabulary(experienceLevels)
	educationVocabulary  = newVocabulary(educationTerms)
)

// ExtractKeywords finds known skills, levels and education terms in text.
func ExtractKeywords(text string) model.KeywordSet {
	lowered := strings.ToLower(text)
	return model.KeywordSet{
		Technical:       technicalVocabulary.find(lowered),
		Soft:            softVocabulary.find(lowered),
		ExperienceLevel: experienceVocabulary.find(lowered),
		Education:       educationVocabulary.find(lowered),
	}
}

// AnalyzeJobDescription summarizes the requirements of a job posting.
func AnalyzeJobDescription(jobDescription string) *model.JobAnalysis {
	lowered := strings.ToLower(jobDescription)
	keywords := ExtractKeywords(jobDescription)

	years := make([]int, 0)
	for _, m := range yearsPattern.FindAllStringSubmatch(lowered, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			years = append(years, n)
		}
	}

	salaries := make([]string, 0)
	for _, m := range salaryPattern.FindAllStringSubmatch(lowered, -1) {
		salaries = append(salaries, m[1])
	}

	analysis := &model.JobAnalysis{
		Keywords:        keywords,
		YearsRequired:   years,
		SalaryMentions:  salaries,
		Difficulty:      difficulty(years),
		TotalKeywords:   len(keywords.Technical) + len(keywords.Soft),
		WordCount:       len(strings.Fields(jobDescription)),
		Recommendations: make([]string, 0),
	}

	if len(keywords.Technical) > 10 {
		analysis.Recommendations = append(analysis.Recommendations,
			"This role requires many technical skills. Focus on the most relevant ones for your resume.")
	}
	if maxInt(years) > 5 {
		analysis.Recommendations = append(analysis.Recommendations,
			"This is a senior-level position. Emphasize leadership and project experience.")
	}
	if len(keywords.Education) > 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			"Education requirements are listed. Make sure your degrees and certifications are easy to find.")
	}

	return analysis
}

// difficulty is entry up to 2 years, mid up to 5, senior beyond. Postings
// without a stated requirement are entry level.
func difficulty(years []int) string {
	if len(years) == 0 {
		return "entry"
	}
	switch m := maxInt(years); {
	case m <= 2:
		return "entry"
	case m <= 5:
		return "mid"
	default:
		return "senior"
	}
}

func maxInt(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// FindKeywordGaps lists job skills the resume does not mention.
func FindKeywordGaps(resumeText, jobDescription string) *model.KeywordGaps {
	resume := strings.ToLower(resumeText)
	job := ExtractKeywords(jobDescription)

	gaps := &model.KeywordGaps{
		MissingTechnical: make([]string, 0),
		MissingSoft:      make([]string, 0),
	}
	for _, skill := range job.Technical {
		if !technicalVocabulary.contains(resume, skill) {
			gaps.MissingTechnical = append(gaps.MissingTechnical, skill)
		}
	}
	for _, skill := range job.Soft {
		if !softVocabulary.contains(resume, skill) {
			gaps.MissingSoft = append(gaps.MissingSoft, skill)
		}
	}

	required := len(job.Technical) + len(job.Soft)
	gaps.TotalMissing = len(gaps.MissingTechnical) + len(gaps.MissingSoft)

	denominator := required
	if denominator < 1 {
		denominator = 1
	}
	coverage := float64(required-gaps.TotalMissing) / float64(denominator) * 100
	gaps.CoveragePercentage = math.Round(coverage*10) / 10

	return gaps
}
