package generation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	coverLetterTemperature = 0.7
	coverLetterMaxTokens   = 800

	interviewTemperature = 0.5
	interviewMaxTokens   = 600

	// resumeExcerptLength is how much of the resume the cover letter prompt sees.
	resumeExcerptLength = 500
	maxQuestions        = 7

	defaultCompanyName = "the company"
)

const writerSystemPrompt = "You are an experienced career coach who writes for job seekers."

const coverLetterPromptTemplate = `Write a professional cover letter for the following job application.

Job Description:
%s

Resume Summary:
%s

Company: %s

Write a compelling cover letter that:
1. Addresses the hiring manager professionally
2. Shows enthusiasm for the role
3. Highlights relevant experience from the resume
4. Explains why the candidate is a good fit for the company
5. Ends with a call to action

Keep it concise (200-300 words) and professional.`

const interviewPromptTemplate = `Generate 5-7 relevant interview questions for a candidate with this resume applying for this job.

Job Description:
%s

Resume:
%s

Generate questions that:
1. Probe into specific experiences mentioned in the resume
2. Test knowledge of technologies and skills required for the job
3. Assess problem-solving and communication abilities
4. Are relevant to the specific role and industry

Return only the questions, one per line, without numbering.`

func coverLetterPrompt(resumeText, jobDescription, companyName string) string {
	return fmt.Sprintf(coverLetterPromptTemplate, jobDescription, excerpt(resumeText, resumeExcerptLength), companyName)
}

func interviewPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(interviewPromptTemplate, jobDescription, resumeText)
}

// excerpt keeps the first limit runes and marks the cut.
func excerpt(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

// questionPrefix matches list markers models add despite being told not to:
// "1.", "2)", "-", "*", "•" and "Q3:".
var questionPrefix = regexp.MustCompile(`(?i)^(?:[-*•]+|\d+[.)]|q\d+[:.)]?)\s+`)

// ParseQuestions splits model output into at most seven questions, one per
// non-empty line, without list markers.
func ParseQuestions(output string) []string {
	questions := make([]string, 0, maxQuestions)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(questionPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == maxQuestions {
			break
		}
	}
	return questions
}
