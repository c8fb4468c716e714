package jobs

import (
	"strings"

	"github.com/rezzy/server/internal/model"
)

const (
	defaultQuery = "software developer"

	// titleScanLines is how many leading lines may hold the job title.
	titleScanLines = 5
)

var (
	titleWords = []string{"developer", "engineer", "manager", "analyst", "specialist"}

	seniorWords = []string{"senior", "lead", "principal", "architect"}
	midWords    = []string{"mid", "intermediate", "3+ years", "4+ years"}
	entryWords  = []string{"junior", "entry", "graduate", "0-2 years"}
)

// searchQuery derives a board query from a job description: the first of
// the leading lines that names a role, else the first non-empty line.
func searchQuery(jobDescription string) string {
	lines := strings.Split(strings.TrimSpace(jobDescription), "\n")
	for i, line := range lines {
		if i == titleScanLines {
			break
		}
		line = strings.ToLower(strings.TrimSpace(line))
		if containsAny(line, titleWords) {
			return line
		}
	}
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return defaultQuery
}

// experienceLevel classifies a posting by the seniority words in its text.
func experienceLevel(description string) string {
	lowered := strings.ToLower(description)
	switch {
	case containsAny(lowered, seniorWords):
		return model.ExperienceSenior
	case containsAny(lowered, midWords):
		return model.ExperienceMid
	case containsAny(lowered, entryWords):
		return model.ExperienceEntry
	default:
		return model.ExperienceMid
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
