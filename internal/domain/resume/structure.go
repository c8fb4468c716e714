package resume

import (
	"math"
	"strings"

	"github.com/rezzy/server/internal/model"
)

const (
	minRecommendedWords = 200
	maxRecommendedWords = 800
	wordsPerMinute      = 200
)

var (
	contactMarkers    = []string{"email", "phone", "@"}
	educationMarkers  = []string{"education", "degree", "university", "college"}
	experienceMarkers = []string{"experience", "work", "employment", "job"}
	skillsMarkers     = []string{"skills", "technologies", "programming", "languages"}
)

// AnalyzeStructure reports which usual resume sections the text contains.
func AnalyzeStructure(text string) *model.ResumeStructure {
	lowered := strings.ToLower(text)
	words := len(strings.Fields(text))

	s := &model.ResumeStructure{
		WordCount:          words,
		HasContactInfo:     containsAny(lowered, contactMarkers),
		HasEducation:       containsAny(lowered, educationMarkers),
		HasExperience:      containsAny(lowered, experienceMarkers),
		HasSkills:          containsAny(lowered, skillsMarkers),
		EstimatedReadTimeS: int(math.Ceil(float64(words) / wordsPerMinute * 60)),
		Recommendations:    make([]string, 0),
	}

	switch {
	case words < minRecommendedWords:
		s.Recommendations = append(s.Recommendations, "Resume seems too short. Consider adding more details about your experience.")
	case words > maxRecommendedWords:
		s.Recommendations = append(s.Recommendations, "Resume might be too long. Consider condensing to 1-2 pages.")
	}
	if !s.HasContactInfo {
		s.Recommendations = append(s.Recommendations, "Add contact information (email, phone).")
	}
	if !s.HasEducation {
		s.Recommendations = append(s.Recommendations, "Include an education section.")
	}
	if !s.HasExperience {
		s.Recommendations = append(s.Recommendations, "Add a work experience section.")
	}
	if !s.HasSkills {
		s.Recommendations = append(s.Recommendations, "Include a skills section.")
	}
	return s
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
