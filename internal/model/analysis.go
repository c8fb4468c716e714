package model

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeAnalysis is a persisted resume evaluation. Rows are never updated.
type ResumeAnalysis struct {
	ID             string         `json:"id" gorm:"primaryKey;size:36"`
	UserID         string         `json:"user_id" gorm:"not null;size:191;index:idx_resume_analyses_user_created,priority:1"`
	ResumeText     string         `json:"resume_text" gorm:"type:text;not null"`
	JobDescription string         `json:"job_description" gorm:"type:text;not null"`
	Evaluation     datatypes.JSON `json:"evaluation"`
	KeywordGaps    datatypes.JSON `json:"keyword_gaps"`
	JobAnalysis    datatypes.JSON `json:"job_analysis"`
	ResumeFileID   *string        `json:"resume_file_id,omitempty" gorm:"size:36"`
	CreatedAt      time.Time      `json:"created_at" gorm:"index:idx_resume_analyses_user_created,priority:2"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name.
func (ResumeAnalysis) TableName() string {
	return "resume_analyses"
}

// Evaluation is the structured result of an LLM resume review.
type Evaluation struct {
	MatchScore            int      `json:"match_score"`
	OverallAssessment     string   `json:"overall_assessment"`
	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	MissingKeywords       []string `json:"missing_keywords"`
	SuggestedImprovements []string `json:"suggested_improvements"`
	ImprovedBulletPoints  []string `json:"improved_bullet_points"`
	ATSCompatibilityScore int      `json:"ats_compatibility_score"`
	ATSRecommendations    []string `json:"ats_recommendations"`
}

// KeywordSet groups keywords found in a text by category.
type KeywordSet struct {
	Technical       []string `json:"technical"`
	Soft            []string `json:"soft"`
	ExperienceLevel []string `json:"experience_level"`
	Education       []string `json:"education"`
}

// Total returns the number of keywords in the set.
func (k *KeywordSet) Total() int {
	return len(k.Technical) + len(k.Soft) + len(k.ExperienceLevel) + len(k.Education)
}

// KeywordGaps lists job keywords that the resume does not mention.
type KeywordGaps struct {
	MissingTechnical   []string `json:"missing_technical"`
	MissingSoft        []string `json:"missing_soft"`
	TotalMissing       int      `json:"total_missing"`
	CoveragePercentage float64  `json:"coverage_percentage"`
}

// JobAnalysis is the structured summary of a job description.
type JobAnalysis struct {
	Keywords        KeywordSet `json:"keywords"`
	YearsRequired   []int      `json:"years_required"`
	SalaryMentions  []string   `json:"salary_mentions"`
	Difficulty      string     `json:"difficulty"`
	TotalKeywords   int        `json:"total_keywords"`
	WordCount       int        `json:"word_count"`
	Recommendations []string   `json:"recommendations"`
}

// EvaluationResult is the body of POST /evaluate-resume.
type EvaluationResult struct {
	AnalysisID  string       `json:"analysis_id,omitempty"`
	Evaluation  *Evaluation  `json:"evaluation"`
	KeywordGaps *KeywordGaps `json:"keyword_gaps"`
	JobAnalysis *JobAnalysis `json:"job_analysis"`
	CreatedAt   time.Time    `json:"created_at"`
}

// AnalysisSummary is a list entry of GET /resume-analyses.
type AnalysisSummary struct {
	ID             string    `json:"id"`
	ResumeText     string    `json:"resume_text"`
	JobDescription string    `json:"job_description"`
	MatchScore     int       `json:"match_score"`
	CreatedAt      time.Time `json:"created_at"`
}

// AnalysisDetail is the body of GET /resume-analysis/{id}.
type AnalysisDetail struct {
	ID             string       `json:"id"`
	ResumeText     string       `json:"resume_text"`
	JobDescription string       `json:"job_description"`
	Evaluation     *Evaluation  `json:"evaluation"`
	KeywordGaps    *KeywordGaps `json:"keyword_gaps"`
	JobAnalysis    *JobAnalysis `json:"job_analysis"`
	ResumeFileID   *string      `json:"resume_file_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
