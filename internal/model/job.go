package model

import "time"

// Experience levels inferred from a job description.
const (
	ExperienceEntry  = "entry"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
)

// JobPosting is one job board result.
type JobPosting struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Location        string     `json:"location"`
	Description     string     `json:"description"`
	Requirements    []string   `json:"requirements"`
	Salary          string     `json:"salary,omitempty"`
	JobType         string     `json:"job_type,omitempty"`
	Source          string     `json:"source"`
	SourceURL       string     `json:"source_url,omitempty"`
	PostedAt        *time.Time `json:"posted_date,omitempty"`
	ExperienceLevel string     `json:"experience_level"`
	MatchScore      *float64   `json:"match_score,omitempty"`
}

// SearchJobsRequest is the body of POST /search-jobs.
type SearchJobsRequest struct {
	UserID   string `json:"user_id" form:"user_id"`
	Query    string `json:"query" form:"query" binding:"required"`
	Location string `json:"location" form:"location"`
	Limit    int    `json:"limit" form:"limit"`
}

// MatchJobsRequest is the body of POST /match-jobs.
type MatchJobsRequest struct {
	UserID         string `json:"user_id" form:"user_id"`
	ResumeText     string `json:"resume_text" form:"resume_text" binding:"required"`
	JobDescription string `json:"job_description" form:"job_description" binding:"required"`
	Location       string `json:"location" form:"location"`
	Limit          int    `json:"limit" form:"limit"`
}

// JobsResponse is the body of the job search endpoints.
type JobsResponse struct {
	Query string        `json:"query"`
	Jobs  []*JobPosting `json:"jobs"`
}
