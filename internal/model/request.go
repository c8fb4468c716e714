package model

// Requests accept JSON bodies and form posts alike. UserID is optional and,
// when present, must match the authenticated subject.

// CreateUserRequest is the body of POST /create-user.
type CreateUserRequest struct {
	UserID    string `json:"user_id" form:"user_id"`
	Email     string `json:"email" form:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
}

// AnalyzeJobRequest is the body of POST /analyze-job.
type AnalyzeJobRequest struct {
	JobDescription string `json:"job_description" form:"job_description" binding:"required"`
}

// EvaluateResumeRequest is the body of POST /evaluate-resume.
type EvaluateResumeRequest struct {
	UserID         string  `json:"user_id" form:"user_id"`
	ResumeText     string  `json:"resume_text" form:"resume_text" binding:"required"`
	JobDescription string  `json:"job_description" form:"job_description" binding:"required"`
	ResumeFileID   *string `json:"resume_file_id,omitempty" form:"resume_file_id"`
}

// CoverLetterRequest is the body of POST /generate-cover-letter.
type CoverLetterRequest struct {
	UserID         string `json:"user_id" form:"user_id"`
	ResumeText     string `json:"resume_text" form:"resume_text" binding:"required"`
	JobDescription string `json:"job_description" form:"job_description" binding:"required"`
	CompanyName    string `json:"company_name" form:"company_name"`
}

// InterviewQuestionsRequest is the body of POST /generate-interview-questions.
type InterviewQuestionsRequest struct {
	UserID         string `json:"user_id" form:"user_id"`
	ResumeText     string `json:"resume_text" form:"resume_text" binding:"required"`
	JobDescription string `json:"job_description" form:"job_description" binding:"required"`
}

// CheckoutRequest is the body of POST /create-checkout-session.
type CheckoutRequest struct {
	UserID string `json:"user_id" form:"user_id"`
	Plan   string `json:"plan" form:"plan" binding:"required"`
}

// ListQuery holds list endpoint query parameters.
type ListQuery struct {
	UserID string `form:"user_id"`
	Limit  int    `form:"limit"`
}
