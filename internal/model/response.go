package model

import "time"

// CoverLetterResponse is the body of POST /generate-cover-letter.
type CoverLetterResponse struct {
	CoverLetter string    `json:"cover_letter"`
	CompanyName string    `json:"company_name"`
	GeneratedAt time.Time `json:"generated_at"`
}

// InterviewQuestionsResponse is the body of POST /generate-interview-questions.
type InterviewQuestionsResponse struct {
	Questions   []string  `json:"questions"`
	GeneratedAt time.Time `json:"generated_at"`
}

// WebhookAck is the body returned to the payment provider.
type WebhookAck struct {
	Status  string `json:"status"`
	EventID string `json:"event_id,omitempty"`
}

// Webhook acknowledgement statuses.
const (
	WebhookStatusProcessed        = "processed"
	WebhookStatusAlreadyProcessed = "already_processed"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Time    string `json:"time"`
}
