package model

import "time"

// OperationKind is a metered operation.
type OperationKind string

const (
	OperationResumeScan         OperationKind = "resume_scan"
	OperationCoverLetter        OperationKind = "cover_letter"
	OperationInterviewQuestions OperationKind = "interview_questions"
)

// OperationKinds lists every metered operation.
func OperationKinds() []OperationKind {
	return []OperationKind{OperationResumeScan, OperationCoverLetter, OperationInterviewQuestions}
}

// IsValid reports whether k is a known operation kind.
func (k OperationKind) IsValid() bool {
	switch k {
	case OperationResumeScan, OperationCoverLetter, OperationInterviewQuestions:
		return true
	default:
		return false
	}
}

// Column returns the usage_periods counter column for k.
func (k OperationKind) Column() string {
	switch k {
	case OperationResumeScan:
		return "scans_used"
	case OperationCoverLetter:
		return "cover_letters_generated"
	case OperationInterviewQuestions:
		return "interview_questions_generated"
	default:
		return ""
	}
}

// MonthLabel returns the calendar month key ("2006-01", UTC) for t.
func MonthLabel(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// UsagePeriod holds one user's counters for one calendar month.
type UsagePeriod struct {
	UserID                      string `json:"user_id" gorm:"primaryKey;size:191"`
	Month                       string `json:"month" gorm:"primaryKey;size:7"`
	ScansUsed                   int    `json:"scans_used" gorm:"not null;default:0;check:chk_usage_scans,scans_used >= 0"`
	CoverLettersGenerated       int    `json:"cover_letters_generated" gorm:"not null;default:0;check:chk_usage_cover,cover_letters_generated >= 0"`
	InterviewQuestionsGenerated int    `json:"interview_questions_generated" gorm:"not null;default:0;check:chk_usage_interview,interview_questions_generated >= 0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name.
func (UsagePeriod) TableName() string {
	return "usage_periods"
}

// Used returns the counter for kind.
func (p *UsagePeriod) Used(kind OperationKind) int {
	if p == nil {
		return 0
	}
	switch kind {
	case OperationResumeScan:
		return p.ScansUsed
	case OperationCoverLetter:
		return p.CoverLettersGenerated
	case OperationInterviewQuestions:
		return p.InterviewQuestionsGenerated
	default:
		return 0
	}
}

// UsageResponse is the public representation of a usage period.
type UsageResponse struct {
	Month                       string `json:"month"`
	ScansUsed                   int    `json:"scans_used"`
	CoverLettersGenerated       int    `json:"cover_letters_generated"`
	InterviewQuestionsGenerated int    `json:"interview_questions_generated"`
}

// ToResponse converts a usage period to its public representation.
func (p *UsagePeriod) ToResponse() *UsageResponse {
	return &UsageResponse{
		Month:                       p.Month,
		ScansUsed:                   p.ScansUsed,
		CoverLettersGenerated:       p.CoverLettersGenerated,
		InterviewQuestionsGenerated: p.InterviewQuestionsGenerated,
	}
}

// PlanLimitsResponse lists the ceilings of one plan. -1 means unlimited.
type PlanLimitsResponse struct {
	ResumeScans        int  `json:"resume_scans"`
	CoverLetters       int  `json:"cover_letters"`
	InterviewQuestions int  `json:"interview_questions"`
	JobSearch          bool `json:"job_search"`
}

// PlanStatusResponse is the body of GET /get-plan.
type PlanStatusResponse struct {
	UserID      string              `json:"user_id"`
	Plan        PlanTag             `json:"plan"`
	PlanVersion string              `json:"plan_version"`
	Limits      *PlanLimitsResponse `json:"limits"`
	Usage       *UsageResponse      `json:"usage"`
}

// PlanCatalogEntry describes a purchasable plan.
type PlanCatalogEntry struct {
	Plan       PlanTag             `json:"plan"`
	PriceCents int64               `json:"price_cents"`
	Limits     *PlanLimitsResponse `json:"limits"`
}

// DenyReason explains a denied gate decision.
type DenyReason string

const (
	// DenyLimitReached means the monthly counter is at the ceiling.
	DenyLimitReached DenyReason = "limit_reached"
	// DenyNotInPlan means the plan has a ceiling of zero for the operation.
	DenyNotInPlan DenyReason = "not_in_plan"
)

// GateDecision is the outcome of a usage check. Used is the counter value
// after the call.
type GateDecision struct {
	Allowed   bool          `json:"allowed"`
	Reason    DenyReason    `json:"reason,omitempty"`
	Operation OperationKind `json:"operation"`
	Plan      PlanTag       `json:"plan"`
	Month     string        `json:"month"`
	Limit     int           `json:"limit"`
	Used      int           `json:"used"`
}
