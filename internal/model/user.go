package model

import (
	"strings"
	"time"
)

// PlanTag names a subscription tier.
type PlanTag string

const (
	PlanFree    PlanTag = "free"
	PlanStarter PlanTag = "starter"
	PlanPremium PlanTag = "premium"
	PlanElite   PlanTag = "elite"

	// PlanSuspended is the effective plan of a deactivated user. It has no
	// ceilings in any plan table.
	PlanSuspended PlanTag = "suspended"
)

// ParsePlanTag normalizes a plan name.
func ParsePlanTag(s string) PlanTag {
	return PlanTag(strings.ToLower(strings.TrimSpace(s)))
}

// User is a person known to the identity provider.
type User struct {
	ID               string  `json:"id" gorm:"primaryKey;size:191"`
	Email            string  `json:"email" gorm:"uniqueIndex;not null;size:320"`
	FirstName        string  `json:"first_name" gorm:"size:255"`
	LastName         string  `json:"last_name" gorm:"size:255"`
	Plan             PlanTag `json:"plan" gorm:"not null;default:free;size:32"`
	StripeCustomerID *string `json:"-" gorm:"column:stripe_customer_id;index;size:255"`
	IsActive         bool    `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// DisplayName joins the name fields, falling back to the email.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Email
	}
	return name
}

// EffectivePlan is the plan the quota gate applies.
func (u *User) EffectivePlan() PlanTag {
	if !u.IsActive {
		return PlanSuspended
	}
	return u.Plan
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Plan      PlanTag   `json:"plan"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a user to its public representation.
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Plan:      u.Plan,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
