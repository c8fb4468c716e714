package billing

import (
	"sort"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/rezzy/server/internal/shared/config"
)

// Tier holds the monthly ceilings, price and unmetered features of one plan.
type Tier struct {
	ResumeScans        int
	CoverLetters       int
	InterviewQuestions int
	PriceCents         int64
	JobSearch          bool
}

// Ceiling returns the ceiling for kind. Unknown kinds have none.
func (t Tier) Ceiling(kind model.OperationKind) int {
	switch kind {
	case model.OperationResumeScan:
		return t.ResumeScans
	case model.OperationCoverLetter:
		return t.CoverLetters
	case model.OperationInterviewQuestions:
		return t.InterviewQuestions
	default:
		return 0
	}
}

// PlanTable is a versioned, read-only mapping from plan to ceilings.
// PlanTable is a value object - it is built once at start-up and never mutated.
// A plan missing from the table has a ceiling of zero for every operation.
type PlanTable struct {
	version string
	tiers   map[model.PlanTag]Tier
}

// NewPlanTable creates a plan table. The tiers map is copied.
func NewPlanTable(version string, tiers map[model.PlanTag]Tier) *PlanTable {
	copied := make(map[model.PlanTag]Tier, len(tiers))
	for plan, tier := range tiers {
		copied[plan] = tier
	}
	return &PlanTable{version: version, tiers: copied}
}

// PlanTableFromConfig builds the table from the plans config section.
func PlanTableFromConfig(cfg *config.PlansConfig) *PlanTable {
	tiers := make(map[model.PlanTag]Tier, len(cfg.Tiers))
	for name, limits := range cfg.Tiers {
		tiers[model.ParsePlanTag(name)] = Tier{
			ResumeScans:        limits.ResumeScans,
			CoverLetters:       limits.CoverLetters,
			InterviewQuestions: limits.InterviewQuestions,
			PriceCents:         limits.PriceCents,
			JobSearch:          limits.JobSearch,
		}
	}
	return NewPlanTable(cfg.Version, tiers)
}

// Version identifies the table contents.
func (t *PlanTable) Version() string {
	return t.version
}

// Ceiling returns the monthly ceiling of kind for plan. outbound.Unlimited
// means no ceiling; 0 means the operation is not part of the plan.
func (t *PlanTable) Ceiling(plan model.PlanTag, kind model.OperationKind) int {
	tier, ok := t.tiers[plan]
	if !ok {
		return 0
	}
	ceiling := tier.Ceiling(kind)
	if ceiling < outbound.Unlimited {
		return 0
	}
	return ceiling
}

// JobSearch reports whether plan includes job board search.
func (t *PlanTable) JobSearch(plan model.PlanTag) bool {
	return t.tiers[plan].JobSearch
}

// Tier returns the tier of plan.
func (t *PlanTable) Tier(plan model.PlanTag) (Tier, bool) {
	tier, ok := t.tiers[plan]
	return tier, ok
}

// Has reports whether plan is in the table.
func (t *PlanTable) Has(plan model.PlanTag) bool {
	_, ok := t.tiers[plan]
	return ok
}

// Limits returns the ceilings of plan in response form.
func (t *PlanTable) Limits(plan model.PlanTag) *model.PlanLimitsResponse {
	return &model.PlanLimitsResponse{
		ResumeScans:        t.Ceiling(plan, model.OperationResumeScan),
		CoverLetters:       t.Ceiling(plan, model.OperationCoverLetter),
		InterviewQuestions: t.Ceiling(plan, model.OperationInterviewQuestions),
		JobSearch:          t.JobSearch(plan),
	}
}

// Plans returns every plan ordered by price, then name.
func (t *PlanTable) Plans() []model.PlanTag {
	plans := make([]model.PlanTag, 0, len(t.tiers))
	for plan := range t.tiers {
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		pi, pj := t.tiers[plans[i]].PriceCents, t.tiers[plans[j]].PriceCents
		if pi != pj {
			return pi < pj
		}
		return plans[i] < plans[j]
	})
	return plans
}
