package billing

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rezzy/server/internal/adapter/outbound/postgres"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testClock is a settable clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func testPlans() *PlanTable {
	return NewPlanTable("test-1", map[model.PlanTag]Tier{
		model.PlanFree:    {ResumeScans: 3},
		model.PlanStarter: {ResumeScans: outbound.Unlimited, PriceCents: 900},
		model.PlanPremium: {ResumeScans: outbound.Unlimited, CoverLetters: outbound.Unlimited, InterviewQuestions: outbound.Unlimited, PriceCents: 1900},
		"single":          {ResumeScans: 1, CoverLetters: 1, InterviewQuestions: 1},
	})
}

type gateFixture struct {
	db    *gorm.DB
	gate  *Gate
	clock *testClock
	users outbound.UserDatabasePort
	usage outbound.UsageDatabasePort
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	// A file database with a connection pool lets concurrent gate calls run
	// in overlapping transactions.
	dsn := "file:" + filepath.Join(t.TempDir(), "gate.db") + "?_journal_mode=WAL&_busy_timeout=10000&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(8)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	clock := &testClock{now: time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)}
	users := postgres.NewUserAdapter(db)
	usage := postgres.NewUsagePeriodAdapter(db)

	return &gateFixture{
		db:    db,
		gate:  NewGate(users, usage, testPlans(), clock.Now),
		clock: clock,
		users: users,
		usage: usage,
	}
}

func (f *gateFixture) addUser(t *testing.T, id string, plan model.PlanTag) {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), &model.User{
		ID:       id,
		Email:    id + "@example.com",
		Plan:     plan,
		IsActive: true,
	}))
}

func TestGate_AllowsExactlyCeilingThenDenies(t *testing.T) {
	f := newGateFixture(t)
	f.addUser(t, "u1", model.PlanFree)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := f.gate.CheckAndConsume(ctx, "u1", model.OperationResumeScan)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "call %d", i)
		assert.Equal(t, i, d.Used)
		assert.Equal(t, 3, d.Limit)
	}

	for i := 0; i < 3; i++ {
		d, err := f.gate.CheckAndConsume(ctx, "u1", model.OperationResumeScan)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, model.DenyLimitReached, d.Reason)
		assert.Equal(t, 3, d.Limit)
		assert.Equal(t, 3, d.Used)
	}

	period, err := f.usage.Get(ctx, "u1", "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 3, period.ScansUsed)
}

func TestGate_ConcurrentCallsOnLastUnit(t *testing.T) {
	f := newGateFixture(t)
	f.addUser(t, "u1", "single")

	const workers = 16
	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
		denied  atomic.Int32
		start   = make(chan struct{})
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			d, err := f.gate.CheckAndConsume(context.Background(), "u1", model.OperationCoverLetter)
			if !assert.NoError(t, err) {
				return
			}
			if d.Allowed {
				allowed.Add(1)
			} else {
				denied.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), allowed.Load())
	assert.Equal(t, int32(workers-1), denied.Load())

	period, err := f.usage.Get(context.Background(), "u1", "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 1, period.CoverLettersGenerated)
}

func TestGate_MonthRollover(t *testing.T) {
	f := newGateFixture(t)
	f.addUser(t, "u1", model.PlanFree)
	ctx := context.Background()

	f.clock.Set(time.Date(2025, time.January, 31, 23, 59, 59, 0, time.UTC))
	for i := 0; i < 3; i++ {
		d, err := f.gate.CheckAndConsume(ctx, "u1", model.OperationResumeScan)
		require.NoError(t, err)
		require.True(t, d.Allowed)
	}
	d, err := f.gate.CheckAndConsume(ctx, "u1", model.OperationResumeScan)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "2025-01", d.Month)

	f.clock.Set(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	d, err = f.gate.CheckAndConsume(ctx, "u1", model.OperationResumeScan)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, "2025-02", d.Month)
	assert.Equal(t, 1, d.Used)

	jan, err := f.usage.Get(ctx, "u1", "2025-01")
	require.NoError(t, err)
	assert.Equal(t, 3, jan.ScansUsed)
}

func TestGate_MonthUsesUTC(t *testing.T) {
	f := newGateFixture(t)
	f.addUser(t, "u1", model.PlanFree)

	// 20:00 on Jan 31 in New York is already February in UTC.
	ny := time.FixedZone("EST", -5*3600)
	f.clock.Set(time.Date(2025, time.January, 31, 20, 0, 0, 0, ny))

	d, err := f.gate.CheckAndConsume(context.Background(), "u1", model.OperationResumeScan)
	require.NoError(t, err)
	assert.Equal(t, "2025-02", d.Month)
}

func TestGate_ZeroCeilingNeverAllowsOrMutates(t *testing.T) {
	f := newGateFixture(t)
	f.addUser(t, "free", model.PlanFree)
	f.addUser(t, "ghost", "platinum")
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		kind   model.OperationKind
	}{
		{"operation outside plan", "free", model.OperationCoverLetter},
		{"unknown plan", "ghost", model.OperationResumeScan},
		{"unknown plan other kind", "ghost", model.OperationInterviewQuestions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				d, err := f.gate.CheckAndConsume(ctx, tt.userID, tt.kind)
				require.NoError(t, err)
				assert.False(t, d.Allowed)
				assert.Equal(t, model.DenyNotInPlan, d.Reason)
				assert.Equal(t, 0, d.Limit)
				assert.Equal(t, 0, d.Used)
			}

			period, err := f.usage.Get(ctx, tt.userID, "2025-03")
			require.NoError(t, err)
			assert.Nil(t, period, "a denial must not create the period")
		})
	}
}

func TestGate_SuspendedUserDenied(t *testing.T) {
	f := newGateFixture(t)
	f.addUser(t, "u1", model.PlanPremium)
	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", "u1").Update("is_active", false).Error)

	d, err := f.gate.CheckAndConsume(context.Background(), "u1", model.OperationResumeScan)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, model.PlanSuspended, d.Plan)
}

func TestGate_UnlimitedKeepsCounting(t *testing.T) {
	f := newGateFixture(t)
	f.addUser(t, "u1", model.PlanStarter)

	for i := 1; i <= 50; i++ {
		d, err := f.gate.CheckAndConsume(context.Background(), "u1", model.OperationResumeScan)
		require.NoError(t, err)
		require.True(t, d.Allowed)
		assert.Equal(t, outbound.Unlimited, d.Limit)
		assert.Equal(t, i, d.Used)
	}
}

func TestGate_UnknownUser(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.gate.CheckAndConsume(context.Background(), "nobody", model.OperationResumeScan)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestGate_InvalidOperation(t *testing.T) {
	f := newGateFixture(t)
	f.addUser(t, "u1", model.PlanFree)

	_, err := f.gate.CheckAndConsume(context.Background(), "u1", "resume_rewrite")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestGate_StorageUnavailable(t *testing.T) {
	f := newGateFixture(t)
	f.addUser(t, "u1", model.PlanFree)

	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.gate.CheckAndConsume(context.Background(), "u1", model.OperationResumeScan)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPlanTable(t *testing.T) {
	plans := testPlans()

	assert.Equal(t, "test-1", plans.Version())
	assert.Equal(t, 3, plans.Ceiling(model.PlanFree, model.OperationResumeScan))
	assert.Equal(t, 0, plans.Ceiling(model.PlanFree, model.OperationCoverLetter))
	assert.Equal(t, outbound.Unlimited, plans.Ceiling(model.PlanPremium, model.OperationInterviewQuestions))
	assert.Equal(t, 0, plans.Ceiling("unknown", model.OperationResumeScan))
	assert.Equal(t, 0, plans.Ceiling(model.PlanSuspended, model.OperationResumeScan))
	assert.Equal(t, 0, plans.Ceiling(model.PlanPremium, "bogus"))

	assert.Equal(t, []model.PlanTag{model.PlanFree, "single", model.PlanStarter, model.PlanPremium}, plans.Plans())
}

func TestPlanTable_CopiesTiers(t *testing.T) {
	tiers := map[model.PlanTag]Tier{model.PlanFree: {ResumeScans: 3}}
	plans := NewPlanTable("v", tiers)
	tiers[model.PlanFree] = Tier{ResumeScans: 100}

	assert.Equal(t, 3, plans.Ceiling(model.PlanFree, model.OperationResumeScan))
}

func TestPlanTable_JobSearch(t *testing.T) {
	plans := NewPlanTable("v", map[model.PlanTag]Tier{
		model.PlanFree:    {ResumeScans: 3},
		model.PlanPremium: {ResumeScans: outbound.Unlimited, JobSearch: true},
	})

	assert.False(t, plans.JobSearch(model.PlanFree))
	assert.True(t, plans.JobSearch(model.PlanPremium))
	assert.False(t, plans.JobSearch(model.PlanSuspended))
	assert.True(t, plans.Limits(model.PlanPremium).JobSearch)
}

func TestPlanTable_RejectsNegativeBelowUnlimited(t *testing.T) {
	plans := NewPlanTable("v", map[model.PlanTag]Tier{model.PlanFree: {ResumeScans: -7}})
	assert.Equal(t, 0, plans.Ceiling(model.PlanFree, model.OperationResumeScan))
}

func TestGate_DecisionFollowsGuardedIncrement(t *testing.T) {
	users := new(MockUserDB)
	usage := new(MockUsageDB)
	ctx := context.Background()

	users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Plan: model.PlanFree, IsActive: true}, nil)
	// A concurrent caller took the last unit; only the guarded increment sees it.
	usage.On("Consume", ctx, "u1", "2025-06", model.OperationResumeScan, 3).Return(3, false, nil)

	gate := NewGate(users, usage, testPlans(), fixedNow)
	d, err := gate.CheckAndConsume(ctx, "u1", model.OperationResumeScan)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, model.DenyLimitReached, d.Reason)
	assert.Equal(t, 3, d.Used)

	usage.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	usage.AssertExpectations(t)
}
