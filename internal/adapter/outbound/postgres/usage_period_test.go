package postgres

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUsagePeriodAdapter_ConsumeUpToCeiling(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user_1", model.PlanFree)
	adapter := NewUsagePeriodAdapter(db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		used, consumed, err := adapter.Consume(ctx, "user_1", "2024-05", model.OperationResumeScan, 3)
		require.NoError(t, err)
		assert.True(t, consumed)
		assert.Equal(t, i, used)
	}

	for i := 0; i < 2; i++ {
		used, consumed, err := adapter.Consume(ctx, "user_1", "2024-05", model.OperationResumeScan, 3)
		require.NoError(t, err)
		assert.False(t, consumed)
		assert.Equal(t, 3, used)
	}

	period, err := adapter.Get(ctx, "user_1", "2024-05")
	require.NoError(t, err)
	require.NotNil(t, period)
	assert.Equal(t, 3, period.ScansUsed)
	assert.Equal(t, 0, period.CoverLettersGenerated)
}

func TestUsagePeriodAdapter_ConsumeUnlimited(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user_1", model.PlanPremium)
	adapter := NewUsagePeriodAdapter(db)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		used, consumed, err := adapter.Consume(ctx, "user_1", "2024-05", model.OperationCoverLetter, outbound.Unlimited)
		require.NoError(t, err)
		assert.True(t, consumed)
		assert.Equal(t, i, used)
	}
}

func TestUsagePeriodAdapter_ConsumeConcurrentLastUnit(t *testing.T) {
	db := newConcurrentTestDB(t)
	seedUser(t, db, "user_1", model.PlanFree)
	adapter := NewUsagePeriodAdapter(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := adapter.Consume(ctx, "user_1", "2024-05", model.OperationResumeScan, 3)
		require.NoError(t, err)
	}

	const callers = 12
	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
		failed  atomic.Int32
		start   = make(chan struct{})
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, consumed, err := adapter.Consume(ctx, "user_1", "2024-05", model.OperationResumeScan, 3)
			if err != nil {
				failed.Add(1)
				return
			}
			if consumed {
				allowed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(0), failed.Load())
	assert.Equal(t, int32(1), allowed.Load())

	period, err := adapter.Get(ctx, "user_1", "2024-05")
	require.NoError(t, err)
	assert.Equal(t, 3, period.ScansUsed)
}

func TestUsagePeriodAdapter_ConsumeWaitsForConcurrentWriter(t *testing.T) {
	db := newConcurrentTestDB(t)
	seedUser(t, db, "user_1", model.PlanFree)
	adapter := NewUsagePeriodAdapter(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := adapter.Consume(ctx, "user_1", "2024-05", model.OperationResumeScan, 3)
		require.NoError(t, err)
	}

	// Another writer takes the last unit and holds its transaction open.
	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, tx.Model(&model.UsagePeriod{}).
		Where("user_id = ? AND month = ?", "user_1", "2024-05").
		Update("scans_used", gorm.Expr("scans_used + 1")).Error)

	type result struct {
		used     int
		consumed bool
		err      error
	}
	done := make(chan result, 1)
	go func() {
		used, consumed, err := adapter.Consume(ctx, "user_1", "2024-05", model.OperationResumeScan, 3)
		done <- result{used, consumed, err}
	}()

	select {
	case r := <-done:
		_ = tx.Rollback()
		t.Fatalf("consume returned while the other writer was open: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, tx.Commit().Error)

	r := <-done
	require.NoError(t, r.err)
	assert.False(t, r.consumed)
	assert.Equal(t, 3, r.used)

	period, err := adapter.Get(ctx, "user_1", "2024-05")
	require.NoError(t, err)
	assert.Equal(t, 3, period.ScansUsed)
}

func TestUsagePeriodAdapter_MonthsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user_1", model.PlanFree)
	adapter := NewUsagePeriodAdapter(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := adapter.Consume(ctx, "user_1", "2024-05", model.OperationResumeScan, 3)
		require.NoError(t, err)
	}

	used, consumed, err := adapter.Consume(ctx, "user_1", "2024-06", model.OperationResumeScan, 3)
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, 1, used)

	periods, err := adapter.ListByUser(ctx, "user_1", 0)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, "2024-06", periods[0].Month)
	assert.Equal(t, "2024-05", periods[1].Month)
}

func TestUsagePeriodAdapter_GetMissing(t *testing.T) {
	db := newTestDB(t)
	adapter := NewUsagePeriodAdapter(db)

	period, err := adapter.Get(context.Background(), "nobody", "2024-05")
	require.NoError(t, err)
	assert.Nil(t, period)
}

func TestUsagePeriodAdapter_Reset(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user_1", model.PlanFree)
	adapter := NewUsagePeriodAdapter(db)
	ctx := context.Background()

	_, _, err := adapter.Consume(ctx, "user_1", "2024-05", model.OperationResumeScan, 3)
	require.NoError(t, err)

	ok, err := adapter.Reset(ctx, "user_1", "2024-05")
	require.NoError(t, err)
	assert.True(t, ok)

	period, err := adapter.Get(ctx, "user_1", "2024-05")
	require.NoError(t, err)
	assert.Equal(t, 0, period.ScansUsed)

	ok, err = adapter.Reset(ctx, "user_1", "2023-01")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUsagePeriodAdapter_UnknownKind(t *testing.T) {
	db := newTestDB(t)
	adapter := NewUsagePeriodAdapter(db)

	_, _, err := adapter.Consume(context.Background(), "user_1", "2024-05", model.OperationKind("bogus"), 3)
	assert.Error(t, err)
}
