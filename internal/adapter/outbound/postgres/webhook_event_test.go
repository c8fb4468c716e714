package postgres

import (
	"context"
	"testing"

	"github.com/rezzy/server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newEvent(id string) *model.WebhookEvent {
	return &model.WebhookEvent{
		EventID:   id,
		Provider:  "stripe",
		EventType: "checkout.session.completed",
		Payload:   datatypes.JSON(`{"id":"` + id + `"}`),
	}
}

func TestPaymentAdapter_ApplyEventOnce(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user_1", model.PlanFree)
	adapter := NewPaymentAdapter(db)
	ctx := context.Background()

	change := &model.PlanChange{
		UserID:           "user_1",
		StripeCustomerID: "cus_1",
		Plan:             model.PlanPremium,
		Payment: &model.Payment{
			StripeReference: "cs_1",
			AmountCents:     1900,
			Currency:        "usd",
			Plan:            model.PlanPremium,
			Status:          model.PaymentStatusSucceeded,
		},
	}

	outcome, err := adapter.ApplyEvent(ctx, newEvent("evt_1"), change)
	require.NoError(t, err)
	assert.False(t, outcome.Duplicate)
	assert.True(t, outcome.Matched)
	assert.Equal(t, "user_1", outcome.UserID)

	// Downgrade the user out of band, then redeliver: nothing may change.
	_, err = NewUserAdapter(db).UpdatePlan(ctx, "user_1", model.PlanFree)
	require.NoError(t, err)

	outcome, err = adapter.ApplyEvent(ctx, newEvent("evt_1"), change)
	require.NoError(t, err)
	assert.True(t, outcome.Duplicate)

	u, err := NewUserAdapter(db).FindByID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, u.Plan)
	require.NotNil(t, u.StripeCustomerID)
	assert.Equal(t, "cus_1", *u.StripeCustomerID)

	payments, err := adapter.ListPaymentsByUser(ctx, "user_1", 10)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestPaymentAdapter_ApplyEventByCustomer(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user_1", model.PlanPremium)
	require.NoError(t, NewUserAdapter(db).SetStripeCustomerID(context.Background(), "user_1", "cus_9"))
	adapter := NewPaymentAdapter(db)

	outcome, err := adapter.ApplyEvent(context.Background(), newEvent("evt_2"), &model.PlanChange{
		StripeCustomerID: "cus_9",
		Plan:             model.PlanFree,
	})
	require.NoError(t, err)
	assert.True(t, outcome.Matched)

	u, err := NewUserAdapter(db).FindByID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, u.Plan)
}

func TestPaymentAdapter_ApplyEventUnknownUser(t *testing.T) {
	db := newTestDB(t)
	adapter := NewPaymentAdapter(db)

	outcome, err := adapter.ApplyEvent(context.Background(), newEvent("evt_3"), &model.PlanChange{
		UserID: "ghost",
		Plan:   model.PlanPremium,
	})
	require.NoError(t, err)
	assert.False(t, outcome.Duplicate)
	assert.False(t, outcome.Matched)

	var count int64
	require.NoError(t, db.Model(&model.WebhookEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
