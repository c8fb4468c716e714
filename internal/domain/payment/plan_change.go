package payment

import (
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
)

// Subscription statuses that grant or revoke the paid plan. Others, such as
// past_due or incomplete, leave the plan unchanged.
var (
	grantingStatuses = map[string]bool{"active": true, "trialing": true}
	revokingStatuses = map[string]bool{"canceled": true, "unpaid": true, "incomplete_expired": true}
)

// planChangeFor derives the user mutation of a verified event. It returns nil
// for events that change nothing.
func (d *Domain) planChangeFor(event *outbound.PaymentEvent) *model.PlanChange {
	switch {
	case event.Checkout != nil:
		return d.checkoutChange(event.Checkout)
	case event.Subscription != nil:
		return d.subscriptionChange(event.Subscription)
	default:
		return nil
	}
}

func (d *Domain) checkoutChange(c *outbound.CheckoutCompleted) *model.PlanChange {
	change := &model.PlanChange{
		UserID:           c.UserID,
		StripeCustomerID: c.CustomerID,
	}
	if !c.Paid {
		return change
	}
	if d.purchasable(c.Plan) {
		change.Plan = c.Plan
	}

	ref := c.PaymentIntentID
	if ref == "" {
		ref = c.SessionID
	}
	change.Payment = &model.Payment{
		StripeReference: ref,
		AmountCents:     c.AmountTotal,
		Currency:        c.Currency,
		Plan:            change.Plan,
		Status:          model.PaymentStatusSucceeded,
	}
	return change
}

func (d *Domain) subscriptionChange(s *outbound.SubscriptionChange) *model.PlanChange {
	change := &model.PlanChange{
		UserID:           s.UserID,
		StripeCustomerID: s.CustomerID,
	}

	switch {
	case s.Deleted || revokingStatuses[s.Status]:
		change.Plan = model.PlanFree
	case grantingStatuses[s.Status]:
		plan := d.planByPrice[s.PriceID]
		if plan == "" && d.purchasable(s.Plan) {
			plan = s.Plan
		}
		change.Plan = plan
	}

	if change.Plan == "" && change.StripeCustomerID == "" {
		return nil
	}
	return change
}
