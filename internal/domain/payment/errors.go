package payment

import "errors"

var (
	// ErrUserNotFound is returned when the checkout user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrPlanNotPurchasable is returned for plans without a configured price.
	ErrPlanNotPurchasable = errors.New("plan is not available for purchase")

	// ErrProviderNotAvailable is returned when the payment provider call fails.
	ErrProviderNotAvailable = errors.New("payment provider not available")

	// ErrStorageUnavailable is returned when the webhook transaction fails.
	// The provider retries the delivery.
	ErrStorageUnavailable = errors.New("payment storage unavailable")
)
