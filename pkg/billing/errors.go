package billing

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")

	ErrMissingAPIKey             = errors.New("billing provider API key is required")
	ErrMissingWebhookSecret      = errors.New("billing provider webhook secret is required")
	ErrInvalidEnvironment        = errors.New("invalid billing provider environment")
	ErrWebhookVerificationFailed = errors.New("webhook signature verification failed")
	ErrInvalidWebhookPayload     = errors.New("invalid webhook payload")

	ErrNoCheckoutURL = errors.New("no checkout URL returned from provider")
	ErrNoPortalURL   = errors.New("no portal URL returned from provider")

	ErrTierNotPurchasable = errors.New("tier has no billing price configured")
	ErrUnknownPriceID     = errors.New("webhook price ID does not map to a tier")
	ErrUnknownMerchant    = errors.New("webhook carries no usable merchant ID")
)
