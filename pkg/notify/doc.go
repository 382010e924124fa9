// Package notify delivers merchant-facing transactional email for billing
// events through Postmark. The billing service talks to the Notifier
// through the billing.Notifier interface; the Noop implementation disables
// delivery in development.
package notify
