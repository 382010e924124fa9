package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/zyra-ai/zyra/pkg/plan"
)

// Status represents the current state of a merchant's subscription.
type Status string

const (
	StatusTrialing  Status = "trialing"
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Subscription represents a merchant's subscription. Each merchant has
// exactly one row; MerchantID is the primary key. The Tier column is what
// the plan guards ultimately read.
type Subscription struct {
	MerchantID    uuid.UUID
	Email         string // billing contact, captured when checkout starts
	Tier          plan.Tier
	Status        Status
	ProviderSubID string // provider's subscription ID, empty on the free tier
	PriceID       string // provider's price ID the tier was purchased under
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CancelledAt   *time.Time
}

// IsActive reports whether the subscription currently grants its tier.
// Past-due subscriptions keep their tier until the provider cancels them.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive || s.Status == StatusTrialing || s.Status == StatusPastDue
}

// EffectiveTier returns the tier plan guards should see: the purchased
// tier while the subscription grants it, free otherwise.
func (s *Subscription) EffectiveTier() plan.Tier {
	if s.IsActive() {
		return s.Tier
	}
	return plan.TierFree
}

// CheckoutRequest contains data needed to create a hosted checkout session.
type CheckoutRequest struct {
	PriceID    string
	MerchantID uuid.UUID
	Email      string
	SuccessURL string
}

// CheckoutLink represents a hosted checkout session.
type CheckoutLink struct {
	URL       string
	SessionID string
	ExpiresAt time.Time
}

// PortalLink represents a pre-authenticated customer portal session where
// merchants can change plans or cancel.
type PortalLink struct {
	URL       string
	CancelURL string
	ExpiresAt time.Time
}

// EventType is the normalized billing event type. Provider implementations
// map their specific webhook events onto these.
type EventType string

const (
	EventSubscriptionCreated   EventType = "subscription_created"
	EventSubscriptionUpdated   EventType = "subscription_updated"
	EventSubscriptionCancelled EventType = "subscription_cancelled"
	EventSubscriptionResumed   EventType = "subscription_resumed"
	EventPaymentSucceeded      EventType = "payment_succeeded"
	EventPaymentFailed         EventType = "payment_failed"
)

// WebhookEvent is a normalized webhook event from the billing provider.
type WebhookEvent struct {
	Type           EventType
	ProviderEvent  string // original provider event name
	SubscriptionID string
	MerchantID     string // our merchant ID from checkout custom data
	Status         string
	PriceID        string // the price that was purchased
	Raw            map[string]any
}
