package billing

import (
	"context"

	"github.com/google/uuid"
)

// Provider is the minimal interface a payment provider integration must
// implement. Providers handle all payment complexity through hosted
// checkouts and customer portals; this codebase never touches card data.
type Provider interface {
	// CreateCheckoutLink creates a hosted checkout session for a price.
	CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)

	// GetCustomerPortalLink returns a temporary customer portal link for
	// the given subscription.
	GetCustomerPortalLink(ctx context.Context, sub *Subscription) (*PortalLink, error)

	// ParseWebhook validates the signature and normalizes the payload.
	// Must reject unsigned or tampered payloads.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
}

// SubscriptionStore persists merchant subscriptions.
type SubscriptionStore interface {
	// Get retrieves a subscription by merchant ID.
	// Returns ErrSubscriptionNotFound if no row exists.
	Get(ctx context.Context, merchantID uuid.UUID) (*Subscription, error)

	// Save creates or updates the merchant's subscription row.
	Save(ctx context.Context, sub *Subscription) error
}
