package billing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zyra-ai/zyra/pkg/plan"
)

// Notifier delivers merchant-facing notifications for billing events.
// Delivery failures are logged, never propagated: a bounced email must not
// make the provider retry a webhook we already applied.
type Notifier interface {
	PlanChanged(ctx context.Context, merchantID uuid.UUID, tier plan.Tier) error
	PaymentFailed(ctx context.Context, merchantID uuid.UUID) error
}

// TierCacheInvalidator drops a merchant's cached tier after a billing
// event changes it.
type TierCacheInvalidator interface {
	Invalidate(ctx context.Context, merchantID uuid.UUID) error
}

// Service applies billing provider events to stored subscriptions. It is
// the only writer of the tier data the plan guards read.
type Service struct {
	catalog  *plan.Catalog
	provider Provider
	store    SubscriptionStore
	notifier Notifier
	cache    TierCacheInvalidator
	log      *slog.Logger
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

func WithCacheInvalidator(c TierCacheInvalidator) ServiceOption {
	return func(s *Service) { s.cache = c }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a billing Service. Panics if required collaborators
// are nil to fail fast during initialization.
func NewService(catalog *plan.Catalog, provider Provider, store SubscriptionStore, opts ...ServiceOption) *Service {
	if catalog == nil {
		panic("billing.NewService: plan catalog is required")
	}
	if provider == nil {
		panic("billing.NewService: Provider is required")
	}
	if store == nil {
		panic("billing.NewService: SubscriptionStore is required")
	}

	s := &Service{
		catalog:  catalog,
		provider: provider,
		store:    store,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout creates a hosted checkout link for upgrading to a tier.
func (s *Service) Checkout(ctx context.Context, merchantID uuid.UUID, tier plan.Tier, email, successURL string) (*CheckoutLink, error) {
	priceID, ok := s.catalog.PriceID(tier)
	if !ok {
		return nil, ErrTierNotPurchasable
	}

	link, err := s.provider.CreateCheckoutLink(ctx, CheckoutRequest{
		PriceID:    priceID,
		MerchantID: merchantID,
		Email:      email,
		SuccessURL: successURL,
	})
	if err != nil {
		return nil, err
	}

	// Webhook payloads carry no billing contact, so the email given at
	// checkout is the only chance to record one.
	if email != "" {
		if sub, loadErr := s.loadOrInit(ctx, merchantID); loadErr == nil && sub.Email != email {
			sub.Email = email
			sub.UpdatedAt = time.Now().UTC()
			if saveErr := s.store.Save(ctx, sub); saveErr != nil {
				s.log.ErrorContext(ctx, "failed to record billing contact",
					slog.String("merchant_id", merchantID.String()), slog.Any("error", saveErr))
			}
		}
	}

	return link, nil
}

// PortalLink returns a customer portal link for the merchant's current
// subscription.
func (s *Service) PortalLink(ctx context.Context, merchantID uuid.UUID) (*PortalLink, error) {
	sub, err := s.store.Get(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	return s.provider.GetCustomerPortalLink(ctx, sub)
}

// Subscription returns the merchant's current subscription row.
func (s *Service) Subscription(ctx context.Context, merchantID uuid.UUID) (*Subscription, error) {
	return s.store.Get(ctx, merchantID)
}

// HandleWebhook verifies, normalizes and applies a provider webhook.
// Returning an error makes the caller respond non-2xx so the provider
// retries; unrecognized event types are acknowledged and skipped.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionResumed:
		return s.applySubscriptionChange(ctx, event)
	case EventSubscriptionCancelled:
		return s.applyCancellation(ctx, event)
	case EventPaymentFailed:
		return s.applyPaymentFailure(ctx, event)
	case EventPaymentSucceeded:
		return s.applyPaymentRecovery(ctx, event)
	default:
		s.log.InfoContext(ctx, "skipping unhandled billing event",
			slog.String("event", event.ProviderEvent))
		return nil
	}
}

func (s *Service) applySubscriptionChange(ctx context.Context, event *WebhookEvent) error {
	merchantID, err := merchantIDFromEvent(event)
	if err != nil {
		return err
	}

	tier, ok := s.catalog.TierForPriceID(event.PriceID)
	if !ok {
		return ErrUnknownPriceID
	}

	sub, err := s.loadOrInit(ctx, merchantID)
	if err != nil {
		return err
	}

	previousTier := sub.EffectiveTier()
	sub.Tier = tier
	sub.PriceID = event.PriceID
	sub.Status = Status(event.Status)
	if event.Status == "" {
		sub.Status = StatusActive
	}
	if event.SubscriptionID != "" {
		sub.ProviderSubID = event.SubscriptionID
	}
	sub.CancelledAt = nil
	sub.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, sub); err != nil {
		return err
	}
	s.invalidate(ctx, merchantID)

	if s.notifier != nil && sub.EffectiveTier() != previousTier {
		if err := s.notifier.PlanChanged(ctx, merchantID, sub.EffectiveTier()); err != nil {
			s.log.ErrorContext(ctx, "plan change notification failed",
				slog.String("merchant_id", merchantID.String()), slog.Any("error", err))
		}
	}

	s.log.InfoContext(ctx, "subscription updated",
		slog.String("merchant_id", merchantID.String()),
		slog.String("tier", sub.Tier.String()),
		slog.String("status", string(sub.Status)))
	return nil
}

func (s *Service) applyCancellation(ctx context.Context, event *WebhookEvent) error {
	merchantID, err := merchantIDFromEvent(event)
	if err != nil {
		return err
	}

	sub, err := s.store.Get(ctx, merchantID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		// Nothing to cancel; the merchant is already on free.
		return nil
	}
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	sub.Status = StatusCancelled
	sub.CancelledAt = &now
	sub.UpdatedAt = now

	if err := s.store.Save(ctx, sub); err != nil {
		return err
	}
	s.invalidate(ctx, merchantID)

	if s.notifier != nil {
		if err := s.notifier.PlanChanged(ctx, merchantID, plan.TierFree); err != nil {
			s.log.ErrorContext(ctx, "plan change notification failed",
				slog.String("merchant_id", merchantID.String()), slog.Any("error", err))
		}
	}
	return nil
}

func (s *Service) applyPaymentFailure(ctx context.Context, event *WebhookEvent) error {
	merchantID, err := merchantIDFromEvent(event)
	if err != nil {
		return err
	}

	sub, err := s.store.Get(ctx, merchantID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	sub.Status = StatusPastDue
	sub.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, sub); err != nil {
		return err
	}
	s.invalidate(ctx, merchantID)

	if s.notifier != nil {
		if err := s.notifier.PaymentFailed(ctx, merchantID); err != nil {
			s.log.ErrorContext(ctx, "payment failure notification failed",
				slog.String("merchant_id", merchantID.String()), slog.Any("error", err))
		}
	}
	return nil
}

func (s *Service) applyPaymentRecovery(ctx context.Context, event *WebhookEvent) error {
	merchantID, err := merchantIDFromEvent(event)
	if err != nil {
		return err
	}

	sub, err := s.store.Get(ctx, merchantID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if sub.Status != StatusPastDue {
		return nil
	}

	sub.Status = StatusActive
	sub.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, sub); err != nil {
		return err
	}
	s.invalidate(ctx, merchantID)
	return nil
}

func (s *Service) loadOrInit(ctx context.Context, merchantID uuid.UUID) (*Subscription, error) {
	sub, err := s.store.Get(ctx, merchantID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return &Subscription{
			MerchantID: merchantID,
			Tier:       plan.TierFree,
			Status:     StatusActive,
			CreatedAt:  time.Now().UTC(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) invalidate(ctx context.Context, merchantID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, merchantID); err != nil {
		s.log.ErrorContext(ctx, "tier cache invalidation failed",
			slog.String("merchant_id", merchantID.String()), slog.Any("error", err))
	}
}

func merchantIDFromEvent(event *WebhookEvent) (uuid.UUID, error) {
	id, err := uuid.Parse(event.MerchantID)
	if err != nil {
		return uuid.Nil, errors.Join(ErrUnknownMerchant, err)
	}
	return id, nil
}
