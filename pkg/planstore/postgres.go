package planstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zyra-ai/zyra/pkg/billing"
)

// Postgres stores merchant subscriptions in the merchant_subscriptions
// table (see internal/db/migrations). It implements plan.TierSource for
// the guards and billing.SubscriptionStore for the billing service.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres creates a Postgres store. Panics if db is nil.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	if db == nil {
		panic("planstore.NewPostgres: pgx pool is required")
	}
	return &Postgres{db: db}
}

// TierName returns the merchant's effective tier name. Merchants without a
// subscription row, and merchants whose subscription no longer grants its
// tier, resolve to an empty string, which the plan package canonicalizes
// to free.
func (s *Postgres) TierName(ctx context.Context, merchantID uuid.UUID) (string, error) {
	var tier, status string
	err := s.db.QueryRow(ctx,
		`SELECT tier, status FROM merchant_subscriptions WHERE merchant_id = $1`,
		merchantID,
	).Scan(&tier, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Join(ErrQueryFailed, err)
	}

	sub := billing.Subscription{Status: billing.Status(status)}
	if !sub.IsActive() {
		return "", nil
	}
	return tier, nil
}

// Get retrieves a merchant's subscription row.
func (s *Postgres) Get(ctx context.Context, merchantID uuid.UUID) (*billing.Subscription, error) {
	var sub billing.Subscription
	err := s.db.QueryRow(ctx,
		`SELECT merchant_id, email, tier, status, provider_sub_id, price_id, created_at, updated_at, cancelled_at
		 FROM merchant_subscriptions WHERE merchant_id = $1`,
		merchantID,
	).Scan(&sub.MerchantID, &sub.Email, &sub.Tier, &sub.Status, &sub.ProviderSubID, &sub.PriceID,
		&sub.CreatedAt, &sub.UpdatedAt, &sub.CancelledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, billing.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return &sub, nil
}

// Save upserts a merchant's subscription row. MerchantID is the primary
// key, so each merchant has exactly one row.
func (s *Postgres) Save(ctx context.Context, sub *billing.Subscription) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO merchant_subscriptions
		    (merchant_id, email, tier, status, provider_sub_id, price_id, created_at, updated_at, cancelled_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (merchant_id) DO UPDATE SET
		    email = EXCLUDED.email,
		    tier = EXCLUDED.tier,
		    status = EXCLUDED.status,
		    provider_sub_id = EXCLUDED.provider_sub_id,
		    price_id = EXCLUDED.price_id,
		    updated_at = EXCLUDED.updated_at,
		    cancelled_at = EXCLUDED.cancelled_at`,
		sub.MerchantID, sub.Email, sub.Tier, sub.Status, sub.ProviderSubID, sub.PriceID,
		sub.CreatedAt, sub.UpdatedAt, sub.CancelledAt)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}
