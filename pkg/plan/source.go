package plan

import (
	"context"

	"github.com/google/uuid"
)

// TierSource resolves a merchant's stored tier name. Implementations must
// tolerate a merchant without a subscription row by returning an empty
// string, which canonicalizes to the free tier; errors are reserved for
// infrastructure failures.
type TierSource interface {
	TierName(ctx context.Context, merchantID uuid.UUID) (string, error)
}

// TierSourceFunc adapts a function to the TierSource interface.
type TierSourceFunc func(ctx context.Context, merchantID uuid.UUID) (string, error)

func (f TierSourceFunc) TierName(ctx context.Context, merchantID uuid.UUID) (string, error) {
	return f(ctx, merchantID)
}

// IdentityFunc extracts the authenticated merchant ID from a request
// context. Authentication itself happens upstream; guards only consume the
// identity it established.
type IdentityFunc func(ctx context.Context) (uuid.UUID, bool)
