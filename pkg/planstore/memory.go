package planstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zyra-ai/zyra/pkg/billing"
)

// Memory is an in-memory subscription store for tests and local
// development. It mirrors the Postgres store's semantics, including the
// effective-tier rule for inactive subscriptions.
type Memory struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]billing.Subscription
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{subs: make(map[uuid.UUID]billing.Subscription)}
}

// TierName returns the merchant's effective tier name, empty when the
// merchant has no subscription or it no longer grants its tier.
func (m *Memory) TierName(_ context.Context, merchantID uuid.UUID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.subs[merchantID]
	if !ok || !sub.IsActive() {
		return "", nil
	}
	return sub.Tier.String(), nil
}

// Get retrieves a copy of the merchant's subscription.
func (m *Memory) Get(_ context.Context, merchantID uuid.UUID) (*billing.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.subs[merchantID]
	if !ok {
		return nil, billing.ErrSubscriptionNotFound
	}
	cp := sub
	return &cp, nil
}

// Save creates or replaces the merchant's subscription.
func (m *Memory) Save(_ context.Context, sub *billing.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs[sub.MerchantID] = *sub
	return nil
}
