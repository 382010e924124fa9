// Package planstore provides the persistence layer behind plan access
// checks: where a merchant's subscription tier lives and how guards read
// it. Postgres is the source of truth, written only by the billing
// service; a Redis decorator absorbs the per-request reads the guards
// generate. The in-memory store backs tests and local development.
//
// All implementations satisfy plan.TierSource; Postgres and Memory
// additionally satisfy billing.SubscriptionStore.
package planstore
