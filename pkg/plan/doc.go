// Package plan implements tier-based access control for merchant-facing
// operations. It maps a subscription tier to an immutable capability set
// and answers, per request, whether a gated action is allowed.
//
// The package has two halves. The controller half (ParseTier, Capabilities,
// CheckActionAccess and the named predicates) is pure: no I/O, no clock,
// deterministic decisions. The adapter half (Guard and its middleware
// factories) bridges the controller to an HTTP pipeline, resolving the
// caller's stored tier through a TierSource exactly once per request and
// caching the result in the request context.
//
// Everything fails closed: unknown tier names canonicalize to the free
// tier, unknown actions and features are never enabled, and a tier lookup
// fault is reported as a server error rather than an allow.
//
// Basic usage:
//
//	guard := plan.NewGuard(store, identityFromContext)
//
//	r := chi.NewRouter()
//	r.With(guard.RequireFeature(plan.FeatureSerpIntelligence)).
//	    Post("/serp/scan", scanHandler)
//	r.With(guard.RequireActionAccess(plan.ActionBulkOptimize)).
//	    Post("/optimize/bulk", bulkHandler)
//
// Denied requests receive a JSON body with error, message, current_plan,
// required_plan|feature|action and upgrade_hint fields so clients can
// render a precise upgrade prompt.
package plan
