package plan

import "errors"

var (
	// ErrInvalidCatalog is returned when a catalog fails validation
	// (missing tiers, capability regressions, decreasing bulk caps).
	ErrInvalidCatalog = errors.New("invalid plan catalog")

	// ErrNoIdentity is returned when a guard runs without an
	// authenticated identity in the request context.
	ErrNoIdentity = errors.New("no authenticated identity in context")

	// ErrTierLookupFailed is returned when the tier source cannot
	// resolve the caller's tier. Guards treat this as a server error,
	// never as a denial.
	ErrTierLookupFailed = errors.New("plan tier lookup failed")

	// ErrNoPlanInContext is returned when plan context is read before
	// any guard has loaded it.
	ErrNoPlanInContext = errors.New("no plan context in request context")
)
