package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Guard bridges the pure access controller to an HTTP pipeline. A single
// Guard is shared by all routes; all per-request state lives in the request
// context.
type Guard struct {
	source       TierSource
	identity     IdentityFunc
	catalog      *Catalog
	errorHandler ErrorHandler
}

// ErrorHandler renders infrastructure failures (missing identity, tier
// lookup faults). Denials are rendered by the guards themselves.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithCatalog replaces the built-in catalog, e.g. one loaded from a
// deployment-specific YAML file.
func WithCatalog(c *Catalog) GuardOption {
	return func(g *Guard) {
		if c != nil {
			g.catalog = c
		}
	}
}

// WithErrorHandler replaces the default error handler.
func WithErrorHandler(h ErrorHandler) GuardOption {
	return func(g *Guard) {
		if h != nil {
			g.errorHandler = h
		}
	}
}

// NewGuard creates a Guard. Panics if source or identity is nil to fail
// fast during initialization.
func NewGuard(source TierSource, identity IdentityFunc, opts ...GuardOption) *Guard {
	if source == nil {
		panic("plan.NewGuard: TierSource is required")
	}
	if identity == nil {
		panic("plan.NewGuard: IdentityFunc is required")
	}

	g := &Guard{
		source:       source,
		identity:     identity,
		catalog:      defaultCatalog,
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RequirePlan denies unless the caller's tier is at least min in the total
// order.
func (g *Guard) RequirePlan(min Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pc, r, err := g.loadContext(r)
			if err != nil {
				g.errorHandler(w, r, err)
				return
			}

			if !pc.Tier.AtLeast(min) {
				writeDenial(w, denialResponse{
					Error:        CodeUpgradeRequired,
					Message:      fmt.Sprintf("this operation requires the %s plan or higher", min),
					CurrentPlan:  pc.displayPlan(),
					RequiredPlan: min.String(),
					UpgradeHint:  fmt.Sprintf("upgrade to the %s plan", min),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireFeature denies unless the caller's tier enables the feature.
func (g *Guard) RequireFeature(f Feature) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pc, r, err := g.loadContext(r)
			if err != nil {
				g.errorHandler(w, r, err)
				return
			}

			if !pc.Capabilities.Has(f) {
				resp := denialResponse{
					Error:       CodeUpgradeRequired,
					Message:     fmt.Sprintf("feature %s is not available on the %s plan", f, pc.Tier),
					CurrentPlan: pc.displayPlan(),
					Feature:     string(f),
				}
				if min, ok := g.catalog.MinTierForFeature(f); ok {
					resp.RequiredPlan = min.String()
					resp.UpgradeHint = fmt.Sprintf("upgrade to the %s plan", min)
				}
				writeDenial(w, resp)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireActionAccess evaluates the action against the caller's tier,
// passing through the request-supplied product count and auto-execution
// flag. On success the computed Decision is attached to the request
// context for the downstream handler.
func (g *Guard) RequireActionAccess(action Action, opts ...ActionOption) func(http.Handler) http.Handler {
	cfg := &actionConfig{
		productCount: productCountFromRequest,
		autoExecute:  autoExecuteFromRequest,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pc, r, err := g.loadContext(r)
			if err != nil {
				g.errorHandler(w, r, err)
				return
			}

			decision := g.catalog.CheckActionAccess(pc.Tier, action, CheckOptions{
				ProductCount: cfg.productCount(r),
				AutoExecute:  cfg.autoExecute(r),
			})

			if !decision.Allowed {
				resp := denialResponse{
					Error:       decision.Code,
					Message:     decision.Reason,
					CurrentPlan: pc.displayPlan(),
					Action:      string(action),
					UpgradeHint: decision.UpgradeHint,
				}
				if decision.Code == CodeUpgradeRequired {
					if min, ok := g.catalog.MinTierFor(action); ok {
						resp.RequiredPlan = min.String()
					}
				}
				writeDenial(w, resp)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithDecision(r.Context(), decision)))
		})
	}
}

// CapabilitiesFor resolves a merchant's plan without a blocking guard, for
// handlers that only need capability data (e.g. the dashboard settings
// page).
func (g *Guard) CapabilitiesFor(ctx context.Context, merchantID uuid.UUID) (*Context, error) {
	raw, err := g.source.TierName(ctx, merchantID)
	if err != nil {
		return nil, errors.Join(ErrTierLookupFailed, err)
	}
	tier := ParseTier(raw)
	return &Context{
		RawTier:      raw,
		Tier:         tier,
		Capabilities: g.catalog.Capabilities(tier),
	}, nil
}

// loadContext returns the request's plan context, resolving and caching it
// on first use so N guards on one route trigger exactly one tier lookup.
func (g *Guard) loadContext(r *http.Request) (*Context, *http.Request, error) {
	if pc, ok := FromContext(r.Context()); ok && pc != nil {
		return pc, r, nil
	}

	merchantID, ok := g.identity(r.Context())
	if !ok {
		return nil, r, ErrNoIdentity
	}

	pc, err := g.CapabilitiesFor(r.Context(), merchantID)
	if err != nil {
		return nil, r, err
	}

	return pc, r.WithContext(WithContext(r.Context(), pc)), nil
}

// displayPlan echoes the stored tier name when present so denial responses
// show the plan name the merchant actually has ("Starter+"), falling back
// to the canonical tier.
func (pc *Context) displayPlan() string {
	if pc.RawTier != "" {
		return pc.RawTier
	}
	return pc.Tier.String()
}

// actionConfig controls how RequireActionAccess reads per-request context.
type actionConfig struct {
	productCount func(r *http.Request) int
	autoExecute  func(r *http.Request) bool
}

// ActionOption configures RequireActionAccess.
type ActionOption func(*actionConfig)

// WithProductCount replaces how the bulk batch size is read from a request.
func WithProductCount(fn func(r *http.Request) int) ActionOption {
	return func(c *actionConfig) {
		if fn != nil {
			c.productCount = fn
		}
	}
}

// WithAutoExecute replaces how the auto-execution flag is read from a request.
func WithAutoExecute(fn func(r *http.Request) bool) ActionOption {
	return func(c *actionConfig) {
		if fn != nil {
			c.autoExecute = fn
		}
	}
}

func productCountFromRequest(r *http.Request) int {
	v := r.URL.Query().Get("product_count")
	if v == "" {
		v = r.Header.Get("X-Product-Count")
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func autoExecuteFromRequest(r *http.Request) bool {
	v := r.URL.Query().Get("auto_execute")
	if v == "" {
		v = r.Header.Get("X-Auto-Execute")
	}
	return v == "true" || v == "1"
}

// denialResponse is the JSON contract clients parse to render upgrade
// prompts.
type denialResponse struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	CurrentPlan  string `json:"current_plan,omitempty"`
	RequiredPlan string `json:"required_plan,omitempty"`
	Feature      string `json:"feature,omitempty"`
	Action       string `json:"action,omitempty"`
	UpgradeHint  string `json:"upgrade_hint,omitempty"`
}

func writeDenial(w http.ResponseWriter, resp denialResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(resp)
}

// defaultErrorHandler distinguishes a missing identity from a tier lookup
// fault: the former is an authentication problem, the latter a server-side
// failure that must never fail open into an allow.
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	switch {
	case errors.Is(err, ErrNoIdentity):
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "authentication_required",
			"message": "authentication is required before plan checks",
		})
	default:
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "plan_lookup_failed",
			"message": "could not determine the current plan",
		})
	}
}
