// Package api wires the merchant-facing HTTP surface. Every optimization
// route sits behind a plan guard; handlers stay thin and consume the plan
// context the guards attach.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zyra-ai/zyra/pkg/billing"
	"github.com/zyra-ai/zyra/pkg/plan"
)

// Deps carries everything the router needs. Guard, Identity and Billing
// are required; Router panics without them so misconfiguration surfaces
// at startup rather than per request.
type Deps struct {
	Guard    *plan.Guard
	Identity plan.IdentityFunc
	Billing  *billing.Service
	Log      *slog.Logger

	// Authenticate establishes the merchant identity the guards read.
	// Optional: omit it when an outer router already authenticates.
	Authenticate func(http.Handler) http.Handler
}

// Router builds the API routes. Webhooks are mounted outside the
// authenticated group because billing providers call them directly.
func Router(deps Deps) chi.Router {
	if deps.Guard == nil {
		panic("api: Guard is required")
	}
	if deps.Identity == nil {
		panic("api: Identity is required")
	}
	if deps.Billing == nil {
		panic("api: Billing is required")
	}
	if deps.Log == nil {
		deps.Log = slog.New(slog.DiscardHandler)
	}

	h := &handlers{
		guard:    deps.Guard,
		identity: deps.Identity,
		billing:  deps.Billing,
		log:      deps.Log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/webhooks/paddle", h.paddleWebhook)

	r.Group(func(r chi.Router) {
		if deps.Authenticate != nil {
			r.Use(deps.Authenticate)
		}

		r.With(deps.Guard.RequireActionAccess(plan.ActionBulkOptimize)).
			Post("/optimize/bulk", h.bulkOptimize)
		r.With(deps.Guard.RequireFeature(plan.FeatureSerpIntelligence)).
			Post("/serp/scan", h.serpScan)
		r.With(deps.Guard.RequireFeature(plan.FeatureAdvancedCartRecovery)).
			Post("/campaigns/cart-recovery", h.cartRecovery)
		r.With(deps.Guard.RequirePlan(plan.TierStarter)).
			Post("/refresh/schedule", h.scheduleRefresh)

		r.Get("/plan/capabilities", h.capabilities)
		r.Post("/billing/checkout", h.checkout)
		r.Post("/billing/portal", h.portal)
	})

	return r
}
