package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zyra-ai/zyra/pkg/billing"
	"github.com/zyra-ai/zyra/pkg/logger"
	"github.com/zyra-ai/zyra/pkg/plan"
)

type handlers struct {
	guard    *plan.Guard
	identity plan.IdentityFunc
	billing  *billing.Service
	log      *slog.Logger
}

// bulkOptimize enqueues a bulk optimization batch. The guard has already
// verified the feature, the batch size and the auto-execution setting, so
// the handler only acknowledges the job.
func (h *handlers) bulkOptimize(w http.ResponseWriter, r *http.Request) {
	pc := plan.MustFromContext(r.Context())

	count := 0
	if raw := r.URL.Query().Get("product_count"); raw != "" {
		count, _ = strconv.Atoi(raw)
	} else if raw := r.Header.Get("X-Product-Count"); raw != "" {
		count, _ = strconv.Atoi(raw)
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":             "queued",
		"action":             string(plan.ActionBulkOptimize),
		"plan":               pc.Tier,
		"product_count":      count,
		"execution_priority": pc.Capabilities.ExecutionPriority,
	})
}

func (h *handlers) serpScan(w http.ResponseWriter, r *http.Request) {
	pc := plan.MustFromContext(r.Context())
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "queued",
		"action": string(plan.ActionSerpScan),
		"plan":   pc.Tier,
	})
}

func (h *handlers) cartRecovery(w http.ResponseWriter, r *http.Request) {
	pc := plan.MustFromContext(r.Context())
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "queued",
		"action": string(plan.ActionCartRecovery),
		"plan":   pc.Tier,
	})
}

func (h *handlers) scheduleRefresh(w http.ResponseWriter, r *http.Request) {
	pc := plan.MustFromContext(r.Context())

	frequency := r.URL.Query().Get("frequency")
	if frequency == "" {
		frequency = "daily"
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":    "scheduled",
		"action":    string(plan.ActionScheduledRefresh),
		"plan":      pc.Tier,
		"frequency": frequency,
	})
}

// capabilities is a plain query, not a gate: it reports the current plan
// and the full capability set so the dashboard can render feature state
// without probing the gated routes.
func (h *handlers) capabilities(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := h.identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication_required",
			"authentication is required before plan checks")
		return
	}

	pc, err := h.guard.CapabilitiesFor(r.Context(), merchantID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "plan lookup failed",
			logger.MerchantID(merchantID), logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "plan_lookup_failed",
			"could not determine the current plan")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"plan":         pc.Tier,
		"capabilities": pc.Capabilities,
	})
}

type checkoutBody struct {
	Tier       string `json:"tier"`
	Email      string `json:"email"`
	SuccessURL string `json:"success_url"`
}

func (h *handlers) checkout(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := h.identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication_required",
			"authentication is required to start checkout")
		return
	}

	var body checkoutBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if !plan.Tier(body.Tier).Valid() {
		writeError(w, http.StatusBadRequest, "invalid_tier",
			"tier must be one of starter, growth or scale")
		return
	}

	link, err := h.billing.Checkout(r.Context(), merchantID, plan.Tier(body.Tier), body.Email, body.SuccessURL)
	switch {
	case errors.Is(err, billing.ErrTierNotPurchasable):
		writeError(w, http.StatusBadRequest, "tier_not_purchasable",
			"the requested tier has no checkout price")
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "checkout link creation failed",
			logger.MerchantID(merchantID), logger.Error(err))
		writeError(w, http.StatusBadGateway, "checkout_failed",
			"could not create a checkout session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url":        link.URL,
		"session_id": link.SessionID,
		"expires_at": link.ExpiresAt,
	})
}

func (h *handlers) portal(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := h.identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication_required",
			"authentication is required to open the billing portal")
		return
	}

	link, err := h.billing.PortalLink(r.Context(), merchantID)
	switch {
	case errors.Is(err, billing.ErrSubscriptionNotFound):
		writeError(w, http.StatusNotFound, "subscription_not_found",
			"no subscription exists for this merchant")
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "portal link creation failed",
			logger.MerchantID(merchantID), logger.Error(err))
		writeError(w, http.StatusBadGateway, "portal_failed",
			"could not create a billing portal session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url":        link.URL,
		"cancel_url": link.CancelURL,
		"expires_at": link.ExpiresAt,
	})
}

// paddleWebhook applies billing events. Signature failures return 403 so a
// forged call is rejected; semantic failures return 400 so the provider
// stops retrying a payload that can never apply.
func (h *handlers) paddleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "could not read request body")
		return
	}

	err = h.billing.HandleWebhook(r.Context(), payload, r.Header.Get("Paddle-Signature"))
	switch {
	case errors.Is(err, billing.ErrWebhookVerificationFailed):
		writeError(w, http.StatusForbidden, "invalid_signature", "webhook signature verification failed")
		return
	case errors.Is(err, billing.ErrInvalidWebhookPayload),
		errors.Is(err, billing.ErrUnknownPriceID),
		errors.Is(err, billing.ErrUnknownMerchant):
		writeError(w, http.StatusBadRequest, "invalid_webhook", err.Error())
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "webhook processing failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "webhook_failed", "could not process webhook")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "processed"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
