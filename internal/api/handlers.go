/**
 * @description
 * This file contains the HTTP handler functions for the cancellation-service.
 * Handlers are responsible for parsing incoming webhook requests, calling the
 * orchestration logic in the app layer, and writing the HTTP response with
 * the status code derived from the result or the error taxonomy.
 */
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/accessgate/cancellation-service/internal/domain"
)

// Orchestrator is the subset of the application service the handlers use.
type Orchestrator interface {
	CancelBillingSubscriptions(ctx context.Context, req domain.CancellationRequest) (*domain.CancellationResult, error)
	CancelCRMSubscriptions(ctx context.Context, req domain.CancellationRequest) (*domain.CancellationResult, error)
}

// Handler holds the application service that handlers will interact with,
// plus the credential flags the health endpoint reports.
type Handler struct {
	service          Orchestrator
	crmConfigured    bool
	stripeConfigured bool
}

// NewHandler creates a new Handler with the given service.
func NewHandler(service Orchestrator, crmConfigured, stripeConfigured bool) *Handler {
	return &Handler{
		service:          service,
		crmConfigured:    crmConfigured,
		stripeConfigured: stripeConfigured,
	}
}

// handleCancelSubscription handles the Stripe-variant webhook.
func (h *Handler) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	h.handleCancellation(w, r, h.service.CancelBillingSubscriptions)
}

// handleCancelCRMSubscription handles the CRM-linked-variant webhook.
func (h *Handler) handleCancelCRMSubscription(w http.ResponseWriter, r *http.Request) {
	h.handleCancellation(w, r, h.service.CancelCRMSubscriptions)
}

func (h *Handler) handleCancellation(w http.ResponseWriter, r *http.Request, run func(context.Context, domain.CancellationRequest) (*domain.CancellationResult, error)) {
	var req domain.CancellationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := run(r.Context(), req)
	if err != nil {
		respondWithError(w, domain.HTTPStatus(err), err.Error())
		return
	}

	// Full success is 200; any failed cancellation downgrades to 207 so the
	// caller can inspect the per-subscription results.
	status := http.StatusOK
	if result.FailedCount > 0 {
		status = http.StatusMultiStatus
	}
	respondWithJSON(w, status, result)
}

// handleHealth reports service status and whether credentials are configured.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"crmConfigured":    h.crmConfigured,
		"stripeConfigured": h.stripeConfigured,
	})
}

// handleIndex describes the endpoint contract with an example payload.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"service":     "cancellation-service",
		"description": "Relays CRM subscription-cancellation webhooks to Stripe and computes the remaining paid-access grace period.",
		"endpoints": map[string]string{
			"POST /webhook/cancel-subscription":     "Cancel a contact's Stripe subscriptions (customer id resolved from CRM custom fields).",
			"POST /webhook/cancel-crm-subscription": "Cancel a contact's CRM-side subscriptions (CRM is the system of record).",
			"GET /health":                           "Service status and credential flags.",
		},
		"examplePayload": map[string]interface{}{
			"customerId":     "contact_abc123",
			"subscriptionId": "sub_1MowQVLkdIwHu7ixeRlqHVzs",
			"cancelInStripe": true,
		},
		"statusCodes": map[string]string{
			"200": "all attempted cancellations succeeded (or nothing to do)",
			"207": "at least one cancellation failed; see results",
			"400": "customerId missing",
			"404": "contact, billing customer mapping, or subscriptions not found",
			"500": "unexpected error",
		},
	})
}

// respondWithJSON is a helper function to write JSON responses.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError writes the uniform error body.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
