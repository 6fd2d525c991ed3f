/**
 * @description
 * This file defines the core domain models for the cancellation-service.
 * It includes the inbound webhook request, the read-only subscription view
 * fetched from the billing system, and the aggregate cancellation result
 * returned to the caller. All of these are request-scoped; nothing here is
 * ever persisted.
 */
package domain

import (
	"regexp"
	"time"
)

// SubscriptionStatus is the state of a billing-system subscription.
type SubscriptionStatus string

const (
	StatusActive     SubscriptionStatus = "active"
	StatusTrialing   SubscriptionStatus = "trialing"
	StatusPastDue    SubscriptionStatus = "past_due"
	StatusUnpaid     SubscriptionStatus = "unpaid"
	StatusIncomplete SubscriptionStatus = "incomplete"
	StatusCanceled   SubscriptionStatus = "canceled"
)

// cancellableStatuses is the fixed policy set of states eligible for
// cancellation and grace-period accrual. Statuses outside this set
// (canceled, incomplete_expired, paused, ...) are always skipped.
var cancellableStatuses = map[SubscriptionStatus]bool{
	StatusActive:     true,
	StatusTrialing:   true,
	StatusPastDue:    true,
	StatusUnpaid:     true,
	StatusIncomplete: true,
}

// Cancellable reports whether a subscription in this state may be canceled.
func (s SubscriptionStatus) Cancellable() bool {
	return cancellableStatuses[s]
}

// Subscription is a read-only view of a subscription fetched from the
// billing system (or, in the CRM-linked variant, from the CRM itself).
type Subscription struct {
	ID     string             `json:"id"`
	Status SubscriptionStatus `json:"status"`
	// CurrentPeriodEnd is the end of the already-paid billing period in
	// epoch seconds. Zero means the remote system reported no period end.
	CurrentPeriodEnd int64 `json:"currentPeriodEnd"`
}

// CancellationRequest is the inbound webhook payload.
type CancellationRequest struct {
	CustomerID string `json:"customerId"`
	// SubscriptionID optionally restricts processing to a single subscription.
	SubscriptionID string `json:"subscriptionId,omitempty"`
	// CancelInStripe gates the cancellation calls. Absent means true;
	// false puts the handler in calculate-only mode.
	CancelInStripe *bool `json:"cancelInStripe,omitempty"`
}

// PerformCancellation resolves the CancelInStripe flag with its default.
func (r CancellationRequest) PerformCancellation() bool {
	return r.CancelInStripe == nil || *r.CancelInStripe
}

// CustomField is a free-form key/value pair attached to a CRM contact.
type CustomField struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Contact is a subscriber record in the CRM system.
type Contact struct {
	ID           string        `json:"id"`
	Email        string        `json:"email,omitempty"`
	Name         string        `json:"name,omitempty"`
	CustomFields []CustomField `json:"customFields"`
}

// billingCustomerIDPattern recognizes Stripe customer identifiers among a
// contact's custom-field values.
var billingCustomerIDPattern = regexp.MustCompile(`^cus_[A-Za-z0-9]+$`)

// IsBillingCustomerID reports whether v looks like a Stripe customer id.
func IsBillingCustomerID(v string) bool {
	return billingCustomerIDPattern.MatchString(v)
}

// FindFirstMatching returns the first custom-field value satisfying the
// predicate, scanning fields in order.
func FindFirstMatching(fields []CustomField, predicate func(string) bool) (string, bool) {
	for _, f := range fields {
		if predicate(f.Value) {
			return f.Value, true
		}
	}
	return "", false
}

// GracePeriod is the remaining paid-access window, computed fresh per
// request from the maximum period end among cancellable subscriptions.
type GracePeriod struct {
	DaysRemaining int
	// EndDate is zero when no cancellable subscription has a future period end.
	EndDate time.Time
}

// CancellationOutcome is the per-subscription result of one cancellation call.
type CancellationOutcome struct {
	SubscriptionID string `json:"subscriptionId"`
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ErrorCode      string `json:"errorCode,omitempty"`
}

// CancellationResult is the aggregate response body for a webhook call.
type CancellationResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	CustomerID       string `json:"customerId"`
	StripeCustomerID string `json:"stripeCustomerId,omitempty"`

	TotalSubscriptions int                   `json:"totalSubscriptions"`
	CanceledCount      int                   `json:"canceledCount"`
	FailedCount        int                   `json:"failedCount"`
	SkippedCount       int                   `json:"skippedCount"`
	Results            []CancellationOutcome `json:"results"`

	// Grace-period fields for the caller's delayed-revocation automation.
	AccessDaysRemaining    int    `json:"accessDaysRemaining"`
	AccessEndDate          string `json:"accessEndDate,omitempty"`
	RecommendedWaitSeconds int64  `json:"recommendedWaitSeconds"`
}
