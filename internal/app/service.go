/**
 * @description
 * This file contains the core business logic of the cancellation-service:
 * the orchestration of subscriber resolution, subscription enumeration,
 * grace-period computation, cancellation, and result aggregation. Two
 * variants share the pipeline: the Stripe variant resolves the billing
 * customer via a custom-field scan and cancels in Stripe; the CRM-linked
 * variant lists and cancels subscriptions in the CRM itself.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/accessgate/cancellation-service/internal/domain"
)

// CRMClient defines the CRM operations the service needs.
type CRMClient interface {
	GetContact(ctx context.Context, contactID string) (*domain.Contact, error)
	ListSubscriptions(ctx context.Context, contactID string) ([]domain.Subscription, error)
	DeleteSubscription(ctx context.Context, subscriptionID string) error
}

// BillingClient defines the billing-system operations the service needs.
type BillingClient interface {
	ListSubscriptions(ctx context.Context, customerID string) ([]domain.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

// EventPublisher publishes a cancellation event for downstream automation.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

// Service provides the cancellation orchestration logic.
type Service struct {
	crm      CRMClient
	billing  BillingClient
	events   EventPublisher // nil when no broker is configured
	exchange string
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new cancellation service. events may be nil.
func NewService(crm CRMClient, billing BillingClient, events EventPublisher, exchange string, logger *slog.Logger) *Service {
	return &Service{
		crm:      crm,
		billing:  billing,
		events:   events,
		exchange: exchange,
		logger:   logger,
		now:      time.Now,
	}
}

// CancelBillingSubscriptions handles the Stripe variant: the billing customer
// id is discovered on the CRM contact's custom fields, subscriptions are
// listed and canceled in Stripe.
func (s *Service) CancelBillingSubscriptions(ctx context.Context, req domain.CancellationRequest) (*domain.CancellationResult, error) {
	if strings.TrimSpace(req.CustomerID) == "" {
		return nil, domain.ValidationError("customerId is required")
	}
	s.logger.Info("processing cancellation webhook",
		"customerId", req.CustomerID, "performCancellation", req.PerformCancellation())

	contact, err := s.crm.GetContact(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	stripeCustomerID, ok := domain.FindFirstMatching(contact.CustomFields, domain.IsBillingCustomerID)
	if !ok {
		return nil, domain.NotFoundError(
			"no Stripe customer id found on contact %s: populate the Stripe customer id custom field and retry",
			req.CustomerID)
	}
	s.logger.Info("resolved billing customer",
		"contactId", req.CustomerID, "stripeCustomerId", stripeCustomerID)

	subs, err := s.billing.ListSubscriptions(ctx, stripeCustomerID)
	if err != nil {
		return nil, err
	}

	result, err := s.process(ctx, req, subs, s.billing.CancelSubscription)
	if err != nil {
		return nil, err
	}
	result.CustomerID = req.CustomerID
	result.StripeCustomerID = stripeCustomerID

	s.publishOutcome(ctx, result)
	return result, nil
}

// CancelCRMSubscriptions handles the CRM-linked variant: the CRM is the
// system of record, so subscriptions are listed by contact id and canceled
// in the CRM directly. Billing-customer resolution is skipped entirely.
func (s *Service) CancelCRMSubscriptions(ctx context.Context, req domain.CancellationRequest) (*domain.CancellationResult, error) {
	if strings.TrimSpace(req.CustomerID) == "" {
		return nil, domain.ValidationError("customerId is required")
	}
	s.logger.Info("processing CRM cancellation webhook",
		"customerId", req.CustomerID, "performCancellation", req.PerformCancellation())

	subs, err := s.crm.ListSubscriptions(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	result, err := s.process(ctx, req, subs, s.crm.DeleteSubscription)
	if err != nil {
		return nil, err
	}
	result.CustomerID = req.CustomerID

	s.publishOutcome(ctx, result)
	return result, nil
}

// process runs the shared pipeline over an enumerated subscription list:
// working-set restriction, grace-period computation, sequential cancellation
// with isolated per-item failures, and aggregation.
func (s *Service) process(ctx context.Context, req domain.CancellationRequest, subs []domain.Subscription, cancel func(context.Context, string) error) (*domain.CancellationResult, error) {
	if len(subs) == 0 {
		return nil, domain.NotFoundError("no subscriptions found for customer %s", req.CustomerID)
	}

	if req.SubscriptionID != "" {
		subs = filterByID(subs, req.SubscriptionID)
		if len(subs) == 0 {
			return nil, domain.NotFoundError("subscription %s not found for customer %s", req.SubscriptionID, req.CustomerID)
		}
	}

	grace := computeGracePeriod(subs, s.now())

	result := &domain.CancellationResult{
		TotalSubscriptions:     len(subs),
		Results:                []domain.CancellationOutcome{},
		AccessDaysRemaining:    grace.DaysRemaining,
		RecommendedWaitSeconds: int64(grace.DaysRemaining) * secondsPerDay,
	}
	if !grace.EndDate.IsZero() {
		result.AccessEndDate = grace.EndDate.UTC().Format(time.RFC3339)
	}

	var cancellable []domain.Subscription
	for _, sub := range subs {
		if !sub.Status.Cancellable() {
			s.logger.Info("skipping subscription", "subscriptionId", sub.ID, "status", sub.Status)
			result.SkippedCount++
			continue
		}
		cancellable = append(cancellable, sub)
	}

	if !req.PerformCancellation() {
		result.Success = true
		result.Message = fmt.Sprintf("calculate-only mode: %d cancellable subscription(s) left untouched", len(cancellable))
		return result, nil
	}

	// Cancellations run one after another: the page is small and ordered
	// log output matters for operability. One failure never blocks the rest.
	for _, sub := range cancellable {
		if err := cancel(ctx, sub.ID); err != nil {
			s.logger.Error("cancellation failed", "subscriptionId", sub.ID, "error", err)
			result.FailedCount++
			result.Results = append(result.Results, domain.CancellationOutcome{
				SubscriptionID: sub.ID,
				Success:        false,
				Message:        err.Error(),
				ErrorCode:      domain.UpstreamCode(err),
			})
			continue
		}
		s.logger.Info("subscription canceled", "subscriptionId", sub.ID)
		result.CanceledCount++
		result.Results = append(result.Results, domain.CancellationOutcome{
			SubscriptionID: sub.ID,
			Success:        true,
			Message:        "subscription canceled",
		})
	}

	result.Success = result.FailedCount == 0
	switch {
	case len(cancellable) == 0:
		result.Message = "no cancellable subscriptions found"
	case result.FailedCount > 0:
		result.Message = fmt.Sprintf("%d of %d cancellation(s) failed", result.FailedCount, len(cancellable))
	default:
		result.Message = fmt.Sprintf("canceled %d subscription(s)", result.CanceledCount)
	}
	return result, nil
}

// publishOutcome announces a completed run on the event exchange. Publishing
// is best effort: the broker may be absent and a failure never changes the
// webhook response.
func (s *Service) publishOutcome(ctx context.Context, result *domain.CancellationResult) {
	if s.events == nil || result.CanceledCount+result.FailedCount == 0 {
		return
	}
	if err := s.events.Publish(ctx, s.exchange, "subscription.canceled", result); err != nil {
		s.logger.Error("failed to publish cancellation event", "customerId", result.CustomerID, "error", err)
	}
}

func filterByID(subs []domain.Subscription, id string) []domain.Subscription {
	var out []domain.Subscription
	for _, sub := range subs {
		if sub.ID == id {
			out = append(out, sub)
		}
	}
	return out
}
