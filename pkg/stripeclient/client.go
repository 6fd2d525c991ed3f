/**
 * @description
 * This package wraps the Stripe Go SDK for the two billing operations the
 * service performs: listing a customer's subscriptions and canceling a
 * subscription immediately. It maps Stripe's subscription objects into the
 * service's read-only domain view and converts Stripe errors into the domain
 * error taxonomy so the orchestrator can surface the upstream code per item.
 *
 * @notes
 * - The client is built on an explicit client.API instance rather than the
 *   package-level stripe.Key so tests can point it at a fake backend.
 * - Listing is capped at a single page of 100 subscriptions; the service
 *   deliberately does not paginate further.
 */
package stripeclient

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/accessgate/cancellation-service/internal/domain"
)

// listPageLimit is the fixed page size for subscription listing.
const listPageLimit = 100

// Client wraps the Stripe API for subscription listing and cancellation.
type Client struct {
	api *client.API
}

// NewClient creates a Stripe client authenticated with the given secret key.
func NewClient(secretKey string) *Client {
	return NewClientWithBackends(secretKey, nil)
}

// NewClientWithBackends creates a Stripe client against explicit backends.
// Tests use this to point the client at an httptest server.
func NewClientWithBackends(secretKey string, backends *stripe.Backends) *Client {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &Client{api: api}
}

// ListSubscriptions fetches up to one page of the customer's subscriptions,
// across all statuses, mapped into the domain view.
func (c *Client) ListSubscriptions(ctx context.Context, customerID string) ([]domain.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(listPageLimit)
	params.Single = true

	var subs []domain.Subscription
	iter := c.api.Subscriptions.List(params)
	for iter.Next() {
		subs = append(subs, fromStripeSubscription(iter.Subscription()))
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeError(err, "failed to list Stripe subscriptions for customer %s", customerID)
	}
	return subs, nil
}

// CancelSubscription cancels a Stripe subscription immediately.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := c.api.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return wrapStripeError(err, "failed to cancel Stripe subscription %s", subscriptionID)
	}
	return nil
}

// fromStripeSubscription maps a Stripe subscription into the domain view.
// Stripe reports the billing period per subscription item; the latest item
// period end stands in for the subscription's period end.
func fromStripeSubscription(sub *stripe.Subscription) domain.Subscription {
	var periodEnd int64
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item.CurrentPeriodEnd > periodEnd {
				periodEnd = item.CurrentPeriodEnd
			}
		}
	}
	return domain.Subscription{
		ID:               sub.ID,
		Status:           domain.SubscriptionStatus(sub.Status),
		CurrentPeriodEnd: periodEnd,
	}
}

// wrapStripeError converts a Stripe API failure into a domain upstream error,
// keeping Stripe's error code and message for the per-item outcome.
func wrapStripeError(err error, format string, args ...interface{}) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		return domain.UpstreamError(string(sErr.Code), err, format+": %s", append(args, sErr.Msg)...)
	}
	return domain.UpstreamError("", err, format, args...)
}
