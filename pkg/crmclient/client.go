/**
 * @description
 * This package provides a client for the CRM platform's REST API. It
 * encapsulates authenticated HTTP requests, JSON codec handling, and error
 * passthrough so upstream failures keep their status and body for diagnosis.
 *
 * @dependencies
 * - context, encoding/json, fmt, io, net/http, net/url, time: Standard Go libraries.
 * - github.com/accessgate/cancellation-service/internal/domain: contact and
 *   subscription views plus the error taxonomy.
 *
 * @notes
 * - The client ships a default HTTP client with a timeout so requests cannot
 *   hang indefinitely.
 * - A 404 from the CRM is translated to a domain NotFoundError; every other
 *   failure surfaces the status code and response body verbatim.
 */
package crmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/accessgate/cancellation-service/internal/domain"
)

// Client is a client for the CRM REST API.
type Client struct {
	BaseURL    string
	APIKey     string
	LocationID string
	httpClient *http.Client
}

// NewClient creates a new CRM API client scoped to one location (tenant).
func NewClient(baseURL, apiKey, locationID string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		LocationID: locationID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetContact fetches a contact (subscriber) by id, including its custom fields.
func (c *Client) GetContact(ctx context.Context, contactID string) (*domain.Contact, error) {
	reqURL := fmt.Sprintf("%s/v1/contacts/%s?locationId=%s", c.BaseURL, url.PathEscape(contactID), url.QueryEscape(c.LocationID))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send contact request to CRM: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NotFoundError("contact %s not found in CRM", contactID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	// The CRM wraps the record in a "contact" envelope.
	var contactResp struct {
		Contact domain.Contact `json:"contact"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&contactResp); err != nil {
		return nil, fmt.Errorf("failed to decode contact response: %w", err)
	}
	return &contactResp.Contact, nil
}

// ListSubscriptions fetches the CRM-side subscriptions of a contact. Used by
// the variant where the CRM is the system of record for subscriptions.
func (c *Client) ListSubscriptions(ctx context.Context, contactID string) ([]domain.Subscription, error) {
	reqURL := fmt.Sprintf("%s/v1/contacts/%s/subscriptions?locationId=%s&limit=100", c.BaseURL, url.PathEscape(contactID), url.QueryEscape(c.LocationID))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription list request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send subscription list request to CRM: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NotFoundError("contact %s not found in CRM", contactID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	var listResp struct {
		Subscriptions []domain.Subscription `json:"subscriptions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode subscription list response: %w", err)
	}
	return listResp.Subscriptions, nil
}

// DeleteSubscription cancels a CRM-side subscription by id.
func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	reqURL := fmt.Sprintf("%s/v1/subscriptions/%s?locationId=%s", c.BaseURL, url.PathEscape(subscriptionID), url.QueryEscape(c.LocationID))

	httpReq, err := http.NewRequestWithContext(ctx, "DELETE", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create subscription delete request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send subscription delete request to CRM: %w", err)
	}
	defer resp.Body.Close()

	// The CRM answers 200 or 204 on a successful delete.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.handleErrorResponse(resp)
	}
	return nil
}

// setHeaders adds the authentication and content-type headers to the request.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
}

// handleErrorResponse reads the body of a failed API call and returns an
// upstream error carrying the CRM's message for manual diagnosis.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.UpstreamError(fmt.Sprintf("http_%d", resp.StatusCode), nil,
			"CRM API error with status %d, but failed to read response body", resp.StatusCode)
	}

	// Prefer the CRM's structured message when the body parses.
	var errBody struct {
		Message string `json:"message"`
	}
	message := string(bodyBytes)
	if json.Unmarshal(bodyBytes, &errBody) == nil && errBody.Message != "" {
		message = errBody.Message
	}
	return domain.UpstreamError(fmt.Sprintf("http_%d", resp.StatusCode), nil,
		"CRM API request failed with status %d: %s", resp.StatusCode, message)
}
