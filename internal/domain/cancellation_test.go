package domain

import "testing"

func TestIsBillingCustomerID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "cus_NffrFeUfNV2Hib", want: true},
		{input: "cus_123", want: true},
		{input: "cus_", want: false},
		{input: "sub_NffrFeUfNV2Hib", want: false},
		{input: "customer-42", want: false},
		{input: " cus_NffrFeUfNV2Hib", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsBillingCustomerID(tt.input); got != tt.want {
				t.Fatalf("IsBillingCustomerID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFindFirstMatchingReturnsFirstInOrder(t *testing.T) {
	fields := []CustomField{
		{ID: "f1", Value: "gold-plan"},
		{ID: "f2", Value: "cus_first"},
		{ID: "f3", Value: "cus_second"},
	}

	got, ok := FindFirstMatching(fields, IsBillingCustomerID)
	if !ok {
		t.Fatalf("expected a match, got none")
	}
	if got != "cus_first" {
		t.Fatalf("expected first matching value cus_first, got %q", got)
	}
}

func TestFindFirstMatchingNoMatch(t *testing.T) {
	fields := []CustomField{
		{ID: "f1", Value: "gold-plan"},
		{ID: "f2", Value: "acct_123"},
	}

	if _, ok := FindFirstMatching(fields, IsBillingCustomerID); ok {
		t.Fatalf("expected no match")
	}
}

func TestFindFirstMatchingEmptyList(t *testing.T) {
	if _, ok := FindFirstMatching(nil, IsBillingCustomerID); ok {
		t.Fatalf("expected no match on empty field list")
	}
}

func TestStatusCancellable(t *testing.T) {
	tests := []struct {
		status SubscriptionStatus
		want   bool
	}{
		{status: StatusActive, want: true},
		{status: StatusTrialing, want: true},
		{status: StatusPastDue, want: true},
		{status: StatusUnpaid, want: true},
		{status: StatusIncomplete, want: true},
		{status: StatusCanceled, want: false},
		{status: SubscriptionStatus("incomplete_expired"), want: false},
		{status: SubscriptionStatus("paused"), want: false},
		{status: SubscriptionStatus(""), want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Cancellable(); got != tt.want {
				t.Fatalf("Cancellable(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPerformCancellationDefaultsTrue(t *testing.T) {
	var req CancellationRequest
	if !req.PerformCancellation() {
		t.Fatalf("expected cancellation to default to true when flag is absent")
	}

	f := false
	req.CancelInStripe = &f
	if req.PerformCancellation() {
		t.Fatalf("expected calculate-only mode when flag is false")
	}

	tr := true
	req.CancelInStripe = &tr
	if !req.PerformCancellation() {
		t.Fatalf("expected cancellation when flag is true")
	}
}
