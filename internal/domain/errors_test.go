package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "validation maps to 400",
			err:  ValidationError("customerId is required"),
			want: http.StatusBadRequest,
		},
		{
			name: "not found maps to 404",
			err:  NotFoundError("contact %s not found in CRM", "c1"),
			want: http.StatusNotFound,
		},
		{
			name: "upstream maps to 500",
			err:  UpstreamError("resource_missing", errors.New("boom"), "stripe call failed"),
			want: http.StatusInternalServerError,
		},
		{
			name: "plain error maps to 500",
			err:  errors.New("network down"),
			want: http.StatusInternalServerError,
		},
		{
			name: "wrapped taxonomy error keeps its status",
			err:  fmt.Errorf("handler: %w", NotFoundError("gone")),
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUpstreamCode(t *testing.T) {
	err := UpstreamError("resource_missing", errors.New("no such subscription"), "cancel failed")
	if got := UpstreamCode(err); got != "resource_missing" {
		t.Fatalf("expected code resource_missing, got %q", got)
	}
	if got := UpstreamCode(errors.New("plain")); got != "" {
		t.Fatalf("expected empty code for plain error, got %q", got)
	}
}

func TestErrorMessageIncludesWrappedCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := UpstreamError("", cause, "cancel failed")
	if err.Error() != "cancel failed: connection reset" {
		t.Fatalf("unexpected error string: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable via errors.Is")
	}
}
