package app

import (
	"testing"
	"time"

	"github.com/accessgate/cancellation-service/internal/domain"
)

func TestComputeGracePeriod(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		subs     []domain.Subscription
		wantDays int
		wantEnd  int64 // epoch seconds, 0 means no end date expected
	}{
		{
			name: "exactly ten days remaining",
			subs: []domain.Subscription{
				{ID: "sub_1", Status: domain.StatusActive, CurrentPeriodEnd: now.Unix() + 10*secondsPerDay},
			},
			wantDays: 10,
			wantEnd:  now.Unix() + 10*secondsPerDay,
		},
		{
			name: "partial day rounds up",
			subs: []domain.Subscription{
				{ID: "sub_1", Status: domain.StatusActive, CurrentPeriodEnd: now.Unix() + 9*secondsPerDay + 1},
			},
			wantDays: 10,
			wantEnd:  now.Unix() + 9*secondsPerDay + 1,
		},
		{
			name: "maximum across subscriptions wins",
			subs: []domain.Subscription{
				{ID: "sub_1", Status: domain.StatusTrialing, CurrentPeriodEnd: now.Unix() + 3*secondsPerDay},
				{ID: "sub_2", Status: domain.StatusPastDue, CurrentPeriodEnd: now.Unix() + 30*secondsPerDay},
				{ID: "sub_3", Status: domain.StatusActive, CurrentPeriodEnd: now.Unix() + 7*secondsPerDay},
			},
			wantDays: 30,
			wantEnd:  now.Unix() + 30*secondsPerDay,
		},
		{
			name: "non-cancellable statuses contribute nothing",
			subs: []domain.Subscription{
				{ID: "sub_1", Status: domain.StatusCanceled, CurrentPeriodEnd: now.Unix() + 90*secondsPerDay},
				{ID: "sub_2", Status: domain.StatusActive, CurrentPeriodEnd: now.Unix() + 5*secondsPerDay},
			},
			wantDays: 5,
			wantEnd:  now.Unix() + 5*secondsPerDay,
		},
		{
			name: "expired period contributes nothing",
			subs: []domain.Subscription{
				{ID: "sub_1", Status: domain.StatusUnpaid, CurrentPeriodEnd: now.Unix() - secondsPerDay},
			},
			wantDays: 0,
			wantEnd:  0,
		},
		{
			name: "missing period end contributes nothing",
			subs: []domain.Subscription{
				{ID: "sub_1", Status: domain.StatusActive, CurrentPeriodEnd: 0},
			},
			wantDays: 0,
			wantEnd:  0,
		},
		{
			name:     "no subscriptions",
			subs:     nil,
			wantDays: 0,
			wantEnd:  0,
		},
		{
			name: "tie keeps the earlier subscription's end date",
			subs: []domain.Subscription{
				{ID: "sub_1", Status: domain.StatusActive, CurrentPeriodEnd: now.Unix() + 9*secondsPerDay + 100},
				{ID: "sub_2", Status: domain.StatusActive, CurrentPeriodEnd: now.Unix() + 9*secondsPerDay + 200},
			},
			wantDays: 10,
			wantEnd:  now.Unix() + 9*secondsPerDay + 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeGracePeriod(tt.subs, now)
			if got.DaysRemaining != tt.wantDays {
				t.Fatalf("expected %d days remaining, got %d", tt.wantDays, got.DaysRemaining)
			}
			if tt.wantEnd == 0 {
				if !got.EndDate.IsZero() {
					t.Fatalf("expected no end date, got %v", got.EndDate)
				}
				return
			}
			if got.EndDate.Unix() != tt.wantEnd {
				t.Fatalf("expected end date at %d, got %d", tt.wantEnd, got.EndDate.Unix())
			}
		})
	}
}
