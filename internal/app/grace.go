/**
 * @description
 * Grace-period arithmetic: how many already-paid days of access remain after
 * cancellation, so the caller can delay access revocation accordingly.
 */
package app

import (
	"time"

	"github.com/accessgate/cancellation-service/internal/domain"
)

const secondsPerDay = 86400

// computeGracePeriod returns the longest remaining paid-access window among
// cancellable subscriptions, rounding partial days up. Subscriptions whose
// period already ended, whose status is not cancellable, or which report no
// period end contribute nothing. On equal day counts the earlier
// subscription in listing order keeps the end date.
func computeGracePeriod(subs []domain.Subscription, now time.Time) domain.GracePeriod {
	var grace domain.GracePeriod
	nowUnix := now.Unix()
	for _, sub := range subs {
		if !sub.Status.Cancellable() || sub.CurrentPeriodEnd == 0 {
			continue
		}
		remaining := sub.CurrentPeriodEnd - nowUnix
		if remaining <= 0 {
			continue
		}
		days := int((remaining + secondsPerDay - 1) / secondsPerDay)
		if days > grace.DaysRemaining {
			grace.DaysRemaining = days
			grace.EndDate = time.Unix(sub.CurrentPeriodEnd, 0)
		}
	}
	return grace
}
