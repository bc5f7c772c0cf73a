// Package billing holds the pure date arithmetic behind the charge ledger:
// month-clamped billing days, next-billing-date advancement and month-range
// overlap for a subscription's active window. All functions are deterministic
// and assume inputs were validated at the boundary.
package billing

import "time"

// DaysIn returns the number of days in the given calendar month.
func DaysIn(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedBillingDate resolves a billing anchor day within a concrete month.
// Anchors past the end of the month clamp to its last day, so a day-31
// subscription bills on Feb 28/29 and Apr 30 rather than spilling into the
// following month.
func ClampedBillingDate(year int, month time.Month, billingDay int) time.Time {
	day := billingDay
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NextBillingDate advances a billing date to the same day in the following
// month, clamped to that month's length. The anchor is the day of current
// itself, so repeated application drifts with the clamp: Jan 31 -> Feb 28 ->
// Mar 28. Naive AddDate arithmetic would roll Jan 31 into Mar 3; the clamp
// guards against that.
func NextBillingDate(current time.Time) time.Time {
	next := MonthOf(current).Next()
	return ClampedBillingDate(next.Year, next.Mon, current.Day())
}

// OverlapMonths returns the ordered month keys for which a subscription was
// billable inside [winStart, winEnd].
//
// The effective end month is re-derived on every call: a terminated
// subscription ends in its endDate month, while an active one is billable
// through current inclusive regardless of any advisory endDate. Subscriptions
// wholly outside the window yield nil without iterating.
func OverlapMonths(start time.Time, end *time.Time, isActive bool, winStart, winEnd, current Month) []Month {
	if winEnd.Before(winStart) {
		return nil
	}

	effStart := MonthOf(start)
	effEnd := current
	if !isActive && end != nil {
		effEnd = MonthOf(*end)
	}
	if effEnd.Before(effStart) {
		return nil
	}

	from := maxMonth(effStart, winStart)
	to := minMonth(effEnd, winEnd)
	if to.Before(from) {
		return nil
	}

	months := make([]Month, 0, MonthsBetween(from, to))
	for m := from; !m.After(to); m = m.Next() {
		months = append(months, m)
	}
	return months
}
