package analytics

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/billing"
	"github.com/subtrackhq/subtrack/pkg/errs"
	"github.com/subtrackhq/subtrack/pkg/types"
)

// MonthlyTotal is one bucket of the dense per-month series.
type MonthlyTotal struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
}

// CategoryTotal is one month's spend in one category.
type CategoryTotal struct {
	Category types.Category `json:"category"`
	Total    int64          `json:"total"`
}

// ServiceEstimate is one subscription's projected share of a calendar year.
type ServiceEstimate struct {
	Name       string `json:"name"`
	Amount     int64  `json:"amount"`
	MonthsUsed int    `json:"months_used"`
}

// CategoryEstimate groups service estimates under one category.
type CategoryEstimate struct {
	Category    types.Category    `json:"category"`
	TotalAmount int64             `json:"total_amount"`
	Services    []ServiceEstimate `json:"services"`
}

// AnnualEstimate is the projected full-year spend.
type AnnualEstimate struct {
	Year        int                `json:"year"`
	TotalAmount int64              `json:"total_amount"`
	Categories  []CategoryEstimate `json:"categories"`
}

// monthlyTotals accumulates per-month spend over the window. The returned
// series is dense and contiguous: every month in [winStart, winEnd] appears,
// zero-spend months included, since downstream consumers never re-derive
// months. Records wholly outside the window are excluded before iteration.
func monthlyTotals(recs []*models.SubscriptionRecord, winStart, winEnd, current billing.Month) ([]MonthlyTotal, error) {
	if winEnd.Before(winStart) {
		return nil, errs.Invalid("window", "end month precedes start month")
	}

	buckets := make(map[billing.Month]int64, billing.MonthsBetween(winStart, winEnd))
	for _, rec := range recs {
		for _, m := range billing.OverlapMonths(rec.StartDate, rec.EndDate, rec.IsActive, winStart, winEnd, current) {
			buckets[m] += rec.Price
		}
	}

	series := make([]MonthlyTotal, 0, billing.MonthsBetween(winStart, winEnd))
	for m := winStart; !m.After(winEnd); m = m.Next() {
		series = append(series, MonthlyTotal{Month: m.String(), Total: buckets[m]})
	}
	return series, nil
}

// categoryTotals sums spend per category for a single target month, sorted
// descending by total.
func categoryTotals(recs []*models.SubscriptionRecord, target, current billing.Month) []CategoryTotal {
	buckets := make(map[types.Category]int64)
	for _, rec := range recs {
		if rec.BillableIn(target, current) {
			buckets[rec.Category] += rec.Price
		}
	}

	totals := make([]CategoryTotal, 0, len(buckets))
	for cat, total := range buckets {
		totals = append(totals, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// annualEstimate projects each subscription over one calendar year:
// monthsUsed is the calendar-month overlap with the year, amount is
// price x monthsUsed. Unlike window aggregation, the projection runs through
// year end for open-ended subscriptions and honors an advisory endDate even
// while the subscription is still active.
func annualEstimate(recs []*models.SubscriptionRecord, year int) (*AnnualEstimate, error) {
	yearStart := billing.Month{Year: year, Mon: time.January}
	yearEnd := billing.Month{Year: year, Mon: time.December}

	type serviceRow struct {
		category types.Category
		est      ServiceEstimate
	}
	var rows []serviceRow
	var total int64

	for _, rec := range recs {
		effStart := billing.MonthOf(rec.StartDate)
		effEnd := yearEnd
		if rec.EndDate != nil {
			effEnd = billing.MonthOf(*rec.EndDate)
		}
		if effStart.After(yearEnd) || effEnd.Before(yearStart) {
			continue
		}
		if effStart.Before(yearStart) {
			effStart = yearStart
		}
		if effEnd.After(yearEnd) {
			effEnd = yearEnd
		}

		monthsUsed := billing.MonthsBetween(effStart, effEnd)
		if monthsUsed <= 0 {
			return nil, errs.Invariant("annual overlap for %q yielded %d months", rec.Name, monthsUsed)
		}

		amount := rec.Price * int64(monthsUsed)
		total += amount
		rows = append(rows, serviceRow{
			category: rec.Category,
			est:      ServiceEstimate{Name: rec.Name, Amount: amount, MonthsUsed: monthsUsed},
		})
	}

	grouped := lo.GroupBy(rows, func(r serviceRow) types.Category { return r.category })
	categories := make([]CategoryEstimate, 0, len(grouped))
	for cat, group := range grouped {
		services := lo.Map(group, func(r serviceRow, _ int) ServiceEstimate { return r.est })
		sort.Slice(services, func(i, j int) bool { return services[i].Amount > services[j].Amount })
		categories = append(categories, CategoryEstimate{
			Category:    cat,
			TotalAmount: lo.SumBy(services, func(s ServiceEstimate) int64 { return s.Amount }),
			Services:    services,
		})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].TotalAmount > categories[j].TotalAmount })

	return &AnnualEstimate{Year: year, TotalAmount: total, Categories: categories}, nil
}
