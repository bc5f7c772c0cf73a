package subscription

import (
	"time"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/errs"
)

// recordFromParams validates boundary input and builds the live template.
// Malformed input never reaches the billing arithmetic.
func recordFromParams(p CreateParams) (*models.SubscriptionRecord, error) {
	if p.OwnerID == "" {
		return nil, errs.Invalid("owner_id", "required")
	}
	start, err := time.Parse(time.DateOnly, p.StartDate)
	if err != nil {
		return nil, errs.Invalid("start_date", "must be YYYY-MM-DD")
	}

	rec := &models.SubscriptionRecord{
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		BillingDay:  p.BillingDay,
		StartDate:   start,
		IsActive:    true,
		Description: p.Description,
	}
	if p.EndDate != "" {
		end, err := time.Parse(time.DateOnly, p.EndDate)
		if err != nil {
			return nil, errs.Invalid("end_date", "must be YYYY-MM-DD")
		}
		if end.Before(start) {
			return nil, errs.Invalid("end_date", "must not precede start_date")
		}
		rec.EndDate = &end
	}
	if err := validateRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func validateRecord(rec *models.SubscriptionRecord) error {
	if rec.Name == "" {
		return errs.Invalid("name", "required")
	}
	if rec.Price < 0 {
		return errs.Invalid("price", "must be non-negative")
	}
	if !rec.Category.Valid() {
		return errs.Invalid("category", "unknown category "+string(rec.Category))
	}
	if rec.BillingDay < 1 || rec.BillingDay > 31 {
		return errs.Invalid("billing_day", "must be between 1 and 31")
	}
	return nil
}
