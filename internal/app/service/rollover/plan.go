package rollover

import (
	"time"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/billing"
	"github.com/subtrackhq/subtrack/pkg/tool"
)

// plan is the side-effect-free outcome of evaluating one user's templates
// against an injected "today": which templates owe a snapshot for the
// current month and which are skipped (not yet due, not yet started, or
// already materialized).
type plan struct {
	due     []*models.SubscriptionRecord
	skipped []string
}

// planRollover decides due-ness per template. A template is due when today
// has reached its clamped billing date for the current month, so a run
// missed on the billing day itself is caught up by any later run in the
// same month. hasSnapshot reports whether a snapshot already exists for
// (template, current month).
func planRollover(templates []*models.SubscriptionRecord, hasSnapshot map[string]bool, today time.Time) plan {
	var p plan
	for _, tpl := range templates {
		if !dueToday(tpl, today) || hasSnapshot[tpl.ID] {
			p.skipped = append(p.skipped, tpl.ID)
			continue
		}
		p.due = append(p.due, tpl)
	}
	return p
}

func dueToday(tpl *models.SubscriptionRecord, today time.Time) bool {
	if today.Before(tpl.StartDate) {
		return false
	}
	billDate := billing.ClampedBillingDate(today.Year(), today.Month(), tpl.BillingDay)
	return !today.Before(billDate)
}

// newSnapshot materializes the monthly charge snapshot for a due template.
// The id is derived from (template, month), so re-materialization resolves
// to the same row instead of a duplicate charge.
func newSnapshot(tpl *models.SubscriptionRecord, today time.Time) *models.SubscriptionRecord {
	month := billing.MonthOf(today)
	monthKey := month.String()
	billDate := billing.ClampedBillingDate(month.Year, month.Mon, tpl.BillingDay)

	return &models.SubscriptionRecord{
		ID:           tool.SnapshotID(tpl.ID, monthKey),
		OwnerID:      tpl.OwnerID,
		Name:         tpl.Name,
		Price:        tpl.Price,
		Category:     tpl.Category,
		BillingDay:   tpl.BillingDay,
		StartDate:    tpl.StartDate,
		EndDate:      tpl.EndDate,
		IsActive:     tpl.IsActive,
		HistoryMonth: &monthKey,
		CreatedFrom:  &tpl.ID,
		BillingDate:  &billDate,
		Description:  tpl.Description,
	}
}
