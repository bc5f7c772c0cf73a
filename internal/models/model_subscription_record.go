package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/subtrackhq/subtrack/pkg/billing"
	"github.com/subtrackhq/subtrack/pkg/types"
)

// SubscriptionRecord is the unit of truth for tracked subscriptions.
//
// A record with HistoryMonth nil is the live template for an ongoing
// subscription; a populated HistoryMonth marks a materialized monthly charge
// snapshot for that month, linked back to its template via CreatedFrom.
// At most one live template may exist per (owner_id, name).
type SubscriptionRecord struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OwnerID string `gorm:"column:owner_id;type:varchar(64);not null;index:idx_owner_history,priority:1" json:"owner_id"`
	Name    string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	// Price is in the minor currency unit (yen).
	Price      int64          `gorm:"column:price;not null" json:"price"`
	Category   types.Category `gorm:"column:category;type:varchar(32);not null" json:"category"`
	BillingDay int            `gorm:"column:billing_day;not null" json:"billing_day"`
	StartDate  time.Time      `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    *time.Time     `gorm:"column:end_date;default:null" json:"end_date"`
	IsActive   bool           `gorm:"column:is_active;not null" json:"is_active"`
	// HistoryMonth is the "YYYY-MM" key of a materialized snapshot, or nil
	// for the live template.
	HistoryMonth *string `gorm:"column:history_month;type:varchar(7);default:null;index:idx_owner_history,priority:2" json:"history_month"`
	// CreatedFrom references the template a snapshot was generated from.
	// Weak reference: lookup only, not ownership.
	CreatedFrom *string `gorm:"column:created_from;type:uuid;default:null;index" json:"created_from"`
	// BillingDate is the clamped charge date inside HistoryMonth; only set on
	// snapshots.
	BillingDate *time.Time `gorm:"column:billing_date;default:null" json:"billing_date"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	// Extra stores additional JSON data (for example currency or promo notes).
	Extra datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	// CreatedAt and UpdatedAt are managed by GORM.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SubscriptionRecord) TableName() string {
	return "subscription_record"
}

// IsTemplate reports whether the record is a live template rather than a
// monthly snapshot.
func (r *SubscriptionRecord) IsTemplate() bool {
	return r != nil && r.HistoryMonth == nil
}

// BillableIn reports whether the subscription bills during month m, with the
// current month injected for open-ended active templates.
func (r *SubscriptionRecord) BillableIn(m, current billing.Month) bool {
	months := billing.OverlapMonths(r.StartDate, r.EndDate, r.IsActive, m, m, current)
	return len(months) == 1
}
