package models

import "time"

// RolloverRun is the per-user last-run marker for the daily ledger rollover.
//
// It lives in the record store rather than any client-local storage so that
// correctness never depends on which device last triggered a run. The marker
// only short-circuits redundant same-day triggers; the rollover itself stays
// idempotent without it.
type RolloverRun struct {
	OwnerID string `gorm:"column:owner_id;type:varchar(64);primary_key" json:"owner_id"`
	// LastRunDate is the local calendar date ("YYYY-MM-DD") of the last
	// completed run.
	LastRunDate string    `gorm:"column:last_run_date;type:varchar(10);not null" json:"last_run_date"`
	LastRunAt   time.Time `gorm:"column:last_run_at;not null" json:"last_run_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (RolloverRun) TableName() string {
	return "rollover_run"
}
