package models

import (
	"time"

	"gorm.io/datatypes"
)

// RolloverLog records the outcome of each rollover invocation.
// Use case: troubleshooting missed or duplicated-looking charges.
type RolloverLog struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OwnerID string `gorm:"column:owner_id;type:varchar(64);index:idx_owner_created,priority:1;not null" json:"owner_id"`
	// RunDate is the injected "today" the run was evaluated against.
	RunDate  string `gorm:"column:run_date;type:varchar(10);not null" json:"run_date"`
	Advanced int    `gorm:"column:advanced;not null" json:"advanced"`
	Skipped  int    `gorm:"column:skipped;not null" json:"skipped"`
	// Extra stores per-template detail such as failure reasons.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time         `gorm:"index:idx_owner_created,priority:2" json:"created_at"`
}

func (RolloverLog) TableName() string {
	return "rollover_log"
}
