package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/billing"
	"github.com/subtrackhq/subtrack/pkg/errs"
)

// Service derives spend aggregates from live templates via date-range
// overlap. Snapshots are deliberately excluded from aggregation: counting
// both a template and its materialized snapshot would double every charge.
// All methods are read-only and take the current date explicitly.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// ComputeMonthlyTotals returns the dense per-month series over
// [winStart, winEnd], zero months included.
func (s *Service) ComputeMonthlyTotals(ctx context.Context, userID string, winStart, winEnd billing.Month, today time.Time) ([]MonthlyTotal, error) {
	recs, err := s.liveTemplates(ctx, userID)
	if err != nil {
		return nil, err
	}
	return monthlyTotals(recs, winStart, winEnd, billing.MonthOf(today))
}

// ComputeCategoryTotals returns per-category spend for target, sorted
// descending.
func (s *Service) ComputeCategoryTotals(ctx context.Context, userID string, target billing.Month, today time.Time) ([]CategoryTotal, error) {
	recs, err := s.liveTemplates(ctx, userID)
	if err != nil {
		return nil, err
	}
	return categoryTotals(recs, target, billing.MonthOf(today)), nil
}

// ComputeAnnualEstimate projects the full calendar year's spend per
// category and service.
func (s *Service) ComputeAnnualEstimate(ctx context.Context, userID string, year int, today time.Time) (*AnnualEstimate, error) {
	if year < 1970 || year > today.Year()+10 {
		return nil, errs.Invalid("year", "out of range")
	}
	recs, err := s.liveTemplates(ctx, userID)
	if err != nil {
		return nil, err
	}
	return annualEstimate(recs, year)
}

func (s *Service) liveTemplates(ctx context.Context, userID string) ([]*models.SubscriptionRecord, error) {
	if userID == "" {
		return nil, errs.Invalid("user_id", "required")
	}
	var recs []*models.SubscriptionRecord
	if err := s.db.WithContext(ctx).
		Where("owner_id = ? AND history_month IS NULL", userID).
		Find(&recs).Error; err != nil {
		return nil, errs.Transient("load live templates", err)
	}
	return recs, nil
}
