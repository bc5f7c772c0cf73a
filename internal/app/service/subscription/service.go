package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/errs"
	"github.com/subtrackhq/subtrack/pkg/logctx"
	"github.com/subtrackhq/subtrack/pkg/tool"
	"github.com/subtrackhq/subtrack/pkg/types"
)

// Service manages live subscription templates. Templates are only ever
// created, updated or terminated by explicit user action; the rollover
// engine never deletes them.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// CreateParams carries boundary input for a new live template.
type CreateParams struct {
	OwnerID     string         `json:"owner_id"`
	Name        string         `json:"name"`
	Price       int64          `json:"price"`
	Category    types.Category `json:"category"`
	BillingDay  int            `json:"billing_day"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Description string         `json:"description"`
}

// Create validates input and inserts a new live template. A second live
// template with the same owner and name is rejected.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.SubscriptionRecord, error) {
	rec, err := recordFromParams(p)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.SubscriptionRecord{}).
		Where("owner_id = ? AND name = ? AND history_month IS NULL AND is_active", p.OwnerID, p.Name).
		Count(&count).Error; err != nil {
		return nil, errs.Transient("count live templates", err)
	}
	if count > 0 {
		return nil, errs.Invalid("name", fmt.Sprintf("a live subscription named %q already exists", p.Name))
	}

	rec.ID = tool.GenerateUUIDV7()
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, errs.Transient("create template", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("template created", "owner_id", rec.OwnerID, "template_id", rec.ID, "name", rec.Name)
	return rec, nil
}

// UpdateParams carries the editable fields; nil pointers are left unchanged.
type UpdateParams struct {
	Name        *string         `json:"name"`
	Price       *int64          `json:"price"`
	Category    *types.Category `json:"category"`
	BillingDay  *int            `json:"billing_day"`
	Description *string         `json:"description"`
}

// Update edits a live template in place. Snapshots are immutable history and
// cannot be updated.
func (s *Service) Update(ctx context.Context, ownerID, id string, p UpdateParams) (*models.SubscriptionRecord, error) {
	rec, err := s.getTemplate(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Price != nil {
		rec.Price = *p.Price
	}
	if p.Category != nil {
		rec.Category = *p.Category
	}
	if p.BillingDay != nil {
		rec.BillingDay = *p.BillingDay
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return nil, errs.Transient("update template", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("template updated", "owner_id", ownerID, "template_id", id)
	return rec, nil
}

// Terminate closes a live template: charges stop after endDate's month.
func (s *Service) Terminate(ctx context.Context, ownerID, id string, endDate time.Time) (*models.SubscriptionRecord, error) {
	rec, err := s.getTemplate(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if endDate.Before(rec.StartDate) {
		return nil, errs.Invalid("end_date", "must not precede start_date")
	}

	rec.IsActive = false
	rec.EndDate = &endDate
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return nil, errs.Transient("terminate template", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("template terminated", "owner_id", ownerID, "template_id", id, "end_date", endDate.Format(time.DateOnly))
	return rec, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*models.SubscriptionRecord, error) {
	var rec models.SubscriptionRecord
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Transient("get record", err)
	}
	return &rec, nil
}

// ListTemplates returns the owner's live templates, optionally narrowed by
// filters (category, active flag, date ranges).
func (s *Service) ListTemplates(ctx context.Context, ownerID string, filters []*types.CommonFilter) ([]*models.SubscriptionRecord, error) {
	q := s.db.WithContext(ctx).
		Where("owner_id = ? AND history_month IS NULL", ownerID)
	for _, f := range filters {
		q = q.Where(clause.Where{Exprs: []clause.Expression{f}})
	}

	var recs []*models.SubscriptionRecord
	if err := q.Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, errs.Transient("list templates", err)
	}
	return recs, nil
}

// ListSnapshots returns materialized charge snapshots for one month.
func (s *Service) ListSnapshots(ctx context.Context, ownerID, monthKey string) ([]*models.SubscriptionRecord, error) {
	var recs []*models.SubscriptionRecord
	if err := s.db.WithContext(ctx).
		Where("owner_id = ? AND history_month = ?", ownerID, monthKey).
		Order("billing_date asc").
		Find(&recs).Error; err != nil {
		return nil, errs.Transient("list snapshots", err)
	}
	return recs, nil
}

func (s *Service) getTemplate(ctx context.Context, ownerID, id string) (*models.SubscriptionRecord, error) {
	rec, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !rec.IsTemplate() {
		return nil, errs.Invalid("id", "record is a historical snapshot, not a live template")
	}
	return rec, nil
}
