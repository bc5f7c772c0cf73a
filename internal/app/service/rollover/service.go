package rollover

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/billing"
	"github.com/subtrackhq/subtrack/pkg/errs"
	"github.com/subtrackhq/subtrack/pkg/logctx"
	"github.com/subtrackhq/subtrack/pkg/metrics"
	"github.com/subtrackhq/subtrack/pkg/tool"
)

// Service performs the once-per-day ledger rollover: it materializes monthly
// charge snapshots for templates whose billing day has been reached, exactly
// once per (template, month), and never mutates or duplicates the live
// template itself.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Result reports one rollover invocation. Advanced lists templates whose
// snapshot was written by this call; Skipped lists templates that were not
// due, already materialized, or failed and will be retried.
type Result struct {
	Advanced []string `json:"advanced"`
	Skipped  []string `json:"skipped"`
}

// RunRollover evaluates all live templates for userID against the injected
// today. Safe under at-least-once scheduling: the deterministic snapshot id
// plus a conditional insert make re-runs and concurrent runs converge. A
// failure on one template never blocks the others.
func (s *Service) RunRollover(ctx context.Context, userID string, today time.Time) (*Result, error) {
	if userID == "" {
		return nil, errs.Invalid("user_id", "required")
	}
	log := logctx.FromCtx(ctx, s.log).With("owner_id", userID, "run_date", today.Format(time.DateOnly))
	m := metrics.Rollover()

	var templates []*models.SubscriptionRecord
	if err := s.db.WithContext(ctx).
		Where("owner_id = ? AND is_active AND history_month IS NULL", userID).
		Find(&templates).Error; err != nil {
		m.RunsTotal.WithLabelValues("store_error").Inc()
		return nil, errs.Transient("load live templates", err)
	}

	monthKey := billing.MonthOf(today).String()
	existing, err := s.existingSnapshotSources(ctx, userID, monthKey)
	if err != nil {
		m.RunsTotal.WithLabelValues("store_error").Inc()
		return nil, err
	}

	p := planRollover(templates, existing, today)
	result := &Result{Skipped: p.skipped}
	failures := datatypes.JSONMap{}

	for _, tpl := range p.due {
		snap := newSnapshot(tpl, today)
		// conditional insert keyed by the deterministic id closes the
		// check-then-insert race under concurrent invocations
		res := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
			Create(snap)
		if res.Error != nil {
			log.Errorw("snapshot write failed", "template_id", tpl.ID, "err", res.Error)
			failures[tpl.ID] = res.Error.Error()
			result.Skipped = append(result.Skipped, tpl.ID)
			m.TemplatesFailed.Inc()
			continue
		}
		if res.RowsAffected == 0 {
			// lost a benign race with a concurrent run
			result.Skipped = append(result.Skipped, tpl.ID)
			m.SnapshotsSkipped.Inc()
			continue
		}
		result.Advanced = append(result.Advanced, tpl.ID)
		m.SnapshotsCreated.Inc()
	}
	m.SnapshotsSkipped.Add(float64(len(p.skipped)))

	s.recordRun(ctx, userID, today, result, failures)

	log.Infow("rollover completed", "advanced", len(result.Advanced), "skipped", len(result.Skipped))
	m.RunsTotal.WithLabelValues("ok").Inc()
	return result, nil
}

// ShouldRun reports whether a lazy client-side trigger still needs to run
// today. Only an optimization: RunRollover itself stays idempotent.
func (s *Service) ShouldRun(ctx context.Context, userID string, today time.Time) (bool, error) {
	var run models.RolloverRun
	err := s.db.WithContext(ctx).Where("owner_id = ?", userID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, errs.Transient("load rollover run", err)
	}
	return run.LastRunDate != today.Format(time.DateOnly), nil
}

func (s *Service) existingSnapshotSources(ctx context.Context, userID, monthKey string) (map[string]bool, error) {
	var sources []string
	if err := s.db.WithContext(ctx).Model(&models.SubscriptionRecord{}).
		Where("owner_id = ? AND history_month = ? AND created_from IS NOT NULL", userID, monthKey).
		Pluck("created_from", &sources).Error; err != nil {
		return nil, errs.Transient("load existing snapshots", err)
	}
	set := make(map[string]bool, len(sources))
	for _, id := range sources {
		set[id] = true
	}
	return set, nil
}

// recordRun upserts the per-user last-run marker and appends an audit log
// row. Both are best-effort; failures are logged, not returned, since the
// rollover outcome itself is already durable.
func (s *Service) recordRun(ctx context.Context, userID string, today time.Time, result *Result, failures datatypes.JSONMap) {
	log := logctx.FromCtx(ctx, s.log)
	runDate := today.Format(time.DateOnly)

	marker := &models.RolloverRun{OwnerID: userID, LastRunDate: runDate, LastRunAt: time.Now()}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_run_date", "last_run_at", "updated_at"}),
		}).
		Create(marker).Error; err != nil {
		log.Errorf("failed to upsert rollover run marker: %v", err)
	}

	entry := &models.RolloverLog{
		ID:       tool.GenerateUUIDV7(),
		OwnerID:  userID,
		RunDate:  runDate,
		Advanced: len(result.Advanced),
		Skipped:  len(result.Skipped),
		Extra:    failures,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Errorf("failed to save rollover log: %v", err)
	}
}
