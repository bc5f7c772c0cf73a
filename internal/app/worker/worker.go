package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/subtrackhq/subtrack/internal/app/service/rollover"
	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/internal/platform/clock"
	cfgpkg "github.com/subtrackhq/subtrack/pkg/config"
	"github.com/subtrackhq/subtrack/pkg/errs"
)

// Worker drives the scheduled daily rollover for every user with live
// templates. The cadence is evaluated in the configured fixed timezone, so
// one calendar day means the same thing on every host.
type Worker struct {
	db    *gorm.DB
	svc   *rollover.Service
	cfg   *cfgpkg.Config
	clock clock.Clock
	log   *zap.SugaredLogger
}

func New(db *gorm.DB, svc *rollover.Service, cfg *cfgpkg.Config, clk clock.Clock, log *zap.SugaredLogger) *Worker {
	return &Worker{db: db, svc: svc, cfg: cfg, clock: clk, log: log}
}

// RunForever runs the daily cycle until ctx is cancelled. Each cycle sleeps
// to the next configured run hour, then rolls over all users. Missed cycles
// are harmless: the rollover itself catches up on the next invocation.
func (w *Worker) RunForever(ctx context.Context) error {
	loc, err := w.cfg.Location()
	if err != nil {
		return err
	}
	for {
		wait := time.Until(w.nextRunAt(loc))
		w.log.Infow("rollover worker sleeping", "wake_in", wait.String())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		if err := w.RunOnce(ctx); err != nil {
			w.log.Errorf("scheduled rollover cycle failed: %v", err)
		}
	}
}

// RunOnce rolls over every user that currently has live templates, with
// bounded parallelism. A failing user does not abort the cycle.
func (w *Worker) RunOnce(ctx context.Context) error {
	today := w.clock.Now()

	owners, err := w.ownersWithTemplates(ctx)
	if err != nil {
		return err
	}
	w.log.Infow("rollover cycle starting", "users", len(owners), "run_date", today.Format(time.DateOnly))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Rollover.Concurrency)
	for _, ownerID := range owners {
		g.Go(func() error {
			if _, err := w.svc.RunRollover(gctx, ownerID, today); err != nil {
				w.log.Errorw("user rollover failed", "owner_id", ownerID, "err", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (w *Worker) ownersWithTemplates(ctx context.Context) ([]string, error) {
	var owners []string
	if err := w.db.WithContext(ctx).Model(&models.SubscriptionRecord{}).
		Where("is_active AND history_month IS NULL").
		Distinct().
		Pluck("owner_id", &owners).Error; err != nil {
		return nil, errs.Transient("enumerate rollover users", err)
	}
	return owners, nil
}

// nextRunAt returns the next occurrence of the configured run hour in loc,
// strictly after now.
func (w *Worker) nextRunAt(loc *time.Location) time.Time {
	now := w.clock.Now().In(loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), w.cfg.Rollover.RunHour, 0, 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
