package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// RolloverMetrics counts ledger rollover outcomes.
type RolloverMetrics struct {
	SnapshotsCreated prometheus.Counter
	SnapshotsSkipped prometheus.Counter
	TemplatesFailed  prometheus.Counter
	RunsTotal        *prometheus.CounterVec
}

var (
	rolloverOnce sync.Once
	rollover     *RolloverMetrics
)

// Rollover returns the process-wide rollover collectors, registering them on
// first use.
func Rollover() *RolloverMetrics {
	rolloverOnce.Do(func() {
		rollover = &RolloverMetrics{
			SnapshotsCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Subsystem: "rollover",
				Name:      "snapshots_created_total",
				Help:      "Monthly charge snapshots materialized.",
			}),
			SnapshotsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
				Subsystem: "rollover",
				Name:      "snapshots_skipped_total",
				Help:      "Templates skipped because their snapshot already existed.",
			}),
			TemplatesFailed: prometheus.NewCounter(prometheus.CounterOpts{
				Subsystem: "rollover",
				Name:      "templates_failed_total",
				Help:      "Templates whose snapshot write failed and will be retried.",
			}),
			RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Subsystem: "rollover",
				Name:      "runs_total",
				Help:      "Rollover invocations by outcome.",
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(
			rollover.SnapshotsCreated,
			rollover.SnapshotsSkipped,
			rollover.TemplatesFailed,
			rollover.RunsTotal,
		)
	})
	return rollover
}
