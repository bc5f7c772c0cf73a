package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackhq/subtrack/internal/platform/clock"
	cfgpkg "github.com/subtrackhq/subtrack/pkg/config"
)

func newTestWorker(t *testing.T, now time.Time, runHour int) (*Worker, *clock.FakeClock) {
	t.Helper()
	clk := clock.NewFake(now)
	cfg := &cfgpkg.Config{
		Rollover: cfgpkg.RolloverConfig{Timezone: "Asia/Tokyo", RunHour: runHour, Concurrency: 4},
	}
	return &Worker{cfg: cfg, clock: clk}, clk
}

func TestNextRunAt(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	t.Run("before run hour fires same day", func(t *testing.T) {
		w, _ := newTestWorker(t, time.Date(2024, 5, 10, 3, 0, 0, 0, loc), 6)
		next := w.nextRunAt(loc)
		assert.Equal(t, time.Date(2024, 5, 10, 6, 0, 0, 0, loc), next)
	})

	t.Run("at run hour fires next day", func(t *testing.T) {
		w, _ := newTestWorker(t, time.Date(2024, 5, 10, 6, 0, 0, 0, loc), 6)
		next := w.nextRunAt(loc)
		assert.Equal(t, time.Date(2024, 5, 11, 6, 0, 0, 0, loc), next)
	})

	t.Run("midnight cadence crosses the day boundary", func(t *testing.T) {
		w, _ := newTestWorker(t, time.Date(2024, 5, 10, 0, 0, 1, 0, loc), 0)
		next := w.nextRunAt(loc)
		assert.Equal(t, time.Date(2024, 5, 11, 0, 0, 0, 0, loc), next)
	})

	t.Run("advancing the clock moves the schedule", func(t *testing.T) {
		w, clk := newTestWorker(t, time.Date(2024, 5, 10, 3, 0, 0, 0, loc), 6)
		clk.Advance(48 * time.Hour)
		next := w.nextRunAt(loc)
		assert.Equal(t, time.Date(2024, 5, 12, 6, 0, 0, 0, loc), next)
	})
}
