// Package background holds the periodic jobs that keep derived state fresh:
// the cohort-median refresh the fraud detector reads, and the sweep that
// closes out expired cap windows for idle users.
package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	"github.com/vibecheck/backend/internal/cohort"
	"github.com/vibecheck/backend/internal/models"
)

type CohortRefreshArgs struct{}

func (CohortRefreshArgs) Kind() string { return "cohort_refresh" }

type CapSweepArgs struct{}

func (CapSweepArgs) Kind() string { return "cap_sweep" }

// CapStatsSource supplies per-user earnings for every live cap window.
type CapStatsSource interface {
	ActiveWindowStats(ctx context.Context, now time.Time) (coins []int, xp []int, err error)
}

// MedianSink persists a freshly computed baseline.
type MedianSink interface {
	Insert(ctx context.Context, m *models.CohortMedians) error
}

// CohortRefreshWorker recomputes the median daily earnings across all live
// cap windows. The result is append-only; readers pick up the latest row.
type CohortRefreshWorker struct {
	river.WorkerDefaults[CohortRefreshArgs]
	stats  CapStatsSource
	sink   MedianSink
	logger *slog.Logger
}

func NewCohortRefreshWorker(stats CapStatsSource, sink MedianSink, logger *slog.Logger) *CohortRefreshWorker {
	return &CohortRefreshWorker{stats: stats, sink: sink, logger: logger}
}

func (w *CohortRefreshWorker) Work(ctx context.Context, _ *river.Job[CohortRefreshArgs]) error {
	now := time.Now().UTC()
	coins, xp, err := w.stats.ActiveWindowStats(ctx, now)
	if err != nil {
		return err
	}
	if len(coins) == 0 {
		w.logger.Info("cohort refresh skipped, no active windows")
		return nil
	}
	m := &models.CohortMedians{
		MedianDailyCoins: cohort.Median(coins),
		MedianDailyXP:    cohort.Median(xp),
		ComputedAt:       now,
	}
	if err := w.sink.Insert(ctx, m); err != nil {
		return err
	}
	w.logger.Info("cohort medians refreshed",
		"cohort_size", len(coins),
		"median_coins", m.MedianDailyCoins,
		"median_xp", m.MedianDailyXP)
	return nil
}

// CapSweeper closes cap windows past their 24 hours.
type CapSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// CapSweepWorker resets expired windows in bulk. The apply path also resets
// lazily, so this only matters for users who went quiet mid-window: it keeps
// the active-window stats the cohort refresh reads from going stale.
type CapSweepWorker struct {
	river.WorkerDefaults[CapSweepArgs]
	sweeper CapSweeper
	logger  *slog.Logger
}

func NewCapSweepWorker(sweeper CapSweeper, logger *slog.Logger) *CapSweepWorker {
	return &CapSweepWorker{sweeper: sweeper, logger: logger}
}

func (w *CapSweepWorker) Work(ctx context.Context, _ *river.Job[CapSweepArgs]) error {
	n, err := w.sweeper.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		w.logger.Info("cap windows swept", "count", n)
	}
	return nil
}

// PeriodicJobs returns the recurring schedule for both workers.
func PeriodicJobs() []*river.PeriodicJob {
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(time.Hour),
			func() (river.JobArgs, *river.InsertOpts) { return CohortRefreshArgs{}, nil },
			&river.PeriodicJobOpts{RunOnStart: true},
		),
		river.NewPeriodicJob(
			river.PeriodicInterval(15*time.Minute),
			func() (river.JobArgs, *river.InsertOpts) { return CapSweepArgs{}, nil },
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}
