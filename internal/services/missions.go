package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

var (
	// ErrMissionUnknown means the mission id is not in the catalog.
	ErrMissionUnknown = errors.New("unknown mission")
	// ErrMissionIncomplete means the claim arrived before the counter
	// reached the target for the current period.
	ErrMissionIncomplete = errors.New("mission not yet complete")
	// ErrMissionClaimed means the completion reward was already paid for
	// this period.
	ErrMissionClaimed = errors.New("mission reward already claimed")
)

// MissionStore is the progress persistence the tracker needs, always inside
// the caller's transaction.
type MissionStore interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, missionID string, periodStart time.Time) (*models.MissionProgress, error)
	Update(ctx context.Context, tx pgx.Tx, p *models.MissionProgress) error
}

// MissionTracker advances mission counters as qualifying actions apply and
// validates claims. Counters live per (user, mission, period); cadence reset
// is the period key rolling over, not a mutation.
type MissionTracker struct {
	cat   *catalog.Catalog
	store MissionStore
}

func NewMissionTracker(cat *catalog.Catalog, store MissionStore) *MissionTracker {
	return &MissionTracker{cat: cat, store: store}
}

// AdvanceTx bumps every mission counting the given action kind and returns
// the templates that just crossed their target. Already-completed missions
// are left untouched so the counter stops at a claimable state.
func (t *MissionTracker) AdvanceTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, kind string, now time.Time) ([]models.MissionTemplate, error) {
	var completed []models.MissionTemplate
	for _, tmpl := range t.cat.Missions {
		if tmpl.CountKind != kind {
			continue
		}
		period := models.PeriodStartFor(tmpl.Cadence, now)
		progress, err := t.store.GetForUpdate(ctx, tx, userID, tmpl.ID, period)
		if err != nil {
			return nil, err
		}
		if progress.Completed() {
			continue
		}
		progress.Count++
		if progress.Count >= tmpl.Target {
			done := now
			progress.CompletedAt = &done
			completed = append(completed, tmpl)
		}
		if err := t.store.Update(ctx, tx, progress); err != nil {
			return nil, err
		}
	}
	return completed, nil
}

// ClaimTx validates a mission_complete claim and marks the period claimed.
// The returned template carries the reward the orchestrator pays out.
func (t *MissionTracker) ClaimTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, missionID string, now time.Time) (*models.MissionTemplate, error) {
	tmpl := t.cat.Mission(missionID)
	if tmpl == nil {
		return nil, ErrMissionUnknown
	}
	period := models.PeriodStartFor(tmpl.Cadence, now)
	progress, err := t.store.GetForUpdate(ctx, tx, userID, tmpl.ID, period)
	if err != nil {
		return nil, err
	}
	if !progress.Completed() {
		return nil, ErrMissionIncomplete
	}
	if progress.Claimed() {
		return nil, ErrMissionClaimed
	}
	claimed := now
	progress.ClaimedAt = &claimed
	if err := t.store.Update(ctx, tx, progress); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// CurrentPeriods returns the period starts in play right now, one per
// cadence, for the progress read API.
func (t *MissionTracker) CurrentPeriods(now time.Time) []time.Time {
	return []time.Time{
		models.PeriodStartFor(models.CadenceDaily, now),
		models.PeriodStartFor(models.CadenceWeekly, now),
	}
}
