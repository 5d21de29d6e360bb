package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

func TestPeriodStartFor(t *testing.T) {
	// Thursday afternoon.
	at := time.Date(2026, 3, 5, 15, 30, 0, 0, time.UTC)

	daily := models.PeriodStartFor(models.CadenceDaily, at)
	if !daily.Equal(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("daily period = %v", daily)
	}

	weekly := models.PeriodStartFor(models.CadenceWeekly, at)
	if !weekly.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("weekly period = %v, want Monday", weekly)
	}

	// Sunday still belongs to the week that started the previous Monday.
	sunday := time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC)
	if w := models.PeriodStartFor(models.CadenceWeekly, sunday); !w.Equal(weekly) {
		t.Errorf("sunday period = %v, want %v", w, weekly)
	}
}

func TestTrackerAdvanceCompletes(t *testing.T) {
	store := newMockMissionStore()
	tr := NewMissionTracker(catalog.Default(), store)
	actor := uuid.New()
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	// daily_react_5 needs five reactions.
	for i := 0; i < 4; i++ {
		done, err := tr.AdvanceTx(context.Background(), noopTx{}, actor, models.ActionReact, now)
		if err != nil {
			t.Fatal(err)
		}
		if len(done) != 0 {
			t.Fatalf("completed after %d reactions: %v", i+1, done)
		}
	}
	done, err := tr.AdvanceTx(context.Background(), noopTx{}, actor, models.ActionReact, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 1 || done[0].ID != "daily_react_5" {
		t.Fatalf("fifth reaction completed %v, want daily_react_5", done)
	}

	// Further reactions leave the completed mission untouched.
	again, err := tr.AdvanceTx(context.Background(), noopTx{}, actor, models.ActionReact, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Errorf("completed mission re-completed: %v", again)
	}
}

func TestTrackerCadenceRollover(t *testing.T) {
	store := newMockMissionStore()
	tr := NewMissionTracker(catalog.Default(), store)
	actor := uuid.New()
	day1 := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	if _, err := tr.AdvanceTx(context.Background(), noopTx{}, actor, models.ActionPostVibe, day1); err != nil {
		t.Fatal(err)
	}
	// daily_post completes same day.
	if _, err := tr.ClaimTx(context.Background(), noopTx{}, actor, "daily_post", day1); err != nil {
		t.Fatal(err)
	}

	// Next day the counter starts over under a fresh period key.
	day2 := day1.AddDate(0, 0, 1)
	if _, err := tr.ClaimTx(context.Background(), noopTx{}, actor, "daily_post", day2); !errors.Is(err, ErrMissionIncomplete) {
		t.Errorf("next-day claim err = %v, want ErrMissionIncomplete", err)
	}
}

func TestTrackerClaimErrors(t *testing.T) {
	store := newMockMissionStore()
	tr := NewMissionTracker(catalog.Default(), store)
	actor := uuid.New()
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	if _, err := tr.ClaimTx(context.Background(), noopTx{}, actor, "nonsense", now); !errors.Is(err, ErrMissionUnknown) {
		t.Errorf("unknown mission err = %v", err)
	}
	if _, err := tr.ClaimTx(context.Background(), noopTx{}, actor, "daily_post", now); !errors.Is(err, ErrMissionIncomplete) {
		t.Errorf("incomplete claim err = %v", err)
	}

	if _, err := tr.AdvanceTx(context.Background(), noopTx{}, actor, models.ActionPostVibe, now); err != nil {
		t.Fatal(err)
	}
	tmpl, err := tr.ClaimTx(context.Background(), noopTx{}, actor, "daily_post", now)
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.RewardXP == 0 {
		t.Error("claim returned a template without a reward")
	}
	if _, err := tr.ClaimTx(context.Background(), noopTx{}, actor, "daily_post", now); !errors.Is(err, ErrMissionClaimed) {
		t.Errorf("double claim err = %v, want ErrMissionClaimed", err)
	}
}
