package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

func karmaSvc(throttle KarmaThrottle) *KarmaService {
	return NewKarmaService(catalog.Default(), throttle, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestKarmaPositiveDelta(t *testing.T) {
	s := karmaSvc(newMemThrottle())
	out := s.Apply(context.Background(), uuid.New(), models.ActionPostVibe, 100)
	if out.Delta != 5 || out.NewTotal != 105 || out.Throttled {
		t.Errorf("got %+v, want +5 to 105", out)
	}
}

func TestKarmaFloorsAtZero(t *testing.T) {
	s := karmaSvc(newMemThrottle())
	out := s.Apply(context.Background(), uuid.New(), catalog.KarmaSignalFraudRollback, 10)
	if out.NewTotal != 0 {
		t.Errorf("total = %d, want floor at 0", out.NewTotal)
	}
}

func TestKarmaCooldownThrottles(t *testing.T) {
	s := karmaSvc(newMemThrottle())
	actor := uuid.New()

	first := s.Apply(context.Background(), actor, models.ActionDailyLogin, 0)
	if first.Delta != 2 {
		t.Fatalf("first login delta = %d, want 2", first.Delta)
	}
	second := s.Apply(context.Background(), actor, models.ActionDailyLogin, first.NewTotal)
	if !second.Throttled || second.Delta != 0 {
		t.Errorf("second login inside cooldown = %+v, want throttled", second)
	}
	if second.NewTotal != first.NewTotal {
		t.Errorf("throttled apply changed total: %d", second.NewTotal)
	}
}

func TestKarmaNegativeHourlyCap(t *testing.T) {
	s := karmaSvc(newMemThrottle())
	actor := uuid.New()
	total := 500

	// Three negative signals land, the fourth inside the hour is dropped.
	for i := 0; i < catalog.NegativeHourlyCap; i++ {
		out := s.Apply(context.Background(), actor, catalog.KarmaSignalReportUpheld, total)
		if out.Throttled {
			t.Fatalf("signal %d throttled early", i+1)
		}
		total = out.NewTotal
	}
	out := s.Apply(context.Background(), actor, catalog.KarmaSignalReportUpheld, total)
	if !out.Throttled || out.NewTotal != total {
		t.Errorf("over-cap signal = %+v, want throttled no-op", out)
	}
}

func TestKarmaUnknownSignalIsNoop(t *testing.T) {
	s := karmaSvc(newMemThrottle())
	out := s.Apply(context.Background(), uuid.New(), "sneeze", 42)
	if out.Delta != 0 || out.NewTotal != 42 {
		t.Errorf("unknown signal = %+v, want no-op", out)
	}
}
