package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

// memAttempts is an in-memory AttemptStore.
type memAttempts struct {
	mu      sync.Mutex
	stamps  map[string][]time.Time
	failing bool
}

func newMemAttempts() *memAttempts { return &memAttempts{stamps: map[string][]time.Time{}} }

func (m *memAttempts) Record(_ context.Context, key string, now time.Time, _ time.Duration) error {
	if m.failing {
		return errors.New("store down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamps[key] = append(m.stamps[key], now)
	return nil
}

func (m *memAttempts) CountSince(_ context.Context, key string, cutoff time.Time) (int64, error) {
	if m.failing {
		return 0, errors.New("store down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, ts := range m.stamps[key] {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func limiter(store AttemptStore) *VelocityLimiter {
	return NewVelocityLimiter(catalog.Default(), store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLimiterAllowsUnderLimit(t *testing.T) {
	l := limiter(newMemAttempts())
	actor := uuid.New()
	// post_vibe allows 5 attempts per 5 minutes.
	for i := 0; i < 5; i++ {
		if v := l.Allow(context.Background(), actor, models.ActionPostVibe); !v.Allowed {
			t.Fatalf("attempt %d denied: %s", i+1, v.Reason)
		}
	}
}

func TestLimiterDeniesBurst(t *testing.T) {
	l := limiter(newMemAttempts())
	actor := uuid.New()
	for i := 0; i < 5; i++ {
		l.Allow(context.Background(), actor, models.ActionPostVibe)
	}
	if v := l.Allow(context.Background(), actor, models.ActionPostVibe); v.Allowed {
		t.Error("sixth attempt in 5 minutes should be denied")
	}
}

func TestLimiterHourlyCeiling(t *testing.T) {
	store := newMemAttempts()
	l := limiter(store)
	actor := uuid.New()
	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	clock := start
	l.now = func() time.Time { return clock }

	// Spread 30 posts over the hour, under every 5-minute window.
	for i := 0; i < 30; i++ {
		if v := l.Allow(context.Background(), actor, models.ActionPostVibe); !v.Allowed {
			t.Fatalf("attempt %d denied: %s", i+1, v.Reason)
		}
		clock = clock.Add(90 * time.Second)
	}
	if v := l.Allow(context.Background(), actor, models.ActionPostVibe); v.Allowed {
		t.Error("31st post inside the hour should be denied")
	}

	// Past the hour the early attempts fall out of the window.
	clock = start.Add(2 * time.Hour)
	if v := l.Allow(context.Background(), actor, models.ActionPostVibe); !v.Allowed {
		t.Errorf("attempt after window rollover denied: %s", v.Reason)
	}
}

func TestLimiterKindsAreIndependent(t *testing.T) {
	l := limiter(newMemAttempts())
	actor := uuid.New()
	for i := 0; i < 6; i++ {
		l.Allow(context.Background(), actor, models.ActionPostVibe)
	}
	if v := l.Allow(context.Background(), actor, models.ActionReact); !v.Allowed {
		t.Errorf("react denied by post budget: %s", v.Reason)
	}
}

func TestLimiterFailsOpen(t *testing.T) {
	store := newMemAttempts()
	store.failing = true
	l := limiter(store)
	if v := l.Allow(context.Background(), uuid.New(), models.ActionPostVibe); !v.Allowed {
		t.Errorf("store outage should fail open, got denial: %s", v.Reason)
	}
}
