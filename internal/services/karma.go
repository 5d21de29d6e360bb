package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vibecheck/backend/internal/catalog"
)

// KarmaThrottle is the shared-state side of karma throttling: positive-signal
// cooldown locks and the rolling count of negative applications.
type KarmaThrottle interface {
	// AcquireCooldown reports whether the cooldown key was free; when it
	// was, the key is now held for ttl.
	AcquireCooldown(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// IncrWindow increments a rolling counter and returns the new count.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// KarmaOutcome is the applied reputation change. Throttled means the delta
// table had an entry but a cooldown or the negative hourly cap zeroed it.
type KarmaOutcome struct {
	Delta     int
	NewTotal  int
	Throttled bool
}

// KarmaService resolves reputation deltas for actions and moderation signals.
// Karma floors at zero; it is a trust score, not a currency, so nothing here
// touches the ledger balances.
type KarmaService struct {
	cat      *catalog.Catalog
	throttle KarmaThrottle
	logger   *slog.Logger
}

func NewKarmaService(cat *catalog.Catalog, throttle KarmaThrottle, logger *slog.Logger) *KarmaService {
	return &KarmaService{cat: cat, throttle: throttle, logger: logger}
}

// Apply computes the karma change for signal on top of current. Throttle
// store failures fail open: the delta is applied and the miss is logged,
// matching the availability stance of the velocity limiter.
func (s *KarmaService) Apply(ctx context.Context, userID uuid.UUID, signal string, current int) KarmaOutcome {
	entry, ok := s.cat.KarmaDelta(signal)
	if !ok || entry.Delta == 0 {
		return KarmaOutcome{NewTotal: current}
	}

	if entry.Delta > 0 && entry.Cooldown > 0 {
		key := fmt.Sprintf("karma:cooldown:%s:%s", userID, signal)
		acquired, err := s.throttle.AcquireCooldown(ctx, key, entry.Cooldown)
		if err != nil {
			s.logger.Warn("karma cooldown check failed, applying delta",
				"user_id", userID, "signal", signal, "error", err)
		} else if !acquired {
			return KarmaOutcome{NewTotal: current, Throttled: true}
		}
	}

	if entry.Delta < 0 {
		key := fmt.Sprintf("karma:negative:%s", userID)
		n, err := s.throttle.IncrWindow(ctx, key, time.Hour)
		if err != nil {
			s.logger.Warn("karma negative-cap check failed, applying delta",
				"user_id", userID, "signal", signal, "error", err)
		} else if n > catalog.NegativeHourlyCap {
			return KarmaOutcome{NewTotal: current, Throttled: true}
		}
	}

	total := current + entry.Delta
	if total < 0 {
		total = 0
	}
	return KarmaOutcome{Delta: entry.Delta, NewTotal: total}
}
