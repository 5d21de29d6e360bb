package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vibecheck/backend/internal/catalog"
)

// Velocity windows, fixed by the limit table's two columns.
const (
	velocityShortWindow = 5 * time.Minute
	velocityLongWindow  = time.Hour
)

// AttemptStore records action attempts and counts them over sliding windows.
// Keys are per actor per action kind; entries older than the long window are
// dropped on write.
type AttemptStore interface {
	Record(ctx context.Context, key string, now time.Time, retention time.Duration) error
	CountSince(ctx context.Context, key string, cutoff time.Time) (int64, error)
}

// VelocityVerdict is the limiter's answer for one attempt.
type VelocityVerdict struct {
	Allowed bool
	Reason  string
}

// VelocityLimiter enforces the per-action attempt ceilings before any ledger
// work happens. Attempts are counted whether or not the action later earns;
// a denial therefore never consumes cap budget, only the attempt slot.
//
// The limiter fails open: if the attempt store is unreachable the action
// proceeds and the fraud detector remains the backstop.
type VelocityLimiter struct {
	cat    *catalog.Catalog
	store  AttemptStore
	logger *slog.Logger
	now    func() time.Time
}

func NewVelocityLimiter(cat *catalog.Catalog, store AttemptStore, logger *slog.Logger) *VelocityLimiter {
	return &VelocityLimiter{cat: cat, store: store, logger: logger, now: time.Now}
}

// Allow records the attempt and checks it against both windows.
func (l *VelocityLimiter) Allow(ctx context.Context, userID uuid.UUID, kind string) VelocityVerdict {
	limit, ok := l.cat.Velocity[kind]
	if !ok {
		return VelocityVerdict{Allowed: true}
	}

	now := l.now()
	key := fmt.Sprintf("velocity:%s:%s", userID, kind)
	if err := l.store.Record(ctx, key, now, velocityLongWindow); err != nil {
		l.logger.Warn("velocity store unavailable, allowing action",
			"user_id", userID, "kind", kind, "error", err)
		return VelocityVerdict{Allowed: true}
	}

	hourly, err := l.store.CountSince(ctx, key, now.Add(-velocityLongWindow))
	if err != nil {
		l.logger.Warn("velocity count failed, allowing action",
			"user_id", userID, "kind", kind, "error", err)
		return VelocityVerdict{Allowed: true}
	}
	if hourly > int64(limit.PerHour) {
		return VelocityVerdict{
			Reason: fmt.Sprintf("%s limited to %d per hour", kind, limit.PerHour),
		}
	}

	recent, err := l.store.CountSince(ctx, key, now.Add(-velocityShortWindow))
	if err != nil {
		l.logger.Warn("velocity count failed, allowing action",
			"user_id", userID, "kind", kind, "error", err)
		return VelocityVerdict{Allowed: true}
	}
	if recent > int64(limit.Per5Min) {
		return VelocityVerdict{
			Reason: fmt.Sprintf("%s limited to %d per 5 minutes", kind, limit.Per5Min),
		}
	}

	return VelocityVerdict{Allowed: true}
}
