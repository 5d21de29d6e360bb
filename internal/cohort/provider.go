// Package cohort supplies the anomaly baseline: median daily earnings of
// active users, refreshed out of band and served from a short-lived cache so
// the hot path never blocks on the medians table.
package cohort

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vibecheck/backend/internal/models"
)

// Source is where fresh medians come from, normally the medians table.
type Source interface {
	Latest(ctx context.Context) (*models.CohortMedians, error)
}

// Provider caches the latest medians for ttl. A fetch failure serves the
// stale value (or nil when none was ever loaded); staleness is acceptable
// here, the detector treats a missing baseline as "no anomaly signal".
type Provider struct {
	src    Source
	ttl    time.Duration
	logger *slog.Logger

	mu        sync.Mutex
	cached    *models.CohortMedians
	fetchedAt time.Time
}

func NewProvider(src Source, ttl time.Duration, logger *slog.Logger) *Provider {
	return &Provider{src: src, ttl: ttl, logger: logger}
}

// Medians returns the current baseline, refreshing the cache when expired.
func (p *Provider) Medians(ctx context.Context) *models.CohortMedians {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && time.Since(p.fetchedAt) < p.ttl {
		return p.cached
	}
	m, err := p.src.Latest(ctx)
	if err != nil {
		p.logger.Warn("cohort medians fetch failed, serving cached value", "error", err)
		return p.cached
	}
	p.cached = m
	p.fetchedAt = time.Now()
	return p.cached
}

// Median returns the middle value of vs, rounding down the even case to the
// lower middle. Zero when vs is empty.
func Median(vs []int) int {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]int(nil), vs...)
	sort.Ints(sorted)
	return sorted[(len(sorted)-1)/2]
}
