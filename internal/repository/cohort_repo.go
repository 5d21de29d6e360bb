package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibecheck/backend/internal/models"
)

type CohortRepo struct {
	pool *pgxpool.Pool
}

func NewCohortRepo(pool *pgxpool.Pool) *CohortRepo {
	return &CohortRepo{pool: pool}
}

// Latest returns the most recently computed cohort medians. Before the first
// refresh completes there are no rows; callers treat that as "no baseline".
func (r *CohortRepo) Latest(ctx context.Context) (*models.CohortMedians, error) {
	var m models.CohortMedians
	err := r.pool.QueryRow(ctx, `
		SELECT median_daily_coins, median_daily_xp, computed_at
		FROM cohort_medians ORDER BY computed_at DESC LIMIT 1
	`).Scan(&m.MedianDailyCoins, &m.MedianDailyXP, &m.ComputedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Insert records a freshly computed baseline. Rows are append-only so the
// refresh job stays idempotent: rerunning it just adds a newer row.
func (r *CohortRepo) Insert(ctx context.Context, m *models.CohortMedians) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cohort_medians (median_daily_coins, median_daily_xp, computed_at)
		VALUES ($1, $2, $3)
	`, m.MedianDailyCoins, m.MedianDailyXP, m.ComputedAt)
	return err
}
