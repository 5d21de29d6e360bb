package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibecheck/backend/internal/models"
)

type CapRepo struct {
	pool *pgxpool.Pool
}

func NewCapRepo(pool *pgxpool.Pool) *CapRepo {
	return &CapRepo{pool: pool}
}

// GetForUpdate creates the cap state lazily, then locks it. Always called
// after the ledger row is locked (consistent lock order, one actor at a time).
func (r *CapRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.DailyCapState, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO daily_caps (user_id, window_start, action_counts, xp_by_action)
		VALUES ($1, now(), '{}', '{}')
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, err
	}

	var (
		s           models.DailyCapState
		countsRaw   []byte
		xpByKindRaw []byte
	)
	err = tx.QueryRow(ctx, `
		SELECT user_id, window_start, coins, xp, action_counts, xp_by_action, updated_at
		FROM daily_caps WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&s.UserID, &s.WindowStart, &s.Coins, &s.XP, &countsRaw, &xpByKindRaw, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(countsRaw, &s.ActionCounts); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(xpByKindRaw, &s.XPByAction); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CapRepo) Update(ctx context.Context, tx pgx.Tx, s *models.DailyCapState) error {
	countsRaw, err := json.Marshal(s.ActionCounts)
	if err != nil {
		return err
	}
	xpByKindRaw, err := json.Marshal(s.XPByAction)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE daily_caps
		SET window_start = $2, coins = $3, xp = $4, action_counts = $5, xp_by_action = $6, updated_at = now()
		WHERE user_id = $1
	`, s.UserID, s.WindowStart, s.Coins, s.XP, countsRaw, xpByKindRaw)
	return err
}

// SweepExpired resets every window older than 24h in one statement. Safe to
// run repeatedly; the apply path also resets lazily, so a skipped cycle only
// delays cleanup.
func (r *CapRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE daily_caps
		SET window_start = $1, coins = 0, xp = 0, action_counts = '{}', xp_by_action = '{}', updated_at = now()
		WHERE window_start <= $1 - interval '24 hours'
	`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ActiveWindowStats returns the coin/XP totals of every live window, the raw
// input for cohort-median recomputation.
func (r *CapRepo) ActiveWindowStats(ctx context.Context, now time.Time) (coins []int, xp []int, err error) {
	rows, err := r.pool.Query(ctx, `
		SELECT coins, xp FROM daily_caps
		WHERE window_start > $1 - interval '24 hours' AND (coins > 0 OR xp > 0)
	`, now)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c, x int
		if err := rows.Scan(&c, &x); err != nil {
			return nil, nil, err
		}
		coins = append(coins, c)
		xp = append(xp, x)
	}
	return coins, xp, rows.Err()
}
