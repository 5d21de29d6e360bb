package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibecheck/backend/internal/models"
)

type MissionRepo struct {
	pool *pgxpool.Pool
}

func NewMissionRepo(pool *pgxpool.Pool) *MissionRepo {
	return &MissionRepo{pool: pool}
}

// GetForUpdate returns the actor's progress row for one mission in the given
// period, creating it at zero if this is the first touch of the period.
// Progress from an earlier period is never carried over; the period start is
// part of the key, which is how cadence reset works.
func (r *MissionRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, missionID string, periodStart time.Time) (*models.MissionProgress, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO mission_progress (user_id, mission_id, period_start)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, mission_id, period_start) DO NOTHING
	`, userID, missionID, periodStart)
	if err != nil {
		return nil, err
	}
	var p models.MissionProgress
	err = tx.QueryRow(ctx, `
		SELECT user_id, mission_id, period_start, count, completed_at, claimed_at, updated_at
		FROM mission_progress
		WHERE user_id = $1 AND mission_id = $2 AND period_start = $3
		FOR UPDATE
	`, userID, missionID, periodStart).Scan(&p.UserID, &p.MissionID, &p.PeriodStart,
		&p.Count, &p.CompletedAt, &p.ClaimedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MissionRepo) Update(ctx context.Context, tx pgx.Tx, p *models.MissionProgress) error {
	_, err := tx.Exec(ctx, `
		UPDATE mission_progress
		SET count = $4, completed_at = $5, claimed_at = $6, updated_at = now()
		WHERE user_id = $1 AND mission_id = $2 AND period_start = $3
	`, p.UserID, p.MissionID, p.PeriodStart, p.Count, p.CompletedAt, p.ClaimedAt)
	return err
}

// ClaimChallengeTx records a one-shot challenge completion. Returns false
// when the actor already claimed this challenge; the insert is the
// idempotency guard.
func (r *MissionRepo) ClaimChallengeTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, challengeID string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO challenge_claims (user_id, challenge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, challenge_id) DO NOTHING
	`, userID, challengeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListForPeriods returns the actor's progress rows for the given period
// starts (one per cadence), for the progress read API.
func (r *MissionRepo) ListForPeriods(ctx context.Context, userID uuid.UUID, periodStarts []time.Time) ([]*models.MissionProgress, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, mission_id, period_start, count, completed_at, claimed_at, updated_at
		FROM mission_progress
		WHERE user_id = $1 AND period_start = ANY($2)
	`, userID, periodStarts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.MissionProgress
	for rows.Next() {
		var p models.MissionProgress
		if err := rows.Scan(&p.UserID, &p.MissionID, &p.PeriodStart, &p.Count,
			&p.CompletedAt, &p.ClaimedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
