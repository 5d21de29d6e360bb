package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibecheck/backend/internal/models"
)

type BadgeRepo struct {
	pool *pgxpool.Pool
}

func NewBadgeRepo(pool *pgxpool.Pool) *BadgeRepo {
	return &BadgeRepo{pool: pool}
}

// AwardTx inserts the earned badge if absent. The primary key on
// (user_id, badge_id) is the write-path half of idempotent awarding: a
// duplicate award is a silent no-op and reports inserted=false, so the
// caller knows not to pay the reward twice.
func (r *BadgeRepo) AwardTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, badgeID string, earnedAt time.Time) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO user_badges (user_id, badge_id, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`, userID, badgeID, earnedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// EarnedIDsTx returns the actor's earned badge ids as a set, read inside the
// apply transaction so the eligibility scan never races a concurrent award.
func (r *BadgeRepo) EarnedIDsTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (map[string]bool, error) {
	rows, err := tx.Query(ctx, `
		SELECT badge_id FROM user_badges WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	earned := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		earned[id] = true
	}
	return earned, rows.Err()
}

func (r *BadgeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Badge, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, badge_id, earned_at FROM user_badges
		WHERE user_id = $1 ORDER BY earned_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.UserID, &b.BadgeID, &b.EarnedAt); err != nil {
			return nil, err
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
