package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibecheck/backend/internal/models"
)

type FraudRepo struct {
	pool *pgxpool.Pool
}

func NewFraudRepo(pool *pgxpool.Pool) *FraudRepo {
	return &FraudRepo{pool: pool}
}

// InsertTx appends a fraud check record inside the given transaction.
func (r *FraudRepo) InsertTx(ctx context.Context, tx pgx.Tx, c *models.FraudCheck) error {
	return tx.QueryRow(ctx, `
		INSERT INTO fraud_checks (id, user_id, check_type, severity, flag_reason, auto_resolved, manual_review)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, c.ID, c.UserID, c.CheckType, c.Severity, c.FlagReason, c.AutoResolved, c.ManualReview).Scan(&c.CreatedAt)
}

// CountByUserTx counts an actor's accumulated flags, read inside the apply
// transaction so the sanction decision sees the flag being recorded.
func (r *FraudRepo) CountByUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM fraud_checks WHERE user_id = $1
	`, userID).Scan(&n)
	return n, err
}

// HasPriorSevereTx reports whether the actor already had a high or critical
// flag before the current one, the repeat-offender signal.
func (r *FraudRepo) HasPriorSevereTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM fraud_checks
			WHERE user_id = $1 AND id <> $2 AND severity IN ('high', 'critical')
		)
	`, userID, excludeID).Scan(&exists)
	return exists, err
}

func (r *FraudRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FraudCheck, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, check_type, severity, flag_reason, auto_resolved, manual_review, created_at
		FROM fraud_checks WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.FraudCheck
	for rows.Next() {
		var c models.FraudCheck
		if err := rows.Scan(&c.ID, &c.UserID, &c.CheckType, &c.Severity, &c.FlagReason,
			&c.AutoResolved, &c.ManualReview, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
