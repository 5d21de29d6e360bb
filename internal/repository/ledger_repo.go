package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibecheck/backend/internal/models"
)

const ledgerColumns = `user_id, xp, coins, gems, karma, level, tier, posting_streak, longest_streak,
	standing, suspended_until, sanction_count, last_active_date, created_at, updated_at`

type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

func scanLedger(row pgx.Row) (*models.UserLedger, error) {
	var l models.UserLedger
	err := row.Scan(&l.UserID, &l.XP, &l.Coins, &l.Gems, &l.Karma, &l.Level, &l.Tier,
		&l.PostingStreak, &l.LongestStreak, &l.Standing, &l.SuspendedUntil,
		&l.SanctionCount, &l.LastActiveDate, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LedgerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserLedger, error) {
	return scanLedger(r.pool.QueryRow(ctx, `
		SELECT `+ledgerColumns+` FROM user_ledgers WHERE user_id = $1
	`, userID))
}

// GetForUpdate creates the ledger lazily on first action, then locks the row.
// The row lock is what serializes all mutations for one actor. Call within a
// transaction.
func (r *LedgerRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.UserLedger, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_ledgers (user_id, level, tier, standing)
		VALUES ($1, 1, 'bronze', 'active')
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, err
	}
	return scanLedger(tx.QueryRow(ctx, `
		SELECT `+ledgerColumns+` FROM user_ledgers WHERE user_id = $1 FOR UPDATE
	`, userID))
}

// Update writes every mutable field. Derived fields (level, tier) must have
// been recomputed from the new totals before this call.
func (r *LedgerRepo) Update(ctx context.Context, tx pgx.Tx, l *models.UserLedger) error {
	_, err := tx.Exec(ctx, `
		UPDATE user_ledgers
		SET xp = $2, coins = $3, gems = $4, karma = $5, level = $6, tier = $7,
			posting_streak = $8, longest_streak = $9, standing = $10,
			suspended_until = $11, sanction_count = $12, last_active_date = $13,
			updated_at = now()
		WHERE user_id = $1
	`, l.UserID, l.XP, l.Coins, l.Gems, l.Karma, l.Level, l.Tier,
		l.PostingStreak, l.LongestStreak, l.Standing,
		l.SuspendedUntil, l.SanctionCount, l.LastActiveDate)
	return err
}

// DeductBalances atomically debits coins and gems if both balances cover the
// amounts. Returns false when funds are insufficient; no partial debit.
func (r *LedgerRepo) DeductBalances(ctx context.Context, tx pgx.Tx, userID uuid.UUID, coins, gems int) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE user_ledgers
		SET coins = coins - $2, gems = gems - $3, updated_at = now()
		WHERE user_id = $1 AND coins >= $2 AND gems >= $3
	`, userID, coins, gems)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
