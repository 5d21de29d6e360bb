package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibecheck/backend/internal/models"
)

const txColumns = `id, user_id, action_kind, entry_type, xp_delta, coins_delta, gems_delta,
	karma_delta, target_id, counterpart_id, rolls_back_id, metadata, created_at`

type TransactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// InsertTx appends a transaction record inside the given transaction.
func (r *TransactionRepo) InsertTx(ctx context.Context, tx pgx.Tx, t *models.RewardTransaction) error {
	return tx.QueryRow(ctx, `
		INSERT INTO reward_transactions
			(id, user_id, action_kind, entry_type, xp_delta, coins_delta, gems_delta,
			 karma_delta, target_id, counterpart_id, rolls_back_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`, t.ID, t.UserID, t.ActionKind, t.EntryType, t.XPDelta, t.CoinsDelta, t.GemsDelta,
		t.KarmaDelta, t.TargetID, t.CounterpartID, t.RollsBackID, t.Metadata).Scan(&t.CreatedAt)
}

// InsertRollbackTx appends a compensating record. The partial unique index on
// rolls_back_id makes a second reversal of the same record a no-op, which is
// what guards against double-reversal on retry. Returns false when the
// original was already reversed.
func (r *TransactionRepo) InsertRollbackTx(ctx context.Context, tx pgx.Tx, t *models.RewardTransaction) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO reward_transactions
			(id, user_id, action_kind, entry_type, xp_delta, coins_delta, gems_delta,
			 karma_delta, target_id, counterpart_id, rolls_back_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (rolls_back_id) WHERE rolls_back_id IS NOT NULL DO NOTHING
	`, t.ID, t.UserID, t.ActionKind, t.EntryType, t.XPDelta, t.CoinsDelta, t.GemsDelta,
		t.KarmaDelta, t.TargetID, t.CounterpartID, t.RollsBackID, t.Metadata)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.RewardTransaction, error) {
	var t models.RewardTransaction
	err := r.pool.QueryRow(ctx, `
		SELECT `+txColumns+` FROM reward_transactions WHERE id = $1
	`, id).Scan(&t.ID, &t.UserID, &t.ActionKind, &t.EntryType, &t.XPDelta, &t.CoinsDelta,
		&t.GemsDelta, &t.KarmaDelta, &t.TargetID, &t.CounterpartID, &t.RollsBackID,
		&t.Metadata, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.RewardTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+txColumns+` FROM reward_transactions
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.RewardTransaction
	for rows.Next() {
		var t models.RewardTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.ActionKind, &t.EntryType, &t.XPDelta,
			&t.CoinsDelta, &t.GemsDelta, &t.KarmaDelta, &t.TargetID, &t.CounterpartID,
			&t.RollsBackID, &t.Metadata, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// SumByUser totals every delta column for one actor. The conservation
// invariant says these must equal the ledger row exactly.
func (r *TransactionRepo) SumByUser(ctx context.Context, userID uuid.UUID) (*models.LedgerSums, error) {
	var s models.LedgerSums
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(xp_delta), 0), COALESCE(SUM(coins_delta), 0),
			COALESCE(SUM(gems_delta), 0), COALESCE(SUM(karma_delta), 0)
		FROM reward_transactions WHERE user_id = $1
	`, userID).Scan(&s.XP, &s.Coins, &s.Gems, &s.Karma)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountApplied counts non-rollback records of one action kind since a cutoff,
// the input to fraud velocity-pattern checks.
func (r *TransactionRepo) CountApplied(ctx context.Context, userID uuid.UUID, kind string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM reward_transactions
		WHERE user_id = $1 AND action_kind = $2 AND entry_type <> 'rollback' AND created_at >= $3
	`, userID, kind, since).Scan(&n)
	return n, err
}

// CounterpartCounts aggregates recent interactions per counterpart, the input
// to collaboration-ring detection. Only rows with a known counterpart count.
func (r *TransactionRepo) CounterpartCounts(ctx context.Context, userID uuid.UUID, since time.Time) (map[uuid.UUID]int, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT counterpart_id, COUNT(*) FROM reward_transactions
		WHERE user_id = $1 AND counterpart_id IS NOT NULL AND entry_type <> 'rollback' AND created_at >= $2
		GROUP BY counterpart_id
	`, userID, since)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	counts := make(map[uuid.UUID]int)
	total := 0
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, 0, err
		}
		counts[id] = n
		total += n
	}
	return counts, total, rows.Err()
}
