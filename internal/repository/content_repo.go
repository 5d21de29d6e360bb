package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContentRepo resolves content ownership from the vibes table the content
// service maintains in the shared database. This engine only reads it.
type ContentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

// OwnerOf returns the author of the given vibe, or uuid.Nil when no such
// content exists. Absence is a business outcome here, not an error.
func (r *ContentRepo) OwnerOf(ctx context.Context, targetID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT user_id FROM vibes WHERE id = $1
	`, targetID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return owner, nil
}
