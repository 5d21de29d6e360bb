package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibecheck/backend/internal/models"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

func scanStats(row pgx.Row) (*models.UserStats, error) {
	var (
		s           models.UserStats
		emotionsRaw []byte
		citiesRaw   []byte
	)
	err := row.Scan(&s.UserID, &s.TotalVibes, &emotionsRaw, &citiesRaw,
		&s.ChallengesCompleted, &s.MissionsCompleted, &s.CommentsMade,
		&s.ReactionsGiven, &s.SharesGiven, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(emotionsRaw, &s.EmotionCounts); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(citiesRaw, &s.Cities); err != nil {
		return nil, err
	}
	return &s, nil
}

const statsColumns = `user_id, total_vibes, emotion_counts, cities, challenges_completed,
	missions_completed, comments_made, reactions_given, shares_given, updated_at`

func (r *StatsRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	return scanStats(r.pool.QueryRow(ctx, `
		SELECT `+statsColumns+` FROM user_stats WHERE user_id = $1
	`, userID))
}

// GetForUpdate creates the stats row lazily, then locks it. Called inside the
// apply transaction after the ledger lock.
func (r *StatsRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.UserStats, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_stats (user_id, emotion_counts, cities)
		VALUES ($1, '{}', '{}')
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, err
	}
	return scanStats(tx.QueryRow(ctx, `
		SELECT `+statsColumns+` FROM user_stats WHERE user_id = $1 FOR UPDATE
	`, userID))
}

func (r *StatsRepo) Update(ctx context.Context, tx pgx.Tx, s *models.UserStats) error {
	emotionsRaw, err := json.Marshal(s.EmotionCounts)
	if err != nil {
		return err
	}
	citiesRaw, err := json.Marshal(s.Cities)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE user_stats
		SET total_vibes = $2, emotion_counts = $3, cities = $4, challenges_completed = $5,
			missions_completed = $6, comments_made = $7, reactions_given = $8,
			shares_given = $9, updated_at = now()
		WHERE user_id = $1
	`, s.UserID, s.TotalVibes, emotionsRaw, citiesRaw, s.ChallengesCompleted,
		s.MissionsCompleted, s.CommentsMade, s.ReactionsGiven, s.SharesGiven)
	return err
}
