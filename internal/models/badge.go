package models

import (
	"time"

	"github.com/google/uuid"
)

// Badge/achievement criteria_type enums, evaluated against UserStatsSnapshot.
const (
	CriteriaEmotionPosts        = "emotion_posts"
	CriteriaUniqueEmotions      = "unique_emotions"
	CriteriaPostingStreak       = "posting_streak"
	CriteriaTotalVibes          = "total_vibes"
	CriteriaUniqueCities        = "unique_cities"
	CriteriaChallengesCompleted = "challenges_completed"
	CriteriaMissionsCompleted   = "missions_completed"
	CriteriaCommentsMade        = "comments_made"
	CriteriaReactionsGiven      = "reactions_given"
	CriteriaLevelReached        = "level_reached"
)

// Criteria is the declarative eligibility descriptor shared by badges and
// achievements. SpecificValues narrows counting criteria (e.g. which emotion
// tags count toward an emotion_posts threshold).
type Criteria struct {
	Type           string   `json:"type"`
	Threshold      int      `json:"threshold"`
	SpecificValues []string `json:"specific_values,omitempty"`
}

// BadgeDefinition is one static catalog entry.
type BadgeDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Criteria    Criteria `json:"criteria"`
	RewardXP    int      `json:"reward_xp"`
	RewardCoins int      `json:"reward_coins"`
	RewardGems  int      `json:"reward_gems"`
}

// AchievementDefinition shares the badge shape; achievements are long-arc
// goals surfaced separately by the UI.
type AchievementDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Criteria    Criteria `json:"criteria"`
	RewardXP    int      `json:"reward_xp"`
	RewardCoins int      `json:"reward_coins"`
	RewardGems  int      `json:"reward_gems"`
}

// StreakMilestone pays once when the posting streak lands on exactly Days.
type StreakMilestone struct {
	Days        int    `json:"days"`
	BadgeID     string `json:"badge_id"`
	RewardXP    int    `json:"reward_xp"`
	RewardCoins int    `json:"reward_coins"`
	RewardGems  int    `json:"reward_gems"`
}

// Badge is an earned instance. The (user, badge id) pair is unique; awarding
// is idempotent.
type Badge struct {
	UserID   uuid.UUID `json:"user_id"`
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

// UserStatsSnapshot is the read-only view eligibility criteria are evaluated
// against. Built after progression recompute so Level and XP are current.
type UserStatsSnapshot struct {
	UserID              uuid.UUID      `json:"user_id"`
	TotalVibes          int            `json:"total_vibes"`
	EmotionCounts       map[string]int `json:"emotion_counts"`
	UniqueCities        int            `json:"unique_cities"`
	PostingStreak       int            `json:"posting_streak"`
	LongestStreak       int            `json:"longest_streak"`
	ChallengesCompleted int            `json:"challenges_completed"`
	MissionsCompleted   int            `json:"missions_completed"`
	CommentsMade        int            `json:"comments_made"`
	ReactionsGiven      int            `json:"reactions_given"`
	SharesGiven         int            `json:"shares_given"`
	XP                  int            `json:"xp"`
	Level               int            `json:"level"`
}

// UniqueEmotions counts distinct emotion tags the actor has posted with.
func (s *UserStatsSnapshot) UniqueEmotions() int {
	return len(s.EmotionCounts)
}

// UserStats is the persisted accumulator behind the snapshot, maintained in
// the same transaction as the ledger so the two never drift.
type UserStats struct {
	UserID              uuid.UUID      `json:"user_id"`
	TotalVibes          int            `json:"total_vibes"`
	EmotionCounts       map[string]int `json:"emotion_counts"`
	Cities              map[string]int `json:"cities"`
	ChallengesCompleted int            `json:"challenges_completed"`
	MissionsCompleted   int            `json:"missions_completed"`
	CommentsMade        int            `json:"comments_made"`
	ReactionsGiven      int            `json:"reactions_given"`
	SharesGiven         int            `json:"shares_given"`
	UpdatedAt           time.Time      `json:"updated_at"`
}
