package models

import (
	"time"

	"github.com/google/uuid"
)

// Progression tier enums. Ranges are defined in the catalog; the ledger only
// stores the derived name and must recompute it on every XP mutation.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
	TierLegend   = "legend"
)

// Account standing enums.
const (
	StandingActive    = "active"
	StandingSuspended = "suspended"
	StandingBanned    = "banned"
)

// UserLedger is the persistent economy state for one actor. Level and Tier
// are derived from XP and are rewritten together with it inside the same
// transaction; they are never trusted independently of their source totals.
type UserLedger struct {
	UserID         uuid.UUID  `json:"user_id"`
	XP             int        `json:"xp"`
	Coins          int        `json:"coins"`
	Gems           int        `json:"gems"`
	Karma          int        `json:"karma"`
	Level          int        `json:"level"`
	Tier           string     `json:"tier"`
	PostingStreak  int        `json:"posting_streak"`
	LongestStreak  int        `json:"longest_streak"`
	Standing       string     `json:"standing"`
	SuspendedUntil *time.Time `json:"suspended_until,omitempty"`
	SanctionCount  int        `json:"sanction_count"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Suspended reports whether the actor is currently serving a suspension.
func (l *UserLedger) Suspended(now time.Time) bool {
	return l.Standing == StandingSuspended && l.SuspendedUntil != nil && now.Before(*l.SuspendedUntil)
}

// KarmaTier is one of the five reputation bands. VisibilityClass and
// BoostMultiplier are consumed by the external feed-ranking subsystem.
type KarmaTier struct {
	Name            string  `json:"name"`
	MinKarma        int     `json:"min_karma"`
	MaxKarma        int     `json:"max_karma"` // -1 = unbounded
	VisibilityClass string  `json:"visibility_class"`
	BoostMultiplier float64 `json:"boost_multiplier"`
}

// TierPerks are the benefits a progression tier grants. Other components
// read these from the catalog rather than duplicating the numbers.
type TierPerks struct {
	DailyCoinCapBonus int      `json:"daily_coin_cap_bonus"`
	LeaderboardClass  string   `json:"leaderboard_class"`
	CosmeticUnlocks   []string `json:"cosmetic_unlocks,omitempty"`
}
