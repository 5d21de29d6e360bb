package models

import (
	"time"

	"github.com/google/uuid"
)

// Mission cadence enums.
const (
	CadenceDaily  = "daily"
	CadenceWeekly = "weekly"
)

// MissionTemplate is a static catalog entry: count CountKind actions Target
// times within one cadence period.
type MissionTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cadence     string `json:"cadence"`
	CountKind   string `json:"count_kind"` // action kind that advances the counter
	Target      int    `json:"target"`
	RewardXP    int    `json:"reward_xp"`
	RewardCoins int    `json:"reward_coins"`
	RewardGems  int    `json:"reward_gems"`
}

// MissionProgress is one actor's counter against a template for the current
// cadence period. PeriodStart identifies the period; a new period replaces
// the counter rather than accumulating across the reset boundary.
type MissionProgress struct {
	UserID      uuid.UUID  `json:"user_id"`
	MissionID   string     `json:"mission_id"`
	PeriodStart time.Time  `json:"period_start"`
	Count       int        `json:"count"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Completed reports whether the counter reached the template target.
func (p *MissionProgress) Completed() bool { return p.CompletedAt != nil }

// Claimed reports whether the completion reward has already been paid.
func (p *MissionProgress) Claimed() bool { return p.ClaimedAt != nil }

// PeriodStartFor returns the canonical period start for a cadence at the
// given instant (UTC midnight for daily, ISO-week Monday for weekly).
func PeriodStartFor(cadence string, now time.Time) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if cadence == CadenceWeekly {
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return day.AddDate(0, 0, -(weekday - 1))
	}
	return day
}
