package models

import (
	"time"

	"github.com/google/uuid"
)

// CapWindow is the length of the rolling earn-cap window.
const CapWindow = 24 * time.Hour

// DailyCapState tracks one actor's earnings inside the current rolling 24h
// window. Counters only grow; the whole window resets in one step when it
// expires, either lazily inside the apply transaction or by the sweep job.
type DailyCapState struct {
	UserID       uuid.UUID      `json:"user_id"`
	WindowStart  time.Time      `json:"window_start"`
	Coins        int            `json:"coins"`
	XP           int            `json:"xp"`
	ActionCounts map[string]int `json:"action_counts"`
	XPByAction   map[string]int `json:"xp_by_action"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Expired reports whether the window has rolled past its 24 hours.
func (s *DailyCapState) Expired(now time.Time) bool {
	return now.Sub(s.WindowStart) >= CapWindow
}

// Reset zeroes every counter and starts a new window at now.
func (s *DailyCapState) Reset(now time.Time) {
	s.WindowStart = now
	s.Coins = 0
	s.XP = 0
	s.ActionCounts = map[string]int{}
	s.XPByAction = map[string]int{}
}

// Record adds an applied action's earnings to the window.
func (s *DailyCapState) Record(kind string, coins, xp int) {
	if s.ActionCounts == nil {
		s.ActionCounts = map[string]int{}
	}
	if s.XPByAction == nil {
		s.XPByAction = map[string]int{}
	}
	s.ActionCounts[kind]++
	s.XPByAction[kind] += xp
	s.Coins += coins
	s.XP += xp
}

// Refund removes a rolled-back action's earnings from the window, flooring
// at zero in case the window reset between apply and rollback.
func (s *DailyCapState) Refund(kind string, coins, xp int) {
	if s.ActionCounts[kind] > 0 {
		s.ActionCounts[kind]--
	}
	s.XPByAction[kind] = max(0, s.XPByAction[kind]-xp)
	s.Coins = max(0, s.Coins-coins)
	s.XP = max(0, s.XP-xp)
}
