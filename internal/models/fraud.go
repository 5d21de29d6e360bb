package models

import (
	"time"

	"github.com/google/uuid"
)

// Fraud check_type enums.
const (
	FraudCheckAnomaly       = "anomaly"
	FraudCheckVelocity      = "velocity"
	FraudCheckCollaboration = "collaboration"
)

// Severity enums, ordered low to critical.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Sanction action enums, ordered by escalation.
const (
	SanctionWarning    = "warning"
	SanctionRollback   = "rollback"
	SanctionSuspension = "suspension"
	SanctionBan        = "ban"
)

// FraudCheck is one recorded suspicion. Append-only: referenced by the
// sanction policy and reviewers, never edited.
type FraudCheck struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	CheckType    string    `json:"check_type"`
	Severity     string    `json:"severity"`
	FlagReason   string    `json:"flag_reason"`
	AutoResolved bool      `json:"auto_resolved"`
	ManualReview bool      `json:"manual_review"`
	CreatedAt    time.Time `json:"created_at"`
}

// SanctionDecision is derived from current flag state, never stored as
// independent truth.
type SanctionDecision struct {
	Action       string        `json:"action"`
	Duration     time.Duration `json:"duration,omitempty"`
	ManualReview bool          `json:"manual_review"`
	Message      string        `json:"message"`
}

// CohortMedians are the typical daily earnings of comparable users, the
// anomaly baseline. Refreshed out of band; readers may see a stale value.
type CohortMedians struct {
	MedianDailyCoins int       `json:"median_daily_coins"`
	MedianDailyXP    int       `json:"median_daily_xp"`
	ComputedAt       time.Time `json:"computed_at"`
}
