package models

import "github.com/google/uuid"

// Block reason enums carried on a non-success RewardResult. These are
// expected business outcomes, not errors; callers render them directly.
const (
	BlockDailyCoinCap      = "daily_coin_cap_reached"
	BlockActionXPCap       = "action_xp_cap_reached"
	BlockActionDailyLimit  = "action_daily_limit_reached"
	BlockRateLimited       = "rate_limited"
	BlockValidationFailed  = "validation_failed"
	BlockInsufficientFunds = "insufficient_funds"
	BlockAlreadyClaimed    = "already_claimed"
	BlockFraudSanction     = "fraud_sanction"
	BlockAccountStanding   = "account_standing"
)

// LedgerTotals is the post-action balance summary on a RewardResult.
type LedgerTotals struct {
	XP    int    `json:"xp"`
	Coins int    `json:"coins"`
	Gems  int    `json:"gems"`
	Karma int    `json:"karma"`
	Level int    `json:"level"`
	Tier  string `json:"tier"`
}

// RewardResult describes every delta an action produced, or why it was
// blocked. Success=false with a BlockReason is a normal outcome.
type RewardResult struct {
	Success           bool              `json:"success"`
	BlockReason       string            `json:"block_reason,omitempty"`
	Message           string            `json:"message,omitempty"`
	XPEarned          int               `json:"xp_earned"`
	CoinsEarned       int               `json:"coins_earned"`
	GemsEarned        int               `json:"gems_earned"`
	KarmaChange       int               `json:"karma_change"`
	CappedByDaily     bool              `json:"capped_by_daily"`
	NewTotals         LedgerTotals      `json:"new_totals"`
	NewlyEarnedBadges []string          `json:"newly_earned_badges,omitempty"`
	TransactionID     *uuid.UUID        `json:"transaction_id,omitempty"`
	Sanction          *SanctionDecision `json:"sanction,omitempty"`
}
