package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Transaction entry_type enums. Rollback entries carry the negated deltas of
// the entry they reverse and reference it via RollsBackID.
const (
	EntryEarn         = "earn"
	EntrySpend        = "spend"
	EntryBadgeBonus   = "badge_bonus"
	EntryMissionBonus = "mission_bonus"
	EntryRollback     = "rollback"
)

// RewardTransaction is one immutable ledger record. For any actor the sum of
// each delta column over all records must equal the corresponding ledger
// total at all times.
type RewardTransaction struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	ActionKind    string          `json:"action_kind"`
	EntryType     string          `json:"entry_type"`
	XPDelta       int             `json:"xp_delta"`
	CoinsDelta    int             `json:"coins_delta"`
	GemsDelta     int             `json:"gems_delta"`
	KarmaDelta    int             `json:"karma_delta"`
	TargetID      *uuid.UUID      `json:"target_id,omitempty"`
	CounterpartID *uuid.UUID      `json:"counterpart_id,omitempty"`
	RollsBackID   *uuid.UUID      `json:"rolls_back_id,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Reversed returns a rollback entry that exactly negates t.
func (t *RewardTransaction) Reversed() *RewardTransaction {
	id := t.ID
	return &RewardTransaction{
		ID:          uuid.New(),
		UserID:      t.UserID,
		ActionKind:  t.ActionKind,
		EntryType:   EntryRollback,
		XPDelta:     -t.XPDelta,
		CoinsDelta:  -t.CoinsDelta,
		GemsDelta:   -t.GemsDelta,
		KarmaDelta:  -t.KarmaDelta,
		TargetID:    t.TargetID,
		RollsBackID: &id,
	}
}

// LedgerSums holds per-currency totals summed from an actor's transaction
// log, used to verify conservation against the ledger row.
type LedgerSums struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
	Gems  int `json:"gems"`
	Karma int `json:"karma"`
}
