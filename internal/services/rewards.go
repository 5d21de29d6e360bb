package services

import (
	"fmt"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

// RewardContext is what the calculator needs to know about the actor's day:
// tier (for the cap), whether this is the first qualifying action since the
// window opened, and the totals already accumulated in the window.
type RewardContext struct {
	Tier             string
	FirstOfDay       bool
	DailyCoins       int
	DailyActionCount int // times this action kind already earned today
	DailyActionXP    int // XP this action kind already earned today
}

// RewardAmounts is the tentative reward for one action. Blocked means some
// cap would be exceeded; no partial reward is issued in that case.
type RewardAmounts struct {
	XP          int
	Coins       int
	Gems        int
	Blocked     bool
	BlockReason string
}

// RewardCalculator is the pure reward-catalog lookup: stateless, reads only
// the immutable catalog and the supplied context.
type RewardCalculator struct {
	cat *catalog.Catalog
}

func NewRewardCalculator(cat *catalog.Catalog) *RewardCalculator {
	return &RewardCalculator{cat: cat}
}

// Calculate resolves the base reward and enforces, in order: the per-action
// daily count limit, the per-action XP sub-cap, and the tier's daily coin
// cap. The first violated cap blocks the whole reward.
func (c *RewardCalculator) Calculate(kind string, rctx RewardContext) (RewardAmounts, error) {
	entry, ok := c.cat.Reward(kind)
	if !ok {
		return RewardAmounts{}, fmt.Errorf("no reward entry for action %q", kind)
	}

	amounts := RewardAmounts{XP: entry.XP, Coins: entry.Coins, Gems: entry.Gems}
	if rctx.FirstOfDay {
		amounts.XP += entry.FirstOfDayXP
		amounts.Coins += entry.FirstOfDayCoins
	}

	if entry.DailyLimit > 0 && rctx.DailyActionCount >= entry.DailyLimit {
		return RewardAmounts{Blocked: true, BlockReason: models.BlockActionDailyLimit}, nil
	}
	if entry.DailyXPCap > 0 && rctx.DailyActionXP+amounts.XP > entry.DailyXPCap {
		return RewardAmounts{Blocked: true, BlockReason: models.BlockActionXPCap}, nil
	}
	if amounts.Coins > 0 && rctx.DailyCoins+amounts.Coins > c.cat.DailyCoinCap(rctx.Tier) {
		return RewardAmounts{Blocked: true, BlockReason: models.BlockDailyCoinCap}, nil
	}

	return amounts, nil
}
