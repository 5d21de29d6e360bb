package services

import (
	"testing"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

func TestCalculateBaseAndFirstOfDay(t *testing.T) {
	calc := NewRewardCalculator(catalog.Default())

	base, err := calc.Calculate(models.ActionPostVibe, RewardContext{Tier: models.TierBronze})
	if err != nil {
		t.Fatal(err)
	}
	if base.XP != 50 || base.Coins != 25 {
		t.Errorf("base = %d/%d, want 50/25", base.XP, base.Coins)
	}

	first, err := calc.Calculate(models.ActionPostVibe, RewardContext{Tier: models.TierBronze, FirstOfDay: true})
	if err != nil {
		t.Fatal(err)
	}
	if first.XP != 75 || first.Coins != 35 {
		t.Errorf("first-of-day = %d/%d, want 75/35", first.XP, first.Coins)
	}
}

func TestCalculateActionDailyLimit(t *testing.T) {
	calc := NewRewardCalculator(catalog.Default())

	got, err := calc.Calculate(models.ActionReact, RewardContext{
		Tier:             models.TierBronze,
		DailyActionCount: 50, // at the react limit
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Blocked || got.BlockReason != models.BlockActionDailyLimit {
		t.Errorf("got %+v, want daily-limit block", got)
	}
}

func TestCalculateActionXPSubCap(t *testing.T) {
	calc := NewRewardCalculator(catalog.Default())

	got, err := calc.Calculate(models.ActionReact, RewardContext{
		Tier:          models.TierBronze,
		DailyActionXP: 98, // 98+5 > 100 cap
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Blocked || got.BlockReason != models.BlockActionXPCap {
		t.Errorf("got %+v, want xp-cap block", got)
	}
}

func TestCalculateDailyCoinCapNeverExceeded(t *testing.T) {
	calc := NewRewardCalculator(catalog.Default())

	// 1990 earned, next post worth 25 coins would land at 2015: blocked,
	// never a partial grant past the cap.
	got, err := calc.Calculate(models.ActionPostVibe, RewardContext{
		Tier:       models.TierBronze,
		DailyCoins: 1990,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Blocked || got.BlockReason != models.BlockDailyCoinCap {
		t.Errorf("got %+v, want coin-cap block", got)
	}

	// A higher tier's raised cap admits the same action.
	gold, err := calc.Calculate(models.ActionPostVibe, RewardContext{
		Tier:       models.TierGold,
		DailyCoins: 1990,
	})
	if err != nil {
		t.Fatal(err)
	}
	if gold.Blocked {
		t.Errorf("gold tier blocked at %d coins: %+v", 1990, gold)
	}
}

func TestCalculateUnknownKind(t *testing.T) {
	calc := NewRewardCalculator(catalog.Default())
	if _, err := calc.Calculate("teleport", RewardContext{Tier: models.TierBronze}); err == nil {
		t.Error("expected error for unknown action kind")
	}
}
