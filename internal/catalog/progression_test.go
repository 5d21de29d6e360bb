package catalog

import (
	"testing"

	"github.com/vibecheck/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Tier boundaries
// ---------------------------------------------------------------------------

func TestTierBoundaries(t *testing.T) {
	c := Default()

	cases := []struct {
		xp   int
		want string
	}{
		{0, models.TierBronze},
		{2499, models.TierBronze},
		{2500, models.TierSilver},
		{7499, models.TierSilver},
		{7500, models.TierGold},
		{19999, models.TierGold},
		{20000, models.TierPlatinum},
		{49999, models.TierPlatinum},
		{50000, models.TierLegend},
		{1000000, models.TierLegend},
	}
	for _, tc := range cases {
		if got := c.TierForXP(tc.xp); got != tc.want {
			t.Errorf("TierForXP(%d): got %s, want %s", tc.xp, got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Level step function
// ---------------------------------------------------------------------------

func TestLevelForXP(t *testing.T) {
	c := Default()

	if got := c.LevelForXP(0); got != 1 {
		t.Errorf("LevelForXP(0): got %d, want 1", got)
	}
	if got := c.LevelForXP(99); got != 1 {
		t.Errorf("LevelForXP(99): got %d, want 1", got)
	}
	if got := c.LevelForXP(100); got != 2 {
		t.Errorf("LevelForXP(100): got %d, want 2", got)
	}
	if got := c.LevelForXP(249); got != 2 {
		t.Errorf("LevelForXP(249): got %d, want 2", got)
	}
	// Beyond the last table entry the level stays at the max.
	if got := c.LevelForXP(10_000_000); got != len(c.LevelXP) {
		t.Errorf("LevelForXP(huge): got %d, want %d", got, len(c.LevelXP))
	}
}

// Monotonic progression: level and tier never move backwards as XP grows.
func TestProgressionMonotonic(t *testing.T) {
	c := Default()

	tierOrder := map[string]int{
		models.TierBronze:   0,
		models.TierSilver:   1,
		models.TierGold:     2,
		models.TierPlatinum: 3,
		models.TierLegend:   4,
	}

	prevLevel, prevTier := 0, -1
	for xp := 0; xp <= 70000; xp += 13 {
		level := c.LevelForXP(xp)
		tier := tierOrder[c.TierForXP(xp)]
		if level < prevLevel {
			t.Fatalf("level decreased at xp=%d: %d -> %d", xp, prevLevel, level)
		}
		if tier < prevTier {
			t.Fatalf("tier decreased at xp=%d", xp)
		}
		prevLevel, prevTier = level, tier
	}
}

// ---------------------------------------------------------------------------
// Karma tiers
// ---------------------------------------------------------------------------

func TestKarmaTierBands(t *testing.T) {
	c := Default()

	if got := c.KarmaTierFor(0).Name; got != "restricted" {
		t.Errorf("karma 0: got %s, want restricted", got)
	}
	if got := c.KarmaTierFor(100).Name; got != "standard" {
		t.Errorf("karma 100: got %s, want standard", got)
	}
	if got := c.KarmaTierFor(5000).Name; got != "luminary" {
		t.Errorf("karma 5000: got %s, want luminary", got)
	}
	if m := c.KarmaTierFor(750).BoostMultiplier; m != 1.25 {
		t.Errorf("karma 750 boost: got %v, want 1.25", m)
	}
}

// ---------------------------------------------------------------------------
// Daily coin caps read tier perks, not their own copies
// ---------------------------------------------------------------------------

func TestDailyCoinCapPerTier(t *testing.T) {
	c := Default()

	if got := c.DailyCoinCap(models.TierBronze); got != 2000 {
		t.Errorf("bronze cap: got %d, want 2000", got)
	}
	for _, tier := range []string{models.TierSilver, models.TierGold, models.TierPlatinum, models.TierLegend} {
		want := 2000 + c.PerksFor(tier).DailyCoinCapBonus
		if got := c.DailyCoinCap(tier); got != want {
			t.Errorf("%s cap: got %d, want %d", tier, got, want)
		}
	}
}
