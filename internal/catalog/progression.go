package catalog

import "github.com/vibecheck/backend/internal/models"

// levelXPTable[i] is the cumulative XP required for level i+1. The increments
// grow by 50 per level; the table is validated strictly ascending at startup.
var levelXPTable = []int{
	0, 100, 250, 450, 700,
	1000, 1350, 1750, 2200, 2700,
	3250, 3850, 4500, 5200, 5950,
	6750, 7600, 8500, 9450, 10450,
	11500, 12600, 13750, 14950, 16200,
	17500, 18850, 20250, 21700, 23200,
	24750, 26350, 28000, 29700, 31450,
	33250, 35100, 37000, 38950, 40950,
	43000, 45100, 47250, 49450, 51700,
	54000, 56350, 58750, 61200, 63700,
}

// TierRange is one progression band. Ranges are contiguous and
// non-overlapping; the top tier is unbounded (MaxXP = -1).
type TierRange struct {
	Name  string
	MinXP int
	MaxXP int
	Perks models.TierPerks
}

var tierTable = []TierRange{
	{
		Name: models.TierBronze, MinXP: 0, MaxXP: 2499,
		Perks: models.TierPerks{LeaderboardClass: "local"},
	},
	{
		Name: models.TierSilver, MinXP: 2500, MaxXP: 7499,
		Perks: models.TierPerks{
			DailyCoinCapBonus: 500,
			LeaderboardClass:  "city",
			CosmeticUnlocks:   []string{"silver_frame"},
		},
	},
	{
		Name: models.TierGold, MinXP: 7500, MaxXP: 19999,
		Perks: models.TierPerks{
			DailyCoinCapBonus: 1000,
			LeaderboardClass:  "regional",
			CosmeticUnlocks:   []string{"gold_frame", "gold_trail"},
		},
	},
	{
		Name: models.TierPlatinum, MinXP: 20000, MaxXP: 49999,
		Perks: models.TierPerks{
			DailyCoinCapBonus: 2000,
			LeaderboardClass:  "national",
			CosmeticUnlocks:   []string{"platinum_frame", "platinum_trail", "aurora_theme"},
		},
	},
	{
		Name: models.TierLegend, MinXP: 50000, MaxXP: -1,
		Perks: models.TierPerks{
			DailyCoinCapBonus: 4000,
			LeaderboardClass:  "global",
			CosmeticUnlocks:   []string{"legend_frame", "legend_trail", "aurora_theme", "animated_avatar"},
		},
	},
}

// LevelForXP returns the largest level whose requirement is <= xp. Pure and
// monotonic non-decreasing in xp; minimum level is 1.
func (c *Catalog) LevelForXP(xp int) int {
	level := 1
	for i, required := range c.LevelXP {
		if xp < required {
			break
		}
		level = i + 1
	}
	return level
}

// TierForXP returns the tier band containing xp.
func (c *Catalog) TierForXP(xp int) string {
	for _, t := range c.Tiers {
		if xp >= t.MinXP && (t.MaxXP < 0 || xp <= t.MaxXP) {
			return t.Name
		}
	}
	// Validate guarantees contiguous coverage from 0; unreachable for xp >= 0.
	return c.Tiers[len(c.Tiers)-1].Name
}

// PerksFor returns the perks of the named tier (zero perks for unknown names).
func (c *Catalog) PerksFor(tier string) models.TierPerks {
	for _, t := range c.Tiers {
		if t.Name == tier {
			return t.Perks
		}
	}
	return models.TierPerks{}
}
