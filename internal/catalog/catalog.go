// Package catalog holds the static lookup tables the engine runs on: reward
// amounts, progression steps, karma deltas, badge and mission definitions.
// A Catalog is built once at process start, validated, and never mutated.
package catalog

import (
	"github.com/vibecheck/backend/internal/models"
)

type Catalog struct {
	Rewards          map[string]RewardEntry
	LevelXP          []int
	Tiers            []TierRange
	KarmaDeltas      map[string]KarmaEntry
	KarmaTiers       []models.KarmaTier
	Badges           []models.BadgeDefinition
	Achievements     []models.AchievementDefinition
	StreakMilestones []models.StreakMilestone
	Missions         []models.MissionTemplate
	Fraud            FraudThresholds
	Velocity         map[string]VelocityLimit
}

// Default returns the built-in catalog. Callers must run Validate before
// serving traffic.
func Default() *Catalog {
	return &Catalog{
		Rewards:          rewardTable,
		LevelXP:          levelXPTable,
		Tiers:            tierTable,
		KarmaDeltas:      karmaDeltaTable,
		KarmaTiers:       karmaTierTable,
		Badges:           badgeTable,
		Achievements:     achievementTable,
		StreakMilestones: streakMilestoneTable,
		Missions:         missionTable,
		Fraud:            defaultFraudThresholds,
		Velocity:         velocityTable,
	}
}

// Badge returns the badge definition with the given id, or nil.
func (c *Catalog) Badge(id string) *models.BadgeDefinition {
	for i := range c.Badges {
		if c.Badges[i].ID == id {
			return &c.Badges[i]
		}
	}
	return nil
}

// Achievement returns the achievement definition with the given id, or nil.
func (c *Catalog) Achievement(id string) *models.AchievementDefinition {
	for i := range c.Achievements {
		if c.Achievements[i].ID == id {
			return &c.Achievements[i]
		}
	}
	return nil
}

// Mission returns the mission template with the given id, or nil.
func (c *Catalog) Mission(id string) *models.MissionTemplate {
	for i := range c.Missions {
		if c.Missions[i].ID == id {
			return &c.Missions[i]
		}
	}
	return nil
}

// MilestoneForDays returns the streak milestone for exactly days, or nil.
// Eligibility is keyed by the concrete day count, never by deltas, so a
// streak correction that jumps 6→8 neither skips nor double-awards day 7.
func (c *Catalog) MilestoneForDays(days int) *models.StreakMilestone {
	for i := range c.StreakMilestones {
		if c.StreakMilestones[i].Days == days {
			return &c.StreakMilestones[i]
		}
	}
	return nil
}
