package catalog

import "github.com/vibecheck/backend/internal/models"

// RewardEntry is the per-action base reward plus its optional limits.
// DailyLimit caps how many times the action can earn per 24h window;
// DailyXPCap is the sub-cap on total XP from this action type per window,
// used for low-value repeatable actions. Zero means no limit.
type RewardEntry struct {
	XP              int
	Coins           int
	Gems            int
	DailyLimit      int
	DailyXPCap      int
	FirstOfDayXP    int // bonus when this is the actor's first qualifying action of the day
	FirstOfDayCoins int
}

var rewardTable = map[string]RewardEntry{
	models.ActionPostVibe: {
		XP: 50, Coins: 25,
		FirstOfDayXP: 25, FirstOfDayCoins: 10,
	},
	models.ActionReact: {
		XP: 5, Coins: 2,
		DailyLimit: 50, DailyXPCap: 100,
	},
	models.ActionComment: {
		XP: 15, Coins: 5,
		DailyLimit: 40,
	},
	models.ActionShare: {
		XP: 20, Coins: 10,
		DailyLimit: 20,
	},
	models.ActionChallengeComplete: {
		XP: 100, Coins: 75, Gems: 1,
	},
	models.ActionMissionComplete: {
		XP: 0, Coins: 0, // paid from the mission template, not here
	},
	models.ActionStreakMilestone: {
		XP: 0, Coins: 0, // paid from the streak milestone table
	},
	models.ActionDailyLogin: {
		XP: 20, Coins: 10,
		DailyLimit: 1,
	},
	models.ActionSpend: {}, // debit path; no earn amounts
}

// baseDailyCoinCap is the bronze-tier cap; higher tiers add their perk bonus.
const baseDailyCoinCap = 2000

// DailyCoinCap returns the 24h coin earn ceiling for a tier.
func (c *Catalog) DailyCoinCap(tier string) int {
	return baseDailyCoinCap + c.PerksFor(tier).DailyCoinCapBonus
}

// Reward returns the catalog entry for an action kind.
func (c *Catalog) Reward(kind string) (RewardEntry, bool) {
	e, ok := c.Rewards[kind]
	return e, ok
}

// VelocityLimit is the general abuse-focused ceiling on how often an action
// may even be attempted, checked before any ledger work.
type VelocityLimit struct {
	Per5Min int
	PerHour int
}

var velocityTable = map[string]VelocityLimit{
	models.ActionPostVibe:          {Per5Min: 5, PerHour: 30},
	models.ActionReact:             {Per5Min: 20, PerHour: 150},
	models.ActionComment:           {Per5Min: 10, PerHour: 60},
	models.ActionShare:             {Per5Min: 10, PerHour: 40},
	models.ActionChallengeComplete: {Per5Min: 3, PerHour: 10},
	models.ActionMissionComplete:   {Per5Min: 3, PerHour: 15},
	models.ActionStreakMilestone:   {Per5Min: 2, PerHour: 5},
	models.ActionSpend:             {Per5Min: 10, PerHour: 60},
	models.ActionDailyLogin:        {Per5Min: 2, PerHour: 4},
}

// FraudThresholds are the fraud-detector knobs. The velocity-pattern limits
// here are deliberately distinct from the general velocity table: they catch
// bursts of applied actions that slipped under the limiter.
type FraudThresholds struct {
	AnomalyRatio        float64 // daily total vs cohort median
	PostBurst5Min       int
	PostBurst1Hour      int
	ReactionBurst5Min   int
	ReactionBurst1Hour  int
	RingMinInteractions int     // interactions with one counterpart
	RingMinShare        float64 // as a fraction of the actor's total
}

var defaultFraudThresholds = FraudThresholds{
	AnomalyRatio:        3.0,
	PostBurst5Min:       10,
	PostBurst1Hour:      60,
	ReactionBurst5Min:   40,
	ReactionBurst1Hour:  250,
	RingMinInteractions: 10,
	RingMinShare:        0.5,
}
