package catalog

import (
	"time"

	"github.com/vibecheck/backend/internal/models"
)

// Karma signal names for events that are not inbound actions. Negative
// signals arrive from the sanction policy and moderation.
const (
	KarmaSignalWarningIssued = "warning_issued"
	KarmaSignalFraudRollback = "fraud_rollback"
	KarmaSignalReportUpheld  = "report_upheld"
)

// KarmaEntry is one row of the reputation delta table. Cooldown throttles
// repeat applications of the same positive signal; negative signals are
// instead capped at NegativeHourlyCap applications per hour.
type KarmaEntry struct {
	Delta    int
	Cooldown time.Duration
}

var karmaDeltaTable = map[string]KarmaEntry{
	models.ActionPostVibe:          {Delta: 5},
	models.ActionComment:           {Delta: 3},
	models.ActionReact:             {Delta: 1},
	models.ActionShare:             {Delta: 2},
	models.ActionChallengeComplete: {Delta: 8},
	models.ActionMissionComplete:   {Delta: 6},
	models.ActionStreakMilestone:   {Delta: 10},
	models.ActionDailyLogin:        {Delta: 2, Cooldown: 20 * time.Hour},

	KarmaSignalWarningIssued: {Delta: -10},
	KarmaSignalFraudRollback: {Delta: -25},
	KarmaSignalReportUpheld:  {Delta: -15},
}

// NegativeHourlyCap bounds how many negative-signal applications count within
// one hour, so a single moderation sweep cannot crush karma disproportionately.
const NegativeHourlyCap = 3

var karmaTierTable = []models.KarmaTier{
	{Name: "restricted", MinKarma: 0, MaxKarma: 99, VisibilityClass: "limited", BoostMultiplier: 0.75},
	{Name: "standard", MinKarma: 100, MaxKarma: 499, VisibilityClass: "normal", BoostMultiplier: 1.0},
	{Name: "trusted", MinKarma: 500, MaxKarma: 1499, VisibilityClass: "boosted", BoostMultiplier: 1.25},
	{Name: "influencer", MinKarma: 1500, MaxKarma: 4999, VisibilityClass: "featured", BoostMultiplier: 1.5},
	{Name: "luminary", MinKarma: 5000, MaxKarma: -1, VisibilityClass: "spotlight", BoostMultiplier: 2.0},
}

// KarmaDelta returns the delta table entry for an action kind or signal name.
func (c *Catalog) KarmaDelta(name string) (KarmaEntry, bool) {
	e, ok := c.KarmaDeltas[name]
	return e, ok
}

// KarmaTierFor returns the reputation band containing karma.
func (c *Catalog) KarmaTierFor(karma int) models.KarmaTier {
	for _, t := range c.KarmaTiers {
		if karma >= t.MinKarma && (t.MaxKarma < 0 || karma <= t.MaxKarma) {
			return t
		}
	}
	return c.KarmaTiers[len(c.KarmaTiers)-1]
}
