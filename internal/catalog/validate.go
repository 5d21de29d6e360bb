package catalog

import (
	"fmt"

	"github.com/vibecheck/backend/internal/models"
)

// Validate checks the catalog's internal consistency once at startup so the
// rest of the engine can trust its lookups unconditionally:
//   - level XP table strictly ascending, starting at 0
//   - tier ranges contiguous from 0 with an unbounded top tier
//   - karma tiers likewise contiguous
//   - no id collisions across badges, achievements, missions
//   - streak milestones reference existing badge ids, ascending day counts
//   - every action kind with a reward entry has a velocity limit
func (c *Catalog) Validate() error {
	if len(c.LevelXP) == 0 || c.LevelXP[0] != 0 {
		return fmt.Errorf("level table must start at 0 XP for level 1")
	}
	for i := 1; i < len(c.LevelXP); i++ {
		if c.LevelXP[i] <= c.LevelXP[i-1] {
			return fmt.Errorf("level table not ascending at level %d", i+1)
		}
	}

	if err := validateTierRanges(c.Tiers); err != nil {
		return err
	}
	if err := validateKarmaTiers(c.KarmaTiers); err != nil {
		return err
	}

	seen := map[string]string{}
	for _, b := range c.Badges {
		if prev, dup := seen[b.ID]; dup {
			return fmt.Errorf("badge id %q collides with %s", b.ID, prev)
		}
		seen[b.ID] = "badge"
		if b.Criteria.Type == "" || b.Criteria.Threshold <= 0 {
			return fmt.Errorf("badge %q has invalid criteria", b.ID)
		}
	}
	for _, a := range c.Achievements {
		if prev, dup := seen[a.ID]; dup {
			return fmt.Errorf("achievement id %q collides with %s", a.ID, prev)
		}
		seen[a.ID] = "achievement"
		if a.Criteria.Type == "" || a.Criteria.Threshold <= 0 {
			return fmt.Errorf("achievement %q has invalid criteria", a.ID)
		}
	}
	for _, m := range c.Missions {
		if prev, dup := seen[m.ID]; dup {
			return fmt.Errorf("mission id %q collides with %s", m.ID, prev)
		}
		seen[m.ID] = "mission"
		if m.Cadence != models.CadenceDaily && m.Cadence != models.CadenceWeekly {
			return fmt.Errorf("mission %q has unknown cadence %q", m.ID, m.Cadence)
		}
		if m.Target <= 0 {
			return fmt.Errorf("mission %q has non-positive target", m.ID)
		}
		if _, ok := c.Rewards[m.CountKind]; !ok {
			return fmt.Errorf("mission %q counts unknown action %q", m.ID, m.CountKind)
		}
	}

	lastDays := 0
	for _, ms := range c.StreakMilestones {
		if ms.Days <= lastDays {
			return fmt.Errorf("streak milestones not ascending at day %d", ms.Days)
		}
		lastDays = ms.Days
		if c.Badge(ms.BadgeID) == nil {
			return fmt.Errorf("streak milestone %d references unknown badge %q", ms.Days, ms.BadgeID)
		}
	}

	for kind := range c.Rewards {
		if _, ok := c.Velocity[kind]; !ok {
			return fmt.Errorf("action %q has no velocity limit", kind)
		}
	}
	for kind := range c.Velocity {
		if _, ok := c.Rewards[kind]; !ok {
			return fmt.Errorf("velocity limit for unknown action %q", kind)
		}
	}

	return nil
}

func validateTierRanges(tiers []TierRange) error {
	if len(tiers) == 0 {
		return fmt.Errorf("no tiers defined")
	}
	if tiers[0].MinXP != 0 {
		return fmt.Errorf("first tier must start at 0 XP")
	}
	for i, t := range tiers {
		last := i == len(tiers)-1
		if last {
			if t.MaxXP != -1 {
				return fmt.Errorf("top tier %q must be unbounded", t.Name)
			}
			continue
		}
		if t.MaxXP < t.MinXP {
			return fmt.Errorf("tier %q has inverted range", t.Name)
		}
		if tiers[i+1].MinXP != t.MaxXP+1 {
			return fmt.Errorf("gap between tiers %q and %q", t.Name, tiers[i+1].Name)
		}
	}
	return nil
}

func validateKarmaTiers(tiers []models.KarmaTier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("no karma tiers defined")
	}
	if tiers[0].MinKarma != 0 {
		return fmt.Errorf("first karma tier must start at 0")
	}
	for i, t := range tiers {
		last := i == len(tiers)-1
		if last {
			if t.MaxKarma != -1 {
				return fmt.Errorf("top karma tier %q must be unbounded", t.Name)
			}
			continue
		}
		if tiers[i+1].MinKarma != t.MaxKarma+1 {
			return fmt.Errorf("gap between karma tiers %q and %q", t.Name, tiers[i+1].Name)
		}
	}
	return nil
}
