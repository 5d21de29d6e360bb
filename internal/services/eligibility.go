package services

import (
	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

// EligibilityEngine evaluates declarative badge and achievement criteria
// against a stats snapshot. It never mutates anything; the orchestrator owns
// the idempotent award write.
type EligibilityEngine struct {
	cat *catalog.Catalog
}

func NewEligibilityEngine(cat *catalog.Catalog) *EligibilityEngine {
	return &EligibilityEngine{cat: cat}
}

// IsEligible reports whether the snapshot satisfies the criteria.
func (e *EligibilityEngine) IsEligible(c models.Criteria, snap *models.UserStatsSnapshot) bool {
	return statValue(c, snap) >= c.Threshold
}

// Progress returns completion toward the criteria as a 0-100 percentage,
// capped at 100 once eligible.
func (e *EligibilityEngine) Progress(c models.Criteria, snap *models.UserStatsSnapshot) int {
	if c.Threshold <= 0 {
		return 100
	}
	pct := statValue(c, snap) * 100 / c.Threshold
	if pct > 100 {
		pct = 100
	}
	return pct
}

// NewlyEligible returns the badge definitions the snapshot now satisfies that
// the actor has not earned yet. Streak badges are excluded: those are awarded
// by the milestone path, keyed to the exact day count.
func (e *EligibilityEngine) NewlyEligible(snap *models.UserStatsSnapshot, earned map[string]bool) []models.BadgeDefinition {
	var out []models.BadgeDefinition
	for _, b := range e.cat.Badges {
		if earned[b.ID] || b.Criteria.Type == models.CriteriaPostingStreak {
			continue
		}
		if e.IsEligible(b.Criteria, snap) {
			out = append(out, b)
		}
	}
	for _, a := range e.cat.Achievements {
		if earned[a.ID] {
			continue
		}
		if e.IsEligible(a.Criteria, snap) {
			out = append(out, models.BadgeDefinition{
				ID:          a.ID,
				Name:        a.Name,
				Description: a.Description,
				Criteria:    a.Criteria,
				RewardXP:    a.RewardXP,
				RewardCoins: a.RewardCoins,
				RewardGems:  a.RewardGems,
			})
		}
	}
	return out
}

// statValue resolves the snapshot counter a criteria type reads. Unknown
// types count as zero, which can never satisfy a positive threshold; the
// catalog validator keeps unknown types out of the shipped tables.
func statValue(c models.Criteria, snap *models.UserStatsSnapshot) int {
	switch c.Type {
	case models.CriteriaEmotionPosts:
		if len(c.SpecificValues) == 0 {
			return snap.TotalVibes
		}
		total := 0
		for _, emotion := range c.SpecificValues {
			total += snap.EmotionCounts[emotion]
		}
		return total
	case models.CriteriaUniqueEmotions:
		return snap.UniqueEmotions()
	case models.CriteriaPostingStreak:
		return snap.PostingStreak
	case models.CriteriaTotalVibes:
		return snap.TotalVibes
	case models.CriteriaUniqueCities:
		return snap.UniqueCities
	case models.CriteriaChallengesCompleted:
		return snap.ChallengesCompleted
	case models.CriteriaMissionsCompleted:
		return snap.MissionsCompleted
	case models.CriteriaCommentsMade:
		return snap.CommentsMade
	case models.CriteriaReactionsGiven:
		return snap.ReactionsGiven
	case models.CriteriaLevelReached:
		return snap.Level
	default:
		return 0
	}
}
