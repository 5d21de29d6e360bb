package catalog

import (
	"strings"
	"testing"

	"github.com/vibecheck/backend/internal/models"
)

func TestDefaultCatalogValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestValidateRejectsTierGap(t *testing.T) {
	c := Default()
	tiers := make([]TierRange, len(c.Tiers))
	copy(tiers, c.Tiers)
	tiers[1].MinXP = 3000 // opens a hole after bronze
	c.Tiers = tiers

	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "gap") {
		t.Fatalf("expected gap error, got: %v", err)
	}
}

func TestValidateRejectsBoundedTopTier(t *testing.T) {
	c := Default()
	tiers := make([]TierRange, len(c.Tiers))
	copy(tiers, c.Tiers)
	tiers[len(tiers)-1].MaxXP = 99999
	c.Tiers = tiers

	if err := c.Validate(); err == nil {
		t.Fatal("expected error for bounded top tier")
	}
}

func TestValidateRejectsDescendingLevelTable(t *testing.T) {
	c := Default()
	table := make([]int, len(c.LevelXP))
	copy(table, c.LevelXP)
	table[10] = table[9] // plateau counts as not ascending
	c.LevelXP = table

	if err := c.Validate(); err == nil {
		t.Fatal("expected error for non-ascending level table")
	}
}

func TestValidateRejectsIDCollision(t *testing.T) {
	c := Default()
	dup := c.Badges[0]
	dup.Name = "Duplicate"
	c.Badges = append(append([]models.BadgeDefinition(nil), c.Badges...), dup)

	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "collides") {
		t.Fatalf("expected collision error, got: %v", err)
	}
}

func TestValidateRejectsMissionWithUnknownAction(t *testing.T) {
	c := Default()
	bad := c.Missions[0]
	bad.ID = "bogus_mission"
	bad.CountKind = "moonwalk"
	c.Missions = append(append([]models.MissionTemplate(nil), c.Missions...), bad)

	if err := c.Validate(); err == nil {
		t.Fatal("expected error for mission counting unknown action")
	}
}
