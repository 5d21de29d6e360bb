package handlers

import (
	"net/http"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

type catalogResponse struct {
	Badges       []models.BadgeDefinition       `json:"badges"`
	Achievements []models.AchievementDefinition `json:"achievements"`
	Milestones   []models.StreakMilestone       `json:"streak_milestones"`
	Missions     []models.MissionTemplate       `json:"missions"`
	KarmaTiers   []models.KarmaTier             `json:"karma_tiers"`
}

// ListCatalog handles GET /v1/catalog (public, no auth). Reward amounts and
// fraud thresholds stay server-side; clients only see the collectible
// definitions they render.
func ListCatalog(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, catalogResponse{
			Badges:       cat.Badges,
			Achievements: cat.Achievements,
			Milestones:   cat.StreakMilestones,
			Missions:     cat.Missions,
			KarmaTiers:   cat.KarmaTiers,
		})
	}
}
