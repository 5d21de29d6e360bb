package catalog

import "github.com/vibecheck/backend/internal/models"

var badgeTable = []models.BadgeDefinition{
	{
		ID: "first_vibe", Name: "First Vibe", Icon: "sparkles",
		Description: "Post your first vibe",
		Criteria:    models.Criteria{Type: models.CriteriaTotalVibes, Threshold: 1},
		RewardXP:    50, RewardCoins: 25,
	},
	{
		ID: "vibe_collector", Name: "Vibe Collector", Icon: "stack",
		Description: "Post 50 vibes",
		Criteria:    models.Criteria{Type: models.CriteriaTotalVibes, Threshold: 50},
		RewardXP:    250, RewardCoins: 150,
	},
	{
		ID: "vibe_centurion", Name: "Centurion", Icon: "laurel",
		Description: "Post 100 vibes",
		Criteria:    models.Criteria{Type: models.CriteriaTotalVibes, Threshold: 100},
		RewardXP:    500, RewardCoins: 300, RewardGems: 2,
	},
	{
		ID: "joy_radiator", Name: "Joy Radiator", Icon: "sun",
		Description: "Post 10 joyful vibes",
		Criteria: models.Criteria{
			Type: models.CriteriaEmotionPosts, Threshold: 10,
			SpecificValues: []string{"joy", "excited", "grateful"},
		},
		RewardXP: 150, RewardCoins: 75,
	},
	{
		ID: "deep_feeler", Name: "Deep Feeler", Icon: "wave",
		Description: "Post with 8 different emotions",
		Criteria:    models.Criteria{Type: models.CriteriaUniqueEmotions, Threshold: 8},
		RewardXP:    200, RewardCoins: 100,
	},
	{
		ID: "globe_trotter", Name: "Globe Trotter", Icon: "globe",
		Description: "Post vibes from 5 different cities",
		Criteria:    models.Criteria{Type: models.CriteriaUniqueCities, Threshold: 5},
		RewardXP:    300, RewardCoins: 150, RewardGems: 1,
	},
	{
		ID: "conversationalist", Name: "Conversationalist", Icon: "chat",
		Description: "Leave 100 comments",
		Criteria:    models.Criteria{Type: models.CriteriaCommentsMade, Threshold: 100},
		RewardXP:    200, RewardCoins: 120,
	},
	{
		ID: "hype_machine", Name: "Hype Machine", Icon: "bolt",
		Description: "Give 500 reactions",
		Criteria:    models.Criteria{Type: models.CriteriaReactionsGiven, Threshold: 500},
		RewardXP:    150, RewardCoins: 100,
	},
	{
		ID: "challenge_seeker", Name: "Challenge Seeker", Icon: "target",
		Description: "Complete 10 challenges",
		Criteria:    models.Criteria{Type: models.CriteriaChallengesCompleted, Threshold: 10},
		RewardXP:    300, RewardCoins: 200, RewardGems: 1,
	},
	// Streak badges are granted through the milestone table; these ids must
	// stay in sync with streakMilestoneTable below.
	{
		ID: "streak_3", Name: "Warming Up", Icon: "flame",
		Description: "3-day posting streak",
		Criteria:    models.Criteria{Type: models.CriteriaPostingStreak, Threshold: 3},
	},
	{
		ID: "streak_7", Name: "On Fire", Icon: "flame",
		Description: "7-day posting streak",
		Criteria:    models.Criteria{Type: models.CriteriaPostingStreak, Threshold: 7},
	},
	{
		ID: "streak_14", Name: "Two Weeks Strong", Icon: "flame",
		Description: "14-day posting streak",
		Criteria:    models.Criteria{Type: models.CriteriaPostingStreak, Threshold: 14},
	},
	{
		ID: "streak_30", Name: "Monthly Devotion", Icon: "flame",
		Description: "30-day posting streak",
		Criteria:    models.Criteria{Type: models.CriteriaPostingStreak, Threshold: 30},
	},
	{
		ID: "streak_60", Name: "Unstoppable", Icon: "flame",
		Description: "60-day posting streak",
		Criteria:    models.Criteria{Type: models.CriteriaPostingStreak, Threshold: 60},
	},
	{
		ID: "streak_100", Name: "Hundred Club", Icon: "flame",
		Description: "100-day posting streak",
		Criteria:    models.Criteria{Type: models.CriteriaPostingStreak, Threshold: 100},
	},
	{
		ID: "streak_365", Name: "Year of Vibes", Icon: "crown",
		Description: "365-day posting streak",
		Criteria:    models.Criteria{Type: models.CriteriaPostingStreak, Threshold: 365},
	},
}

var achievementTable = []models.AchievementDefinition{
	{
		ID: "rising_star", Name: "Rising Star",
		Description: "Reach level 10",
		Criteria:    models.Criteria{Type: models.CriteriaLevelReached, Threshold: 10},
		RewardXP:    0, RewardCoins: 250,
	},
	{
		ID: "veteran", Name: "Veteran",
		Description: "Reach level 25",
		Criteria:    models.Criteria{Type: models.CriteriaLevelReached, Threshold: 25},
		RewardCoins: 750, RewardGems: 3,
	},
	{
		ID: "mission_regular", Name: "Mission Regular",
		Description: "Complete 25 missions",
		Criteria:    models.Criteria{Type: models.CriteriaMissionsCompleted, Threshold: 25},
		RewardXP:    400, RewardCoins: 250,
	},
	{
		ID: "challenge_master", Name: "Challenge Master",
		Description: "Complete 50 challenges",
		Criteria:    models.Criteria{Type: models.CriteriaChallengesCompleted, Threshold: 50},
		RewardXP:    800, RewardCoins: 500, RewardGems: 5,
	},
	{
		ID: "emotional_spectrum", Name: "Emotional Spectrum",
		Description: "Post with 12 different emotions",
		Criteria:    models.Criteria{Type: models.CriteriaUniqueEmotions, Threshold: 12},
		RewardXP:    500, RewardCoins: 300, RewardGems: 2,
	},
}

var streakMilestoneTable = []models.StreakMilestone{
	{Days: 3, BadgeID: "streak_3", RewardXP: 50, RewardCoins: 30},
	{Days: 7, BadgeID: "streak_7", RewardXP: 150, RewardCoins: 100},
	{Days: 14, BadgeID: "streak_14", RewardXP: 300, RewardCoins: 200},
	{Days: 30, BadgeID: "streak_30", RewardXP: 700, RewardCoins: 500, RewardGems: 2},
	{Days: 60, BadgeID: "streak_60", RewardXP: 1500, RewardCoins: 1000, RewardGems: 4},
	{Days: 100, BadgeID: "streak_100", RewardXP: 3000, RewardCoins: 2000, RewardGems: 8},
	{Days: 365, BadgeID: "streak_365", RewardXP: 10000, RewardCoins: 7500, RewardGems: 25},
}
