package catalog

import "github.com/vibecheck/backend/internal/models"

var missionTable = []models.MissionTemplate{
	{
		ID: "daily_post", Name: "Daily Vibe",
		Description: "Post 1 vibe today",
		Cadence:     models.CadenceDaily,
		CountKind:   models.ActionPostVibe, Target: 1,
		RewardXP: 30, RewardCoins: 20,
	},
	{
		ID: "daily_react_5", Name: "Spread the Love",
		Description: "React to 5 vibes today",
		Cadence:     models.CadenceDaily,
		CountKind:   models.ActionReact, Target: 5,
		RewardXP: 25, RewardCoins: 15,
	},
	{
		ID: "daily_comment_3", Name: "Join the Conversation",
		Description: "Comment on 3 vibes today",
		Cadence:     models.CadenceDaily,
		CountKind:   models.ActionComment, Target: 3,
		RewardXP: 30, RewardCoins: 20,
	},
	{
		ID: "weekly_post_7", Name: "Week of Vibes",
		Description: "Post 7 vibes this week",
		Cadence:     models.CadenceWeekly,
		CountKind:   models.ActionPostVibe, Target: 7,
		RewardXP: 200, RewardCoins: 150, RewardGems: 1,
	},
	{
		ID: "weekly_share_5", Name: "Signal Booster",
		Description: "Share 5 vibes this week",
		Cadence:     models.CadenceWeekly,
		CountKind:   models.ActionShare, Target: 5,
		RewardXP: 150, RewardCoins: 100,
	},
	{
		ID: "weekly_challenge_3", Name: "Challenge Week",
		Description: "Complete 3 challenges this week",
		Cadence:     models.CadenceWeekly,
		CountKind:   models.ActionChallengeComplete, Target: 3,
		RewardXP: 250, RewardCoins: 200, RewardGems: 2,
	},
}
