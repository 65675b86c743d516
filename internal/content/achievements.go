package content

import "github.com/vytor/eartune/internal/models"

// Achievements returns the built-in achievement catalog. IDs are stable so that
// unlock records survive reseeding.
func Achievements() []models.Achievement {
	return []models.Achievement{
		// Beginner
		{ID: 1, Name: "First Steps", Description: "Complete your first game", Icon: "🎵", CriteriaType: models.CriteriaGamesPlayed, CriteriaValue: 1, XPReward: 50},
		{ID: 2, Name: "Quick Learner", Description: "Complete 5 games", Icon: "📚", CriteriaType: models.CriteriaGamesPlayed, CriteriaValue: 5, XPReward: 75},
		{ID: 3, Name: "Getting Started", Description: "Reach level 3", Icon: "⭐", CriteriaType: models.CriteriaLevel, CriteriaValue: 3, XPReward: 100},
		{ID: 4, Name: "Sharp Ear", Description: "Reach 90% overall accuracy", Icon: "👂", CriteriaType: models.CriteriaAccuracy, CriteriaValue: 90, XPReward: 100},
		{ID: 5, Name: "Hat Trick", Description: "Play 3 days in a row", Icon: "🔥", CriteriaType: models.CriteriaStreak, CriteriaValue: 3, XPReward: 75},

		// Intermediate
		{ID: 6, Name: "Rising Star", Description: "Reach level 10", Icon: "🌟", CriteriaType: models.CriteriaLevel, CriteriaValue: 10, XPReward: 150},
		{ID: 7, Name: "Dedicated", Description: "Complete 50 games", Icon: "💪", CriteriaType: models.CriteriaGamesPlayed, CriteriaValue: 50, XPReward: 150},
		{ID: 8, Name: "Week Warrior", Description: "Play 7 days in a row", Icon: "🔥", CriteriaType: models.CriteriaStreak, CriteriaValue: 7, XPReward: 125},
		{ID: 9, Name: "Perfectionist", Description: "Keep a perfect overall accuracy", Icon: "💯", CriteriaType: models.CriteriaAccuracy, CriteriaValue: 100, XPReward: 150},
		{ID: 10, Name: "Speed Demon", Description: "Complete 10 games", Icon: "🏃", CriteriaType: models.CriteriaGamesPlayed, CriteriaValue: 10, XPReward: 125},

		// Advanced
		{ID: 11, Name: "Master", Description: "Reach level 25", Icon: "👑", CriteriaType: models.CriteriaLevel, CriteriaValue: 25, XPReward: 200},
		{ID: 12, Name: "Centurion", Description: "Complete 100 games", Icon: "🎖", CriteriaType: models.CriteriaGamesPlayed, CriteriaValue: 100, XPReward: 200},
		{ID: 13, Name: "Inferno", Description: "Play 30 days in a row", Icon: "🔥", CriteriaType: models.CriteriaStreak, CriteriaValue: 30, XPReward: 200},
		{ID: 14, Name: "Legendary", Description: "Reach level 50", Icon: "💎", CriteriaType: models.CriteriaLevel, CriteriaValue: 50, XPReward: 250},
		{ID: 15, Name: "Perfect Ten", Description: "Score 100 in 10 sessions", Icon: "🎯", CriteriaType: models.CriteriaPerfectScores, CriteriaValue: 10, XPReward: 250},
	}
}
