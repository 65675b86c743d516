package models

import "time"

// Achievement criteria types.
const (
	CriteriaGamesPlayed   = "games_played"
	CriteriaStreak        = "streak"
	CriteriaLevel         = "level"
	CriteriaAccuracy      = "accuracy"
	CriteriaPerfectScores = "perfect_scores"
)

type Achievement struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	CriteriaType  string `json:"criteria_type"`
	CriteriaValue int    `json:"criteria_value"`
	XPReward      int    `json:"xp_reward"`
}

// UserAchievement is an append-only unlock record, unique per user and achievement.
type UserAchievement struct {
	UserID        int64     `json:"user_id"`
	AchievementID int64     `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

type AchievementSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XPReward    int    `json:"xp_reward"`
}

// Summary returns the fields reported to a user when the achievement unlocks.
func (a Achievement) Summary() AchievementSummary {
	return AchievementSummary{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Icon:        a.Icon,
		XPReward:    a.XPReward,
	}
}

type AchievementProgress struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
