package models

import "time"

// UserProfile holds a user's progression. Level always equals the level
// derived from XP.
type UserProfile struct {
	UserID              int64      `json:"user_id"`
	XP                  int        `json:"xp"`
	Level               int        `json:"level"`
	TotalGamesPlayed    int        `json:"total_games_played"`
	TotalCorrectAnswers int        `json:"total_correct_answers"`
	CurrentStreak       int        `json:"current_streak"`
	LongestStreak       int        `json:"longest_streak"`
	LastActivityDate    *time.Time `json:"last_activity_date"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ProfileSummary is the profile as rendered on the profile page and XP bar.
type ProfileSummary struct {
	UserProfile
	CurrentXP          int     `json:"current_xp"`
	XPForNextLevel     int     `json:"xp_for_next_level"`
	Accuracy           float64 `json:"accuracy"`
	AchievementsEarned int     `json:"achievements_earned"`
}

type LeaderboardEntry struct {
	Rank   int   `json:"rank"`
	UserID int64 `json:"user_id"`
	XP     int   `json:"xp"`
	Level  int   `json:"level"`
}
