package models

// SubmissionResult is returned to the caller after one submission.
type SubmissionResult struct {
	SessionID            int64                `json:"session_id"`
	Correct              bool                 `json:"correct"`
	Result               string               `json:"result"`
	Score                int                  `json:"score"`
	AttemptsLeft         int                  `json:"attempts_left"`
	Active               bool                 `json:"active"`
	XPEarned             int                  `json:"xp_earned"`
	LevelUp              bool                 `json:"level_up"`
	NewLevel             int                  `json:"new_level"`
	UnlockedAchievements []AchievementSummary `json:"unlocked_achievements"`
	Accuracy             *float64             `json:"accuracy,omitempty"`
	Feedback             string               `json:"feedback,omitempty"`
	CorrectTaps          *int                 `json:"correct_taps,omitempty"`
	TotalExpected        *int                 `json:"total_expected,omitempty"`
	CorrectAnswer        string               `json:"correct_answer,omitempty"`
}
