package models

import "time"

// GameSession is either a summary session (a user's run against one challenge)
// or, when IsAttempt is set, the immutable record of a single try that points
// back at its parent by id.
type GameSession struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	ChallengeID     int64      `json:"challenge_id"`
	Score           int        `json:"score"`
	AttemptsLeft    int        `json:"attempts_left"`
	Active          bool       `json:"active"`
	IsAttempt       bool       `json:"is_attempt"`
	ParentSessionID *int64     `json:"parent_session_id,omitempty"`
	Correct         bool       `json:"correct"`
	Accuracy        *float64   `json:"accuracy,omitempty"`
	Answer          string     `json:"answer,omitempty"`
	DatePlayed      time.Time  `json:"date_played"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
}

// SessionWithAttempts is a summary session together with its attempt records.
type SessionWithAttempts struct {
	GameSession
	Attempts []GameSession `json:"attempts"`
}
