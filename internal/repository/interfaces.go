package repository

import (
	"context"
	"time"

	"github.com/vytor/eartune/internal/models"
)

// Get methods return (nil, nil) when the row does not exist.

// ChallengeRepository handles challenge content access
type ChallengeRepository interface {
	Get(ctx context.Context, id int64) (*models.Challenge, error)
	List(ctx context.Context, filter models.ChallengeFilter) ([]models.Challenge, error)
	Count(ctx context.Context, filter models.ChallengeFilter) (int, error)
	Random(ctx context.Context, filter models.ChallengeFilter) (*models.Challenge, error)
	// Upsert inserts or updates by slug and returns the row id.
	Upsert(ctx context.Context, challenge models.Challenge) (int64, error)
}

// SessionRepository handles game session and attempt record access
type SessionRepository interface {
	Get(ctx context.Context, id int64) (*models.GameSession, error)
	FindActive(ctx context.Context, userID, challengeID int64) (*models.GameSession, error)
	Insert(ctx context.Context, session models.GameSession) (int64, error)
	Update(ctx context.Context, session models.GameSession) error
	// ListByUser returns summary sessions, newest first.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.GameSession, error)
	Attempts(ctx context.Context, parentID int64) ([]models.GameSession, error)
	// CountPerfect counts the user's summary sessions scoring exactly 100,
	// leaving out excludeID.
	CountPerfect(ctx context.Context, userID, excludeID int64) (int, error)
}

// ProfileRepository handles user progression access
type ProfileRepository interface {
	Get(ctx context.Context, userID int64) (*models.UserProfile, error)
	GetOrCreate(ctx context.Context, userID int64, now time.Time) (*models.UserProfile, error)
	Update(ctx context.Context, profile models.UserProfile) error
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	// LapsedStreaks lists users with a positive current streak whose last
	// activity is before cutoff.
	LapsedStreaks(ctx context.Context, cutoff time.Time) ([]int64, error)
	// ResetStreak zeroes the user's current streak only if it is still lapsed
	// at cutoff, and reports whether the row changed.
	ResetStreak(ctx context.Context, userID int64, cutoff, now time.Time) (bool, error)
}

// AchievementRepository handles the achievement catalog and unlock records
type AchievementRepository interface {
	List(ctx context.Context) ([]models.Achievement, error)
	Upsert(ctx context.Context, achievement models.Achievement) error
	UnlockedIDs(ctx context.Context, userID int64) (map[int64]bool, error)
	ListUnlocked(ctx context.Context, userID int64) ([]models.UserAchievement, error)
}

// SubmissionRecord is everything one judged submission changed.
type SubmissionRecord struct {
	Session models.GameSession
	Attempt models.GameSession
	Profile models.UserProfile
	Unlocks []models.UserAchievement
}

// SubmissionRepository persists a judged submission atomically
type SubmissionRepository interface {
	// Save writes the session, attempt, profile and unlocks in one transaction
	// and returns the attempt id.
	Save(ctx context.Context, record SubmissionRecord) (int64, error)
}
