package services

import (
	"context"
	"math"

	"github.com/vytor/eartune/internal/errors"
	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/progression"
	"github.com/vytor/eartune/internal/repository"
)

// MaxLeaderboardSize caps leaderboard requests.
const MaxLeaderboardSize = 100

// ProfileService handles progression reads and daily check-ins
type ProfileService interface {
	GetSummary(ctx context.Context, userID int64) (*models.ProfileSummary, error)
	CheckIn(ctx context.Context, userID int64) (*models.ProfileSummary, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type profileService struct {
	profiles     repository.ProfileRepository
	achievements repository.AchievementRepository
	opts         options
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles repository.ProfileRepository, achievements repository.AchievementRepository, opts ...Option) ProfileService {
	return &profileService{
		profiles:     profiles,
		achievements: achievements,
		opts:         buildOptions(opts),
	}
}

func (s *profileService) GetSummary(ctx context.Context, userID int64) (*models.ProfileSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting profile summary: user_id=%d", userID)

	profile, err := s.profiles.GetOrCreate(ctx, userID, s.opts.now())
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.summarize(ctx, *profile)
}

// CheckIn records a visit for the streak without playing.
func (s *profileService) CheckIn(ctx context.Context, userID int64) (*models.ProfileSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("check-in: user_id=%d", userID)

	unlock := s.opts.locks.Lock(userID)
	defer unlock()

	now := s.opts.now()
	profile, err := s.profiles.GetOrCreate(ctx, userID, now)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	before := profile.CurrentStreak
	progression.UpdateStreak(profile, s.opts.today(now))
	profile.UpdatedAt = now

	if err := s.profiles.Update(ctx, *profile); err != nil {
		log.Error("failed to save check-in: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if profile.CurrentStreak != before {
		log.Info("streak for user %d is now %d", userID, profile.CurrentStreak)
	}
	return s.summarize(ctx, *profile)
}

func (s *profileService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > MaxLeaderboardSize {
		return nil, errors.NewValidationError("limit", "must be between 1 and 100")
	}
	entries, err := s.profiles.Top(ctx, limit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load leaderboard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

func (s *profileService) summarize(ctx context.Context, p models.UserProfile) (*models.ProfileSummary, error) {
	unlocked, err := s.achievements.ListUnlocked(ctx, p.UserID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count achievements: %v", err)
		return nil, errors.NewInternalError(err)
	}

	current, span := progression.Progress(p.XP)
	return &models.ProfileSummary{
		UserProfile:        p,
		CurrentXP:          current,
		XPForNextLevel:     span,
		Accuracy:           math.Round(progression.Accuracy(p)*100) / 100,
		AchievementsEarned: len(unlocked),
	}, nil
}
