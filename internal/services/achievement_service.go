package services

import (
	"context"

	"github.com/vytor/eartune/internal/errors"
	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/repository"
)

// AchievementService lists the catalog with a user's unlock state
type AchievementService interface {
	ListForUser(ctx context.Context, userID int64) ([]models.AchievementProgress, error)
}

type achievementService struct {
	repo repository.AchievementRepository
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(repo repository.AchievementRepository) AchievementService {
	return &achievementService{repo: repo}
}

func (s *achievementService) ListForUser(ctx context.Context, userID int64) ([]models.AchievementProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing achievements: user_id=%d", userID)

	catalog, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to list achievements: %v", err)
		return nil, errors.NewInternalError(err)
	}
	unlocks, err := s.repo.ListUnlocked(ctx, userID)
	if err != nil {
		log.Error("failed to list unlocks: %v", err)
		return nil, errors.NewInternalError(err)
	}

	byID := make(map[int64]models.UserAchievement, len(unlocks))
	for _, u := range unlocks {
		byID[u.AchievementID] = u
	}

	out := make([]models.AchievementProgress, 0, len(catalog))
	for _, a := range catalog {
		p := models.AchievementProgress{Achievement: a}
		if u, ok := byID[a.ID]; ok {
			at := u.UnlockedAt
			p.Unlocked = true
			p.UnlockedAt = &at
		}
		out = append(out, p)
	}
	return out, nil
}
