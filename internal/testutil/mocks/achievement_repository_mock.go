package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/eartune/internal/models"
)

// MockAchievementRepository is a mock implementation of repository.AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) List(ctx context.Context) ([]models.Achievement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) Upsert(ctx context.Context, achievement models.Achievement) error {
	args := m.Called(ctx, achievement)
	return args.Error(0)
}

func (m *MockAchievementRepository) UnlockedIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockAchievementRepository) ListUnlocked(ctx context.Context, userID int64) ([]models.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserAchievement), args.Error(1)
}
