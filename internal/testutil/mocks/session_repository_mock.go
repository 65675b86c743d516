package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/eartune/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, id int64) (*models.GameSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSession), args.Error(1)
}

func (m *MockSessionRepository) FindActive(ctx context.Context, userID, challengeID int64) (*models.GameSession, error) {
	args := m.Called(ctx, userID, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSession), args.Error(1)
}

func (m *MockSessionRepository) Insert(ctx context.Context, session models.GameSession) (int64, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session models.GameSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.GameSession, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameSession), args.Error(1)
}

func (m *MockSessionRepository) Attempts(ctx context.Context, parentID int64) ([]models.GameSession, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameSession), args.Error(1)
}

func (m *MockSessionRepository) CountPerfect(ctx context.Context, userID, excludeID int64) (int, error) {
	args := m.Called(ctx, userID, excludeID)
	return args.Int(0), args.Error(1)
}
