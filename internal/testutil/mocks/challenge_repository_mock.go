package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/eartune/internal/models"
)

// MockChallengeRepository is a mock implementation of repository.ChallengeRepository
type MockChallengeRepository struct {
	mock.Mock
}

func (m *MockChallengeRepository) Get(ctx context.Context, id int64) (*models.Challenge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) List(ctx context.Context, filter models.ChallengeFilter) ([]models.Challenge, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) Count(ctx context.Context, filter models.ChallengeFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockChallengeRepository) Random(ctx context.Context, filter models.ChallengeFilter) (*models.Challenge, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) Upsert(ctx context.Context, challenge models.Challenge) (int64, error) {
	args := m.Called(ctx, challenge)
	return args.Get(0).(int64), args.Error(1)
}
