package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/eartune/internal/repository"
)

// MockSubmissionRepository is a mock implementation of repository.SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Save(ctx context.Context, record repository.SubmissionRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}
