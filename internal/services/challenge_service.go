package services

import (
	"context"

	"github.com/vytor/eartune/internal/content"
	"github.com/vytor/eartune/internal/errors"
	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/repository"
)

// ChallengeService handles read access to challenge content
type ChallengeService interface {
	Get(ctx context.Context, id int64) (*models.Challenge, error)
	List(ctx context.Context, filter models.ChallengeFilter) ([]models.Challenge, int, error)
	Random(ctx context.Context, filter models.ChallengeFilter) (*models.Challenge, error)
	FrequencyBands() []models.FrequencyBand
}

type challengeService struct {
	repo repository.ChallengeRepository
}

// NewChallengeService creates a new ChallengeService
func NewChallengeService(repo repository.ChallengeRepository) ChallengeService {
	return &challengeService{repo: repo}
}

func validateFilter(filter models.ChallengeFilter) error {
	switch filter.Kind {
	case "", models.KindNote, models.KindEQ, models.KindRhythm:
	default:
		return errors.NewValidationError("kind", "must be 'note', 'eq' or 'rhythm'")
	}
	switch filter.Difficulty {
	case "", models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
	default:
		return errors.NewValidationError("difficulty", "must be 'beginner', 'intermediate' or 'advanced'")
	}
	return nil
}

func (s *challengeService) Get(ctx context.Context, id int64) (*models.Challenge, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get challenge: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("challenge", id)
	}
	return c, nil
}

func (s *challengeService) List(ctx context.Context, filter models.ChallengeFilter) ([]models.Challenge, int, error) {
	log := logger.FromContext(ctx)
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}

	challenges, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list challenges: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count challenges: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return challenges, total, nil
}

func (s *challengeService) Random(ctx context.Context, filter models.ChallengeFilter) (*models.Challenge, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	c, err := s.repo.Random(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Error("failed to pick challenge: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("challenge", filter.Kind+"/"+filter.Difficulty)
	}
	return c, nil
}

func (s *challengeService) FrequencyBands() []models.FrequencyBand {
	return content.FrequencyBands()
}
