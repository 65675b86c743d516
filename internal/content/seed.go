package content

import (
	"context"
	"fmt"

	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/repository"
)

type SeedStats struct {
	Achievements int
	Challenges   int
}

// Seed upserts the built-in catalogs. Running it again leaves the data unchanged.
func Seed(ctx context.Context, challenges repository.ChallengeRepository, achievements repository.AchievementRepository) (SeedStats, error) {
	log := logger.FromContext(ctx).WithPrefix("seed")
	var stats SeedStats

	for _, a := range Achievements() {
		if err := achievements.Upsert(ctx, a); err != nil {
			return stats, fmt.Errorf("seed achievement %q: %w", a.Name, err)
		}
		stats.Achievements++
	}

	for _, c := range Challenges() {
		if _, err := challenges.Upsert(ctx, c); err != nil {
			return stats, fmt.Errorf("seed challenge %s: %w", c.Slug, err)
		}
		stats.Challenges++
	}

	log.Info("seeded %d achievements and %d challenges", stats.Achievements, stats.Challenges)
	return stats, nil
}
