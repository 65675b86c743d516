package jobs

import (
	"context"
	"time"

	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/metrics"
	"github.com/vytor/eartune/internal/progression"
	"github.com/vytor/eartune/internal/repository"
)

// UserLocker serialises writes to one user's profile.
type UserLocker interface {
	Lock(userID int64) func()
}

// StreakSweepJob zeroes the current streak of every profile that was not
// active today or yesterday. Longest streaks are kept. Each reset holds the
// user's lock, the same one submissions and check-ins take.
type StreakSweepJob struct {
	Profiles repository.ProfileRepository
	Locks    UserLocker
	Location *time.Location
	Now      func() time.Time
}

func (j *StreakSweepJob) Name() string { return "streak_sweep" }

func (j *StreakSweepJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	if j.Now != nil {
		now = j.Now()
	}
	loc := j.Location
	if loc == nil {
		loc = time.UTC
	}

	cutoff := progression.Yesterday(progression.DateOf(now.In(loc)))
	userIDs, err := j.Profiles.LapsedStreaks(ctx, cutoff)
	if err != nil {
		return err
	}

	var n int64
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		changed, err := j.reset(ctx, userID, cutoff, now)
		if err != nil {
			return err
		}
		if changed {
			n++
		}
	}

	metrics.RecordStreaksReset(n)
	log.Info("reset %d lapsed streaks (last activity before %s)", n, cutoff.Format(time.DateOnly))
	return nil
}

func (j *StreakSweepJob) reset(ctx context.Context, userID int64, cutoff, now time.Time) (bool, error) {
	if j.Locks != nil {
		unlock := j.Locks.Lock(userID)
		defer unlock()
	}
	return j.Profiles.ResetStreak(ctx, userID, cutoff, now)
}
