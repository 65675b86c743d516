package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/repository"
)

type submissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new SubmissionRepository implementation
func NewSubmissionRepository(db *sql.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Save(ctx context.Context, rec repository.SubmissionRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")
	log.Debug("saving submission: session_id=%d, user_id=%d, unlocks=%d", rec.Session.ID, rec.Profile.UserID, len(rec.Unlocks))

	var attemptID int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := updateSession(ctx, tx, rec.Session); err != nil {
			return fmt.Errorf("update session %d: %w", rec.Session.ID, err)
		}

		id, err := insertSession(ctx, tx, rec.Attempt)
		if err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		attemptID = id

		if err := updateProfile(ctx, tx, rec.Profile); err != nil {
			return fmt.Errorf("update profile %d: %w", rec.Profile.UserID, err)
		}

		for _, u := range rec.Unlocks {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id, achievement_id) DO NOTHING
`, u.UserID, u.AchievementID, u.UnlockedAt); err != nil {
				return fmt.Errorf("insert unlock %d: %w", u.AchievementID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save submission: %v", err)
		return 0, err
	}
	log.Debug("submission saved: attempt_id=%d", attemptID)
	return attemptID, nil
}
