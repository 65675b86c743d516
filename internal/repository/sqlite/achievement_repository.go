package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/repository"
)

type achievementRepository struct {
	db *sql.DB
}

// NewAchievementRepository creates a new AchievementRepository implementation
func NewAchievementRepository(db *sql.DB) repository.AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) List(ctx context.Context) ([]models.Achievement, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")
	log.Debug("listing achievements")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description, icon, criteria_type, criteria_value, xp_reward
FROM achievements
ORDER BY id ASC
`)
	if err != nil {
		log.Error("failed to list achievements: %v", err)
		return nil, err
	}
	defer rows.Close()

	achievements := []models.Achievement{}
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.CriteriaType, &a.CriteriaValue, &a.XPReward); err != nil {
			log.Error("failed to scan achievement row: %v", err)
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func (r *achievementRepository) Upsert(ctx context.Context, a models.Achievement) error {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")
	log.Debug("upserting achievement: id=%d, name=%s", a.ID, a.Name)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO achievements (id, name, description, icon, criteria_type, criteria_value, xp_reward)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    description = excluded.description,
    icon = excluded.icon,
    criteria_type = excluded.criteria_type,
    criteria_value = excluded.criteria_value,
    xp_reward = excluded.xp_reward
`, a.ID, a.Name, a.Description, a.Icon, a.CriteriaType, a.CriteriaValue, a.XPReward)
	if err != nil {
		log.Error("failed to upsert achievement %d: %v", a.ID, err)
	}
	return err
}

func (r *achievementRepository) UnlockedIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	unlocks, err := r.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]bool, len(unlocks))
	for _, u := range unlocks {
		ids[u.AchievementID] = true
	}
	return ids, nil
}

func (r *achievementRepository) ListUnlocked(ctx context.Context, userID int64) ([]models.UserAchievement, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")
	log.Debug("listing unlocked achievements: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, achievement_id, unlocked_at
FROM user_achievements
WHERE user_id = ?
ORDER BY unlocked_at ASC, achievement_id ASC
`, userID)
	if err != nil {
		log.Error("failed to list unlocked achievements: %v", err)
		return nil, err
	}
	defer rows.Close()

	unlocks := []models.UserAchievement{}
	for rows.Next() {
		var u models.UserAchievement
		if err := rows.Scan(&u.UserID, &u.AchievementID, &u.UnlockedAt); err != nil {
			log.Error("failed to scan unlock row: %v", err)
			return nil, err
		}
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}
