package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, userID int64) (*models.UserProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: user_id=%d", userID)

	var p models.UserProfile
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, xp, level, total_games_played, total_correct_answers, current_streak, longest_streak,
       last_activity_date, created_at, updated_at
FROM user_profiles
WHERE user_id = ?
`, userID).Scan(&p.UserID, &p.XP, &p.Level, &p.TotalGamesPlayed, &p.TotalCorrectAnswers, &p.CurrentStreak,
		&p.LongestStreak, &p.LastActivityDate, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("profile not found: user_id=%d", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID int64, now time.Time) (*models.UserProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	res, err := r.db.ExecContext(ctx, `
INSERT INTO user_profiles (user_id, xp, level, created_at, updated_at)
VALUES (?, 0, 1, ?, ?)
ON CONFLICT(user_id) DO NOTHING
`, userID, now, now)
	if err != nil {
		log.Error("failed to create profile: %v", err)
		return nil, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info("created profile for user %d", userID)
	}
	return r.Get(ctx, userID)
}

func (r *profileRepository) Update(ctx context.Context, p models.UserProfile) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating profile: user_id=%d, xp=%d, level=%d", p.UserID, p.XP, p.Level)

	if err := updateProfile(ctx, r.db, p); err != nil {
		log.Error("failed to update profile %d: %v", p.UserID, err)
		return err
	}
	return nil
}

func (r *profileRepository) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("loading leaderboard: limit=%d", limit)

	l, _ := pageBounds(limit, 0, 10)
	query, args, err := sqlBuilder.Select("user_id", "xp", "level").
		From("user_profiles").
		OrderBy("xp DESC", "user_id ASC").
		Limit(l).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		e := models.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&e.UserID, &e.XP, &e.Level); err != nil {
			log.Error("failed to scan leaderboard row: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *profileRepository) LapsedStreaks(ctx context.Context, cutoff time.Time) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing streaks with last activity before %s", cutoff.Format(time.DateOnly))

	query, args, err := sqlBuilder.Select("user_id").
		From("user_profiles").
		Where(squirrel.Gt{"current_streak": 0}).
		Where(squirrel.Or{
			squirrel.Eq{"last_activity_date": nil},
			squirrel.Lt{"last_activity_date": cutoff},
		}).
		OrderBy("user_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list lapsed streaks: %v", err)
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan lapsed streak row: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *profileRepository) ResetStreak(ctx context.Context, userID int64, cutoff, now time.Time) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	// The lapse check is repeated so activity recorded since LapsedStreaks wins.
	res, err := r.db.ExecContext(ctx, `
UPDATE user_profiles
SET current_streak = 0, updated_at = ?
WHERE user_id = ?
  AND current_streak > 0
  AND (last_activity_date IS NULL OR last_activity_date < ?)
`, now, userID, cutoff)
	if err != nil {
		log.Error("failed to reset streak for user %d: %v", userID, err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func updateProfile(ctx context.Context, db execer, p models.UserProfile) error {
	res, err := db.ExecContext(ctx, `
UPDATE user_profiles
SET xp = ?, level = ?, total_games_played = ?, total_correct_answers = ?, current_streak = ?,
    longest_streak = ?, last_activity_date = ?, updated_at = ?
WHERE user_id = ?
`, p.XP, p.Level, p.TotalGamesPlayed, p.TotalCorrectAnswers, p.CurrentStreak,
		p.LongestStreak, p.LastActivityDate, p.UpdatedAt, p.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
