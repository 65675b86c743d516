package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/repository"
)

var sessionColumns = []string{
	"id", "user_id", "challenge_id", "score", "attempts_left", "active", "is_attempt",
	"parent_session_id", "correct", "accuracy", "answer", "date_played", "ended_at",
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func scanSession(row rowScanner) (*models.GameSession, error) {
	var s models.GameSession
	if err := row.Scan(&s.ID, &s.UserID, &s.ChallengeID, &s.Score, &s.AttemptsLeft, &s.Active, &s.IsAttempt,
		&s.ParentSessionID, &s.Correct, &s.Accuracy, &s.Answer, &s.DatePlayed, &s.EndedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) querySessions(ctx context.Context, q squirrel.SelectBuilder) ([]models.GameSession, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.GameSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *sessionRepository) getOne(ctx context.Context, q squirrel.SelectBuilder) (*models.GameSession, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.GameSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%d", id)

	s, err := r.getOne(ctx, sqlBuilder.Select(sessionColumns...).From("game_sessions").Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	if s == nil {
		log.Debug("session not found: id=%d", id)
	}
	return s, nil
}

func (r *sessionRepository) FindActive(ctx context.Context, userID, challengeID int64) (*models.GameSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("finding active session: user_id=%d, challenge_id=%d", userID, challengeID)

	s, err := r.getOne(ctx, sqlBuilder.Select(sessionColumns...).
		From("game_sessions").
		Where(squirrel.Eq{"user_id": userID, "challenge_id": challengeID, "active": true, "is_attempt": false}).
		OrderBy("id DESC"))
	if err != nil {
		log.Error("failed to find active session: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) Insert(ctx context.Context, s models.GameSession) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: user_id=%d, challenge_id=%d, attempt=%t", s.UserID, s.ChallengeID, s.IsAttempt)

	id, err := insertSession(ctx, r.db, s)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return 0, err
	}
	log.Debug("session inserted: id=%d", id)
	return id, nil
}

func (r *sessionRepository) Update(ctx context.Context, s models.GameSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating session: id=%d, score=%d, attempts_left=%d, active=%t", s.ID, s.Score, s.AttemptsLeft, s.Active)

	if err := updateSession(ctx, r.db, s); err != nil {
		log.Error("failed to update session %d: %v", s.ID, err)
		return err
	}
	return nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.GameSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: user_id=%d, limit=%d, offset=%d", userID, limit, offset)

	l, o := pageBounds(limit, offset, 50)
	sessions, err := r.querySessions(ctx, sqlBuilder.Select(sessionColumns...).
		From("game_sessions").
		Where(squirrel.Eq{"user_id": userID, "is_attempt": false}).
		OrderBy("date_played DESC", "id DESC").
		Limit(l).
		Offset(o))
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, nil
}

func (r *sessionRepository) Attempts(ctx context.Context, parentID int64) ([]models.GameSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing attempts: parent_session_id=%d", parentID)

	attempts, err := r.querySessions(ctx, sqlBuilder.Select(sessionColumns...).
		From("game_sessions").
		Where(squirrel.Eq{"parent_session_id": parentID, "is_attempt": true}).
		OrderBy("id ASC"))
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	return attempts, nil
}

func (r *sessionRepository) CountPerfect(ctx context.Context, userID, excludeID int64) (int, error) {
	query, args, err := sqlBuilder.Select("COUNT(*)").
		From("game_sessions").
		Where(squirrel.Eq{"user_id": userID, "is_attempt": false, "score": 100}).
		Where(squirrel.NotEq{"id": excludeID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.FromContext(ctx).WithPrefix("session_repo").Error("failed to count perfect sessions: %v", err)
		return 0, err
	}
	return count, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSession(ctx context.Context, db execer, s models.GameSession) (int64, error) {
	res, err := db.ExecContext(ctx, `
INSERT INTO game_sessions (user_id, challenge_id, score, attempts_left, active, is_attempt, parent_session_id, correct, accuracy, answer, date_played, ended_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.UserID, s.ChallengeID, s.Score, s.AttemptsLeft, s.Active, s.IsAttempt, s.ParentSessionID, s.Correct, s.Accuracy, s.Answer, s.DatePlayed, s.EndedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func updateSession(ctx context.Context, db execer, s models.GameSession) error {
	res, err := db.ExecContext(ctx, `
UPDATE game_sessions
SET score = ?, attempts_left = ?, active = ?, ended_at = ?
WHERE id = ? AND is_attempt = 0
`, s.Score, s.AttemptsLeft, s.Active, s.EndedAt, s.ID)
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
