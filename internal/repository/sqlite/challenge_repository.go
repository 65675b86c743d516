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

var challengeColumns = []string{
	"id", "slug", "kind", "prompt", "correct_answer", "correct_pattern", "difficulty",
	"frequency_band", "change_amount", "source_audio", "tempo", "audio_file", "created_at",
}

type challengeRepository struct {
	db *sql.DB
}

// NewChallengeRepository creates a new ChallengeRepository implementation
func NewChallengeRepository(db *sql.DB) repository.ChallengeRepository {
	return &challengeRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(row rowScanner) (*models.Challenge, error) {
	var c models.Challenge
	var pattern string
	if err := row.Scan(&c.ID, &c.Slug, &c.Kind, &c.Prompt, &c.CorrectAnswer, &pattern, &c.Difficulty,
		&c.FrequencyBand, &c.ChangeAmount, &c.SourceAudio, &c.Tempo, &c.AudioFile, &c.CreatedAt); err != nil {
		return nil, err
	}
	p, err := decodePattern(pattern)
	if err != nil {
		return nil, err
	}
	c.CorrectPattern = p
	return &c, nil
}

func applyChallengeFilter(q squirrel.SelectBuilder, filter models.ChallengeFilter) squirrel.SelectBuilder {
	if filter.Kind != "" {
		q = q.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if filter.Difficulty != "" {
		q = q.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	return q
}

func (r *challengeRepository) Get(ctx context.Context, id int64) (*models.Challenge, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("getting challenge: id=%d", id)

	query, args, err := sqlBuilder.Select(challengeColumns...).From("challenges").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanChallenge(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("challenge not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get challenge: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *challengeRepository) List(ctx context.Context, filter models.ChallengeFilter) ([]models.Challenge, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("listing challenges: kind=%s, difficulty=%s", filter.Kind, filter.Difficulty)

	limit, offset := pageBounds(filter.Limit, filter.Offset, 100)
	query, args, err := applyChallengeFilter(sqlBuilder.Select(challengeColumns...).From("challenges"), filter).
		OrderBy("id ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list challenges: %v", err)
		return nil, err
	}
	defer rows.Close()

	challenges := []models.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			log.Error("failed to scan challenge row: %v", err)
			return nil, err
		}
		challenges = append(challenges, *c)
	}
	log.Debug("found %d challenges", len(challenges))
	return challenges, rows.Err()
}

func (r *challengeRepository) Count(ctx context.Context, filter models.ChallengeFilter) (int, error) {
	query, args, err := applyChallengeFilter(sqlBuilder.Select("COUNT(*)").From("challenges"), filter).ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.FromContext(ctx).WithPrefix("challenge_repo").Error("failed to count challenges: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *challengeRepository) Random(ctx context.Context, filter models.ChallengeFilter) (*models.Challenge, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("picking random challenge: kind=%s, difficulty=%s", filter.Kind, filter.Difficulty)

	query, args, err := applyChallengeFilter(sqlBuilder.Select(challengeColumns...).From("challenges"), filter).
		OrderBy("RANDOM()").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanChallenge(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no challenge matches filter")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to pick random challenge: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *challengeRepository) Upsert(ctx context.Context, c models.Challenge) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("upserting challenge: slug=%s", c.Slug)

	pattern, err := encodePattern(c.CorrectPattern)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.QueryRowContext(ctx, `
INSERT INTO challenges (slug, kind, prompt, correct_answer, correct_pattern, difficulty, frequency_band, change_amount, source_audio, tempo, audio_file)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET
    kind = excluded.kind,
    prompt = excluded.prompt,
    correct_answer = excluded.correct_answer,
    correct_pattern = excluded.correct_pattern,
    difficulty = excluded.difficulty,
    frequency_band = excluded.frequency_band,
    change_amount = excluded.change_amount,
    source_audio = excluded.source_audio,
    tempo = excluded.tempo,
    audio_file = excluded.audio_file
RETURNING id
`, c.Slug, c.Kind, c.Prompt, c.CorrectAnswer, pattern, c.Difficulty, c.FrequencyBand, c.ChangeAmount, c.SourceAudio, c.Tempo, c.AudioFile).Scan(&id)
	if err != nil {
		log.Error("failed to upsert challenge %s: %v", c.Slug, err)
		return 0, err
	}
	return id, nil
}
