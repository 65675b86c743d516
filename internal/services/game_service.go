package services

import (
	"context"
	"time"

	"github.com/vytor/eartune/internal/errors"
	"github.com/vytor/eartune/internal/game"
	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/metrics"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/repository"
	"github.com/vytor/eartune/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GameService handles session lifecycle and answer submission
type GameService interface {
	StartSession(ctx context.Context, userID, challengeID int64) (*models.GameSession, error)
	Submit(ctx context.Context, userID, sessionID int64, sub game.Submission) (*models.SubmissionResult, error)
	GetSession(ctx context.Context, userID, sessionID int64) (*models.SessionWithAttempts, error)
	ListSessions(ctx context.Context, userID int64, limit, offset int) ([]models.GameSession, error)
	EndSession(ctx context.Context, userID, sessionID int64) (*models.GameSession, error)
}

type gameService struct {
	engine       *game.Engine
	challenges   repository.ChallengeRepository
	sessions     repository.SessionRepository
	profiles     repository.ProfileRepository
	achievements repository.AchievementRepository
	submissions  repository.SubmissionRepository
	opts         options
}

// NewGameService creates a new GameService
func NewGameService(
	engine *game.Engine,
	challenges repository.ChallengeRepository,
	sessions repository.SessionRepository,
	profiles repository.ProfileRepository,
	achievements repository.AchievementRepository,
	submissions repository.SubmissionRepository,
	opts ...Option,
) GameService {
	return &gameService{
		engine:       engine,
		challenges:   challenges,
		sessions:     sessions,
		profiles:     profiles,
		achievements: achievements,
		submissions:  submissions,
		opts:         buildOptions(opts),
	}
}

func (s *gameService) StartSession(ctx context.Context, userID, challengeID int64) (*models.GameSession, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: user_id=%d, challenge_id=%d", userID, challengeID)

	unlock := s.opts.locks.Lock(userID)
	defer unlock()

	challenge, err := s.challenges.Get(ctx, challengeID)
	if err != nil {
		log.Error("failed to get challenge: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if challenge == nil {
		return nil, errors.NewNotFoundError("challenge", challengeID)
	}

	active, err := s.sessions.FindActive(ctx, userID, challengeID)
	if err != nil {
		log.Error("failed to look up active session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if active != nil {
		log.Debug("resuming active session: id=%d", active.ID)
		metrics.RecordSessionEvent("resumed")
		return active, nil
	}

	now := s.opts.now()
	if _, err := s.profiles.GetOrCreate(ctx, userID, now); err != nil {
		log.Error("failed to ensure profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	session := s.engine.NewSession(userID, challengeID, now)
	id, err := s.sessions.Insert(ctx, session)
	if err != nil {
		log.Error("failed to create session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	session.ID = id

	metrics.RecordSessionEvent("started")
	log.Info("session started: id=%d, user_id=%d, kind=%s", id, userID, challenge.Kind)
	return &session, nil
}

func (s *gameService) Submit(ctx context.Context, userID, sessionID int64, sub game.Submission) (*models.SubmissionResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "GameService.Submit", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("session.id", sessionID),
	))
	defer span.End()

	log := logger.FromContext(ctx).WithFields(map[string]any{"user_id": userID, "session_id": sessionID})
	log.Debug("submission received")
	start := time.Now()

	unlock := s.opts.locks.Lock(userID)
	defer unlock()

	result, kind, err := s.submit(ctx, log, userID, sessionID, sub)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errors.Code(err))
		if code := errors.Code(err); code != "" && code != errors.ErrCodeInternal {
			metrics.RecordRejectedSubmission(kind, code)
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.String("challenge.kind", kind),
		attribute.Bool("submission.correct", result.Correct),
	)
	metrics.RecordSubmission(kind, result.Correct, time.Since(start))
	return result, nil
}

func (s *gameService) submit(ctx context.Context, log *logger.Logger, userID, sessionID int64, sub game.Submission) (*models.SubmissionResult, string, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, "", err
	}

	challenge, err := s.challenges.Get(ctx, session.ChallengeID)
	if err != nil {
		log.Error("failed to get challenge: %v", err)
		return nil, "", errors.NewInternalError(err)
	}
	if challenge == nil {
		return nil, "", errors.NewNotFoundError("challenge", session.ChallengeID)
	}

	now := s.opts.now()
	profile, err := s.profiles.GetOrCreate(ctx, userID, now)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, challenge.Kind, errors.NewInternalError(err)
	}
	unlocked, err := s.achievements.UnlockedIDs(ctx, userID)
	if err != nil {
		log.Error("failed to load unlocked achievements: %v", err)
		return nil, challenge.Kind, errors.NewInternalError(err)
	}
	catalog, err := s.achievements.List(ctx)
	if err != nil {
		log.Error("failed to load achievements: %v", err)
		return nil, challenge.Kind, errors.NewInternalError(err)
	}
	perfect, err := s.sessions.CountPerfect(ctx, userID, session.ID)
	if err != nil {
		log.Error("failed to count perfect sessions: %v", err)
		return nil, challenge.Kind, errors.NewInternalError(err)
	}

	out, err := s.engine.Submit(game.Input{
		Challenge:     *challenge,
		Session:       session,
		Profile:       profile,
		Unlocked:      unlocked,
		Achievements:  catalog,
		PerfectScores: perfect,
		Today:         s.opts.today(now),
		Now:           now,
		Submission:    sub,
	})
	if err != nil {
		if errors.Is(err, errors.ErrCodeAttemptsExhausted) {
			// The engine closed the session; keep the store in step.
			if uerr := s.sessions.Update(ctx, *session); uerr != nil {
				log.Error("failed to close exhausted session: %v", uerr)
				return nil, challenge.Kind, errors.NewInternalError(uerr)
			}
			metrics.RecordSessionEvent("exhausted")
		}
		log.Debug("submission rejected: %v", err)
		return nil, challenge.Kind, err
	}

	records := make([]models.UserAchievement, 0, len(out.Unlocks))
	names := make([]string, 0, len(out.Unlocks))
	for _, u := range out.Unlocks {
		records = append(records, u.Record)
		names = append(names, u.Summary.Name)
	}

	attemptID, err := s.submissions.Save(ctx, repository.SubmissionRecord{
		Session: out.Session,
		Attempt: out.Attempt,
		Profile: out.Profile,
		Unlocks: records,
	})
	if err != nil {
		log.Error("failed to save submission: %v", err)
		return nil, challenge.Kind, errors.NewInternalError(err)
	}

	metrics.RecordProgress(out.Result.XPEarned, out.Result.LevelUp, names)
	if !out.Session.Active {
		metrics.RecordSessionEvent("finished")
	}
	log.Info("submission judged: attempt_id=%d, kind=%s, correct=%t, score=%d, attempts_left=%d, xp=%d",
		attemptID, challenge.Kind, out.Result.Correct, out.Result.Score, out.Result.AttemptsLeft, out.Result.XPEarned)
	for _, name := range names {
		log.Info("achievement unlocked: %s", name)
	}

	result := out.Result
	return &result, challenge.Kind, nil
}

func (s *gameService) GetSession(ctx context.Context, userID, sessionID int64) (*models.SessionWithAttempts, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting session: user_id=%d, session_id=%d", userID, sessionID)

	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.sessions.Attempts(ctx, session.ID)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &models.SessionWithAttempts{GameSession: *session, Attempts: attempts}, nil
}

func (s *gameService) ListSessions(ctx context.Context, userID int64, limit, offset int) ([]models.GameSession, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing sessions: user_id=%d", userID)

	sessions, err := s.sessions.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sessions, nil
}

func (s *gameService) EndSession(ctx context.Context, userID, sessionID int64) (*models.GameSession, error) {
	log := logger.FromContext(ctx)
	log.Debug("ending session: user_id=%d, session_id=%d", userID, sessionID)

	unlock := s.opts.locks.Lock(userID)
	defer unlock()

	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if !s.engine.End(session, s.opts.now()) {
		log.Debug("session %d already ended", sessionID)
		return session, nil
	}
	if err := s.sessions.Update(ctx, *session); err != nil {
		log.Error("failed to end session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	metrics.RecordSessionEvent("ended")
	log.Info("session ended: id=%d, score=%d", session.ID, session.Score)
	return session, nil
}

// ownedSession loads a summary session and checks that userID owns it.
func (s *gameService) ownedSession(ctx context.Context, userID, sessionID int64) (*models.GameSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	// Another user's session reads as missing.
	if session == nil || session.IsAttempt || session.UserID != userID {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	return session, nil
}
