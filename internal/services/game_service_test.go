package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/eartune/internal/errors"
	"github.com/vytor/eartune/internal/game"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/progression"
	"github.com/vytor/eartune/internal/repository"
	"github.com/vytor/eartune/internal/services"
	"github.com/vytor/eartune/internal/testutil/mocks"
)

var fixedNow = time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)

type gameMocks struct {
	challenges   *mocks.MockChallengeRepository
	sessions     *mocks.MockSessionRepository
	profiles     *mocks.MockProfileRepository
	achievements *mocks.MockAchievementRepository
	submissions  *mocks.MockSubmissionRepository
}

func newGameService() (services.GameService, *gameMocks) {
	m := &gameMocks{
		challenges:   new(mocks.MockChallengeRepository),
		sessions:     new(mocks.MockSessionRepository),
		profiles:     new(mocks.MockProfileRepository),
		achievements: new(mocks.MockAchievementRepository),
		submissions:  new(mocks.MockSubmissionRepository),
	}
	svc := services.NewGameService(
		game.NewEngine(game.Config{}),
		m.challenges, m.sessions, m.profiles, m.achievements, m.submissions,
		services.WithClock(func() time.Time { return fixedNow }),
	)
	return svc, m
}

func (m *gameMocks) assertExpectations(t *testing.T) {
	m.challenges.AssertExpectations(t)
	m.sessions.AssertExpectations(t)
	m.profiles.AssertExpectations(t)
	m.achievements.AssertExpectations(t)
	m.submissions.AssertExpectations(t)
}

func noteChallenge() *models.Challenge {
	return &models.Challenge{ID: 4, Kind: models.KindNote, CorrectAnswer: "c_do"}
}

func activeSession(userID int64) *models.GameSession {
	return &models.GameSession{ID: 10, UserID: userID, ChallengeID: 4, AttemptsLeft: 3, Active: true, DatePlayed: fixedNow}
}

func (m *gameMocks) expectSubmissionState(userID int64) {
	profile := progression.NewProfile(userID, fixedNow)
	m.profiles.On("GetOrCreate", mock.Anything, userID, fixedNow).Return(&profile, nil)
	m.achievements.On("UnlockedIDs", mock.Anything, userID).Return(map[int64]bool{}, nil)
	m.achievements.On("List", mock.Anything).Return([]models.Achievement{
		{ID: 1, Name: "First Steps", CriteriaType: models.CriteriaGamesPlayed, CriteriaValue: 1, XPReward: 50},
	}, nil)
	m.sessions.On("CountPerfect", mock.Anything, userID, int64(10)).Return(0, nil)
}

func TestStartSession_CreatesSession(t *testing.T) {
	svc, m := newGameService()
	ctx := context.Background()

	m.challenges.On("Get", mock.Anything, int64(4)).Return(noteChallenge(), nil)
	m.sessions.On("FindActive", mock.Anything, int64(1), int64(4)).Return(nil, nil)
	m.profiles.On("GetOrCreate", mock.Anything, int64(1), fixedNow).Return(&models.UserProfile{UserID: 1, Level: 1}, nil)
	m.sessions.On("Insert", mock.Anything, mock.MatchedBy(func(s models.GameSession) bool {
		return s.UserID == 1 && s.ChallengeID == 4 && s.Active && s.AttemptsLeft == 3 && s.Score == 0
	})).Return(int64(10), nil)

	session, err := svc.StartSession(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(10), session.ID)
	assert.True(t, session.Active)
	m.assertExpectations(t)
}

func TestStartSession_ResumesActiveSession(t *testing.T) {
	svc, m := newGameService()

	m.challenges.On("Get", mock.Anything, int64(4)).Return(noteChallenge(), nil)
	existing := activeSession(1)
	existing.AttemptsLeft = 1
	m.sessions.On("FindActive", mock.Anything, int64(1), int64(4)).Return(existing, nil)

	session, err := svc.StartSession(context.Background(), 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, session.AttemptsLeft)
	m.sessions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestStartSession_UnknownChallenge(t *testing.T) {
	svc, m := newGameService()
	m.challenges.On("Get", mock.Anything, int64(99)).Return(nil, nil)

	_, err := svc.StartSession(context.Background(), 1, 99)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestSubmit_CorrectAnswerIsSaved(t *testing.T) {
	svc, m := newGameService()

	m.sessions.On("Get", mock.Anything, int64(10)).Return(activeSession(1), nil)
	m.challenges.On("Get", mock.Anything, int64(4)).Return(noteChallenge(), nil)
	m.expectSubmissionState(1)
	m.submissions.On("Save", mock.Anything, mock.MatchedBy(func(r repository.SubmissionRecord) bool {
		return r.Session.Score == 1 &&
			r.Attempt.IsAttempt && r.Attempt.Correct &&
			r.Attempt.ParentSessionID != nil && *r.Attempt.ParentSessionID == 10 &&
			r.Profile.XP == 85 && r.Profile.CurrentStreak == 1 &&
			len(r.Unlocks) == 1 && r.Unlocks[0].AchievementID == 1
	})).Return(int64(11), nil)

	res, err := svc.Submit(context.Background(), 1, 10, game.Submission{Answer: "Do"})
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 35, res.XPEarned)
	assert.Equal(t, 1, res.Score)
	require.Len(t, res.UnlockedAchievements, 1)
	m.assertExpectations(t)
}

func TestSubmit_ExhaustedSessionIsClosed(t *testing.T) {
	svc, m := newGameService()

	session := activeSession(1)
	session.AttemptsLeft = 0
	session.Score = 2
	m.sessions.On("Get", mock.Anything, int64(10)).Return(session, nil)
	m.challenges.On("Get", mock.Anything, int64(4)).Return(noteChallenge(), nil)
	m.expectSubmissionState(1)
	m.sessions.On("Update", mock.Anything, mock.MatchedBy(func(s models.GameSession) bool {
		return s.ID == 10 && !s.Active && s.EndedAt != nil
	})).Return(nil)

	_, err := svc.Submit(context.Background(), 1, 10, game.Submission{Answer: "do"})
	assert.True(t, errors.Is(err, errors.ErrCodeAttemptsExhausted))
	m.submissions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.sessions.AssertExpectations(t)
}

func TestSubmit_EndedSession(t *testing.T) {
	svc, m := newGameService()

	session := activeSession(1)
	session.Active = false
	session.Score = 4
	m.sessions.On("Get", mock.Anything, int64(10)).Return(session, nil)
	m.challenges.On("Get", mock.Anything, int64(4)).Return(noteChallenge(), nil)
	m.expectSubmissionState(1)

	_, err := svc.Submit(context.Background(), 1, 10, game.Submission{Answer: "do"})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeSessionEnded, appErr.Code)
	assert.Equal(t, 4, appErr.Details["score"])
	m.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSubmit_OtherUsersSession(t *testing.T) {
	svc, m := newGameService()
	m.sessions.On("Get", mock.Anything, int64(10)).Return(activeSession(2), nil)

	_, err := svc.Submit(context.Background(), 1, 10, game.Submission{Answer: "do"})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	m.challenges.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)

	_, err = svc.GetSession(context.Background(), 1, 10)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestSubmit_UnknownSession(t *testing.T) {
	svc, m := newGameService()
	m.sessions.On("Get", mock.Anything, int64(10)).Return(nil, nil)

	_, err := svc.Submit(context.Background(), 1, 10, game.Submission{Answer: "do"})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestSubmit_SaveFailureIsInternal(t *testing.T) {
	svc, m := newGameService()

	m.sessions.On("Get", mock.Anything, int64(10)).Return(activeSession(1), nil)
	m.challenges.On("Get", mock.Anything, int64(4)).Return(noteChallenge(), nil)
	m.expectSubmissionState(1)
	cause := stderrors.New("database is locked")
	m.submissions.On("Save", mock.Anything, mock.Anything).Return(int64(0), cause)

	_, err := svc.Submit(context.Background(), 1, 10, game.Submission{Answer: "re"})
	assert.True(t, errors.Is(err, errors.ErrCodeInternal))
	assert.ErrorIs(t, err, cause)
}

func TestGetSession_WithAttempts(t *testing.T) {
	svc, m := newGameService()

	parent := int64(10)
	m.sessions.On("Get", mock.Anything, int64(10)).Return(activeSession(1), nil)
	m.sessions.On("Attempts", mock.Anything, int64(10)).Return([]models.GameSession{
		{ID: 11, IsAttempt: true, ParentSessionID: &parent},
	}, nil)

	got, err := svc.GetSession(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.Len(t, got.Attempts, 1)
}

func TestEndSession(t *testing.T) {
	svc, m := newGameService()

	m.sessions.On("Get", mock.Anything, int64(10)).Return(activeSession(1), nil).Once()
	m.sessions.On("Update", mock.Anything, mock.MatchedBy(func(s models.GameSession) bool {
		return !s.Active && s.EndedAt != nil && s.EndedAt.Equal(fixedNow)
	})).Return(nil).Once()

	ended, err := svc.EndSession(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, ended.Active)

	already := activeSession(1)
	already.Active = false
	m.sessions.On("Get", mock.Anything, int64(10)).Return(already, nil).Once()

	_, err = svc.EndSession(context.Background(), 1, 10)
	require.NoError(t, err)
	m.sessions.AssertNumberOfCalls(t, "Update", 1)
}
