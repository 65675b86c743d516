// Package game runs one challenge attempt through judging, scoring,
// progression and achievements. It works on plain values and performs no I/O;
// callers load state before Submit and save everything Submit touched after it.
package game

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vytor/eartune/internal/achievement"
	"github.com/vytor/eartune/internal/answer"
	"github.com/vytor/eartune/internal/errors"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/progression"
	"github.com/vytor/eartune/internal/rhythm"
	"github.com/vytor/eartune/internal/scoring"
)

// DefaultMaxAttempts is how many misses a session allows.
const DefaultMaxAttempts = 3

const (
	resultCorrect   = "Correct!"
	resultTryAgain  = "Incorrect. Try again!"
	resultGameOver  = "Incorrect. No attempts left."
	perfectSessions = 100
)

type Config struct {
	MaxAttempts int
	ToleranceMs float64
}

type Engine struct {
	cfg Config
}

// NewEngine returns an Engine, filling zero config values with defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.ToleranceMs <= 0 {
		cfg.ToleranceMs = rhythm.DefaultToleranceMs
	}
	return &Engine{cfg: cfg}
}

// Submission is the raw payload of one try. Which fields matter depends on the
// challenge kind.
type Submission struct {
	Answer        string
	Taps          []float64
	FrequencyBand string
	ChangeAmount  *int
}

// Input is everything one submission needs. Session and Profile are updated in place.
type Input struct {
	Challenge    models.Challenge
	Session      *models.GameSession
	Profile      *models.UserProfile
	Unlocked     map[int64]bool
	Achievements []models.Achievement
	// PerfectScores counts the user's other summary sessions with a score of 100.
	PerfectScores int
	Today         time.Time
	Now           time.Time
	Submission    Submission
}

// Outcome holds the state a submission produced. Session and Profile are
// copies of the updated values behind Input's pointers.
type Outcome struct {
	Session models.GameSession
	Profile models.UserProfile
	Attempt models.GameSession
	Unlocks []achievement.Unlock
	Result  models.SubmissionResult
}

type verdict struct {
	correct  bool
	points   int
	answer   string
	accuracy *float64
	match    *rhythm.Match
	feedback string
}

// NewSession returns an active session with a full attempt budget.
func (e *Engine) NewSession(userID, challengeID int64, now time.Time) models.GameSession {
	return models.GameSession{
		UserID:       userID,
		ChallengeID:  challengeID,
		Score:        0,
		AttemptsLeft: e.cfg.MaxAttempts,
		Active:       true,
		DatePlayed:   now,
	}
}

// Submit judges one try against the session. A rejected submission leaves
// Session and Profile untouched, except ATTEMPTS_EXHAUSTED which closes the
// session first.
func (e *Engine) Submit(in Input) (*Outcome, error) {
	s, p := in.Session, in.Profile
	if s == nil || p == nil {
		return nil, errors.NewInternalError(fmt.Errorf("game: session and profile are required"))
	}
	if s.IsAttempt {
		return nil, errors.NewInvalidInputError("session", "attempt records cannot be played")
	}
	if !s.Active {
		return nil, errors.NewSessionEndedError(s.ID, s.Score)
	}
	if s.AttemptsLeft <= 0 {
		closeSession(s, in.Now)
		return nil, errors.NewAttemptsExhaustedError(s.ID, s.Score)
	}

	v, err := e.judge(in.Challenge, in.Submission)
	if err != nil {
		return nil, err
	}

	parentID := s.ID
	attempt := models.GameSession{
		UserID:          s.UserID,
		ChallengeID:     s.ChallengeID,
		Score:           v.points,
		IsAttempt:       true,
		ParentSessionID: &parentID,
		Correct:         v.correct,
		Accuracy:        v.accuracy,
		Answer:          v.answer,
		DatePlayed:      in.Now,
	}

	levelBefore := p.Level
	progression.RecordGame(p, v.correct)

	xp := 0
	var unlocks []achievement.Unlock
	if v.correct {
		s.Score += v.points
		xp = e.xpFor(in.Challenge, v)
		progression.AddXP(p, xp)
		progression.UpdateStreak(p, in.Today)

		perfect := in.PerfectScores
		if s.Score == perfectSessions {
			perfect++
		}
		unlocks = achievement.Evaluate(p, in.Unlocked, in.Achievements, achievement.Aggregates{PerfectScores: perfect}, in.Now)
	} else {
		s.AttemptsLeft--
		if s.AttemptsLeft <= 0 {
			s.AttemptsLeft = 0
			closeSession(s, in.Now)
		}
	}
	attempt.AttemptsLeft = s.AttemptsLeft
	p.UpdatedAt = in.Now

	summaries := make([]models.AchievementSummary, 0, len(unlocks))
	for _, u := range unlocks {
		summaries = append(summaries, u.Summary)
	}

	result := models.SubmissionResult{
		SessionID:            s.ID,
		Correct:              v.correct,
		Result:               resultText(v.correct, s.Active),
		Score:                s.Score,
		AttemptsLeft:         s.AttemptsLeft,
		Active:               s.Active,
		XPEarned:             xp,
		LevelUp:              p.Level > levelBefore,
		NewLevel:             p.Level,
		UnlockedAchievements: summaries,
		Feedback:             v.feedback,
	}
	if v.accuracy != nil {
		acc := round2(*v.accuracy)
		result.Accuracy = &acc
	}
	if v.match != nil {
		matched, total := v.match.Matched, v.match.TotalExpected
		result.CorrectTaps = &matched
		result.TotalExpected = &total
	}
	if v.correct || !s.Active {
		result.CorrectAnswer = revealAnswer(in.Challenge)
	}

	return &Outcome{Session: *s, Profile: *p, Attempt: attempt, Unlocks: unlocks, Result: result}, nil
}

// End closes an active session. It reports whether anything changed.
func (e *Engine) End(s *models.GameSession, now time.Time) bool {
	if s.IsAttempt || !s.Active {
		return false
	}
	closeSession(s, now)
	return true
}

func (e *Engine) judge(c models.Challenge, sub Submission) (verdict, error) {
	switch c.Kind {
	case models.KindNote:
		return judgeText(c, sub.Answer)
	case models.KindEQ:
		if sub.FrequencyBand != "" || sub.ChangeAmount != nil {
			return judgeEQ(c, sub)
		}
		return judgeText(c, sub.Answer)
	case models.KindRhythm:
		return e.judgeRhythm(c, sub.Taps)
	default:
		return verdict{}, errors.NewValidationError("challenge", fmt.Sprintf("unsupported kind %q", c.Kind))
	}
}

func judgeText(c models.Challenge, input string) (verdict, error) {
	if strings.TrimSpace(input) == "" {
		return verdict{}, errors.NewInvalidInputError("answer", "an answer is required")
	}
	correct := answer.Judge(input, c.CorrectAnswer)
	return verdict{correct: correct, points: boolPoints(correct), answer: input}, nil
}

func judgeEQ(c models.Challenge, sub Submission) (verdict, error) {
	if strings.TrimSpace(sub.FrequencyBand) == "" {
		return verdict{}, errors.NewInvalidInputError("frequency_band", "required with change_amount")
	}
	if sub.ChangeAmount == nil {
		return verdict{}, errors.NewInvalidInputError("change_amount", "required with frequency_band")
	}
	correct := answer.Judge(sub.FrequencyBand, c.CorrectAnswer) && *sub.ChangeAmount == c.ChangeAmount
	return verdict{
		correct: correct,
		points:  boolPoints(correct),
		answer:  fmt.Sprintf("%s %+d dB", strings.TrimSpace(sub.FrequencyBand), *sub.ChangeAmount),
	}, nil
}

func (e *Engine) judgeRhythm(c models.Challenge, taps []float64) (verdict, error) {
	if len(taps) == 0 {
		return verdict{}, errors.NewInvalidInputError("user_taps", "at least one tap is required")
	}
	for _, t := range taps {
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return verdict{}, errors.NewInvalidInputError("user_taps", "taps must be non-negative millisecond offsets")
		}
	}

	m := rhythm.Score(c.CorrectPattern, taps, e.cfg.ToleranceMs)
	band := rhythm.BandFor(m.Accuracy)
	acc := m.Accuracy
	return verdict{
		correct:  band.Correct,
		points:   band.Points,
		answer:   fmt.Sprintf("%d taps", len(taps)),
		accuracy: &acc,
		match:    &m,
		feedback: band.Feedback,
	}, nil
}

func (e *Engine) xpFor(c models.Challenge, v verdict) int {
	if c.Kind == models.KindNote {
		return scoring.NoteXP(v.correct)
	}
	if v.accuracy == nil {
		return scoring.DiscreteXP(v.correct, c.Difficulty)
	}
	return scoring.ComputeXP(scoring.BaseXP, *v.accuracy, c.Difficulty, scoring.IsPerfect(*v.accuracy))
}

func closeSession(s *models.GameSession, now time.Time) {
	s.Active = false
	ended := now
	s.EndedAt = &ended
}

func resultText(correct, active bool) string {
	switch {
	case correct:
		return resultCorrect
	case active:
		return resultTryAgain
	default:
		return resultGameOver
	}
}

func revealAnswer(c models.Challenge) string {
	switch c.Kind {
	case models.KindEQ:
		return fmt.Sprintf("%s %+d dB", c.FrequencyBand, c.ChangeAmount)
	case models.KindNote:
		return strings.Join(answer.Alternatives(c.CorrectAnswer), " / ")
	default:
		return ""
	}
}

func boolPoints(correct bool) int {
	if correct {
		return 1
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
