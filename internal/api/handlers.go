package api

import (
	"database/sql"
	"net/http"

	"github.com/vytor/eartune/internal/errors"
	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/services"
)

const (
	defaultLeaderboardSize = 10
	defaultHistoryLimit    = 50
	maxHistoryLimit        = 200
)

type Server struct {
	DB           *sql.DB
	Challenges   services.ChallengeService
	Games        services.GameService
	Profiles     services.ProfileService
	Achievements services.AchievementService
	Limiter      *RateLimiter
}

type challengeList struct {
	Challenges []models.Challenge `json:"challenges"`
	Total      int                `json:"total"`
}

func challengeFilter(r *http.Request) models.ChallengeFilter {
	q := r.URL.Query()
	return models.ChallengeFilter{
		Kind:       q.Get("kind"),
		Difficulty: q.Get("difficulty"),
	}
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, total, err := s.Challenges.List(r.Context(), challengeFilter(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if challenges == nil {
		challenges = []models.Challenge{}
	}
	writeJSON(w, r, http.StatusOK, challengeList{Challenges: challenges, Total: total})
}

func (s *Server) handleRandomChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := s.Challenges.Random(r.Context(), challengeFilter(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, challenge)
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	challenge, err := s.Challenges.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, challenge)
}

func (s *Server) handleFrequencyBands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Challenges.FrequencyBands())
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultLeaderboardSize)
	if err != nil {
		handleError(w, r, err)
		return
	}
	entries, err := s.Profiles.Leaderboard(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	writeJSON(w, r, http.StatusOK, entries)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	progress, err := s.Achievements.ListForUser(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Profiles.GetSummary(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Profiles.CheckIn(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

type startSessionRequest struct {
	ChallengeID int64 `json:"challenge_id"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.ChallengeID <= 0 {
		handleError(w, r, errors.NewValidationError("challenge_id", "must be a positive id"))
		return
	}

	session, err := s.Games.StartSession(r.Context(), userFromContext(r.Context()), req.ChallengeID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultHistoryLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if limit <= 0 || limit > maxHistoryLimit || offset < 0 {
		handleError(w, r, errors.NewValidationError("limit", "must be between 1 and 200 with a non-negative offset"))
		return
	}

	sessions, err := s.Games.ListSessions(r.Context(), userFromContext(r.Context()), limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []models.GameSession{}
	}
	writeJSON(w, r, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.Games.GetSession(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if session.Attempts == nil {
		session.Attempts = []models.GameSession{}
	}
	writeJSON(w, r, http.StatusOK, session)
}

type submitRequest struct {
	Answer        string    `json:"answer"`
	UserTaps      []float64 `json:"user_taps"`
	FrequencyBand string    `json:"frequency_band"`
	ChangeAmount  *int      `json:"change_amount"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Games.Submit(r.Context(), userFromContext(r.Context()), id, gameSubmission(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if result.UnlockedAchievements == nil {
		result.UnlockedAchievements = []models.AchievementSummary{}
	}
	log.Debug("submission for session %d: %s", id, result.Result)
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.Games.EndSession(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}
