package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/eartune/internal/metrics"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(metrics.InstrumentHandler)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/challenges", s.handleListChallenges)
		r.Get("/challenges/random", s.handleRandomChallenge)
		r.Get("/challenges/{id}", s.handleGetChallenge)
		r.Get("/frequency-bands", s.handleFrequencyBands)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Group(func(r chi.Router) {
			r.Use(userMiddleware)

			r.Get("/achievements", s.handleAchievements)
			r.Get("/profile", s.handleProfile)
			r.Post("/profile/check-in", s.handleCheckIn)

			r.Get("/sessions", s.handleListSessions)
			r.Post("/sessions", s.handleStartSession)
			r.Get("/sessions/{id}", s.handleGetSession)
			r.With(s.Limiter.Handler).Post("/sessions/{id}/submit", s.handleSubmit)
			r.Post("/sessions/{id}/end", s.handleEndSession)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, routeNotFound(r))
	})
	return r
}
