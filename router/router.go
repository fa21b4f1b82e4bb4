// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Pushkar-sharma02/e-Vote-Backend/cliparse"
	"github.com/Pushkar-sharma02/e-Vote-Backend/handlers"
	"github.com/Pushkar-sharma02/e-Vote-Backend/metrics"
	"github.com/Pushkar-sharma02/e-Vote-Backend/middleware"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store"
	"github.com/Pushkar-sharma02/e-Vote-Backend/voting"
)

const healthTimeout = 2 * time.Second

// NewRouter wires every route and wraps the mux with CORS and panic
// recovery. m may be nil, in which case /metrics answers 404.
func NewRouter(st store.Store, cfg cliparse.Config, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	secret := []byte(cfg.JWTSecret)

	// Initialize handlers
	candidateHandler := handlers.NewCandidateHandler(voting.NewService(st, m))
	userHandler := handlers.NewUserHandler(st, cfg)

	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.Instrument(m, h))
	}
	private := func(h http.HandlerFunc) http.HandlerFunc {
		return public(middleware.RequireAuth(secret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Users
	mux.HandleFunc("POST /users/signup", public(userHandler.Signup))
	mux.HandleFunc("POST /users/login", public(userHandler.Login))
	mux.HandleFunc("GET /users/profile", private(userHandler.Profile))
	mux.HandleFunc("PUT /users/profile/password", private(userHandler.ChangePassword))

	// Voting (authenticated)
	mux.HandleFunc("GET /candidates/vote/candidate/{candidateId}", private(candidateHandler.Vote))
	mux.HandleFunc("POST /candidates/vote/candidate/{candidateId}", private(candidateHandler.Vote))

	// Counts and listings (public)
	mux.HandleFunc("GET /candidates/count", public(candidateHandler.Count))
	mux.HandleFunc("GET /candidates/count/{electionType}", public(candidateHandler.CountByElection))
	mux.HandleFunc("GET /candidates/elections/{electionType}", public(candidateHandler.ListByElection))
	mux.HandleFunc("GET /candidates", public(candidateHandler.List))
	mux.HandleFunc("GET /candidates/{candidateId}", public(candidateHandler.Get))

	// Candidate management (admin)
	mux.HandleFunc("POST /candidates", private(candidateHandler.Create))
	mux.HandleFunc("PUT /candidates/{candidateId}", private(candidateHandler.Update))
	mux.HandleFunc("DELETE /candidates/{candidateId}", private(candidateHandler.Delete))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("e-Vote API v1"))
	})

	return middleware.Recover(middleware.CORS(cfg.CORSOrigin, mux))
}
