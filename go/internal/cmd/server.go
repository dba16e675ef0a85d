package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/quizshow/go/internal/host"
	"github.com/mcdev12/quizshow/go/internal/metrics"
)

func setupServer(cfg ServerConfig, services *Services) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: cfg.AllowOrigins,
		AllowedHeaders: []string{"*"},
	})

	// Register services
	registerServices(mux, services)

	// Add health check and metrics endpoints
	setupHealthCheck(mux)
	mux.Handle("/metrics", metrics.Handler(services.Registry))

	// Wrap with CORS
	handler := c.Handler(mux)

	// Setup HTTP/2 server
	return &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func registerServices(mux *http.ServeMux, services *Services) {
	// Register host service
	hostServicePath, hostServiceHandler := host.NewHostServiceHandler(services.Host)
	mux.Handle(hostServicePath, hostServiceHandler)

	// Spectator WebSockets and session state
	services.Gateway.RegisterRoutes(mux)

	mux.HandleFunc("GET /api/leaderboard", handleLeaderboard(services))
}

// handleLeaderboard serves the top teams, from Redis when available and from the
// primary result store otherwise.
func handleLeaderboard(services *Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit <= 0 || limit > 100 {
			limit = 10
		}

		var body any
		if services.Leaderboard != nil {
			body, err = services.Leaderboard.Top(r.Context(), int64(limit))
		} else {
			body, err = services.Standings.TopTeams(r.Context(), limit)
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to load leaderboard")
			http.Error(w, "Failed to load leaderboard", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Error().Err(err).Msg("failed to encode leaderboard response")
		}
	}
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
