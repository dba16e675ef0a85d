package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/eventbus"
	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/session"
	"github.com/mcdev12/quizshow/go/internal/gateway"
	"github.com/mcdev12/quizshow/go/internal/host"
	"github.com/mcdev12/quizshow/go/internal/metrics"
	"github.com/mcdev12/quizshow/go/internal/questionbank"
	"github.com/mcdev12/quizshow/go/internal/results"
	"github.com/mcdev12/quizshow/go/internal/results/announce"
	"github.com/mcdev12/quizshow/go/internal/results/duckdb"
	"github.com/mcdev12/quizshow/go/internal/results/leaderboard"
	"github.com/mcdev12/quizshow/go/internal/results/postgres"
)

type Services struct {
	App         *host.App
	Host        *host.Service
	Gateway     *gateway.Service
	Forwarder   *eventbus.Forwarder
	Registry    *prometheus.Registry
	Standings   StandingsReader
	Leaderboard *leaderboard.Leaderboard

	closers []func() error
}

// StandingsReader lists the best teams from whichever result store is primary.
type StandingsReader interface {
	TopTeams(ctx context.Context, limit int) ([]results.TeamStanding, error)
}

type duckStandings struct{ store *duckdb.Store }

func (d duckStandings) TopTeams(ctx context.Context, limit int) ([]results.TeamStanding, error) {
	all, err := d.store.Standings(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func setupServices(ctx context.Context, cfg ServerConfig) (*Services, error) {
	// Wire up dependency injection chain
	// Stores → Result recorder → Host app → Connect service / spectator gateway
	s := &Services{Registry: prometheus.NewRegistry()}
	s.Registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	collector := metrics.NewPrometheusMetrics(s.Registry)

	var database *sql.DB
	if cfg.Postgres {
		db, err := setupDatabase(ctx)
		if err != nil {
			return nil, err
		}
		database = db
		s.closers = append(s.closers, db.Close)
	}

	// Results
	recorder, err := s.setupResults(ctx, cfg, database)
	if err != nil {
		s.Close()
		return nil, err
	}

	// Questions
	quizzes, err := s.setupQuizzes(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	// Session events
	observers := []session.Observer{metrics.NewObserver(collector)}
	if cfg.NATS {
		pub, err := eventbus.NewJetStreamPublisher(eventbus.JetStreamConfigFromEnv())
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to set up event bus: %w", err)
		}
		s.closers = append(s.closers, pub.Close)
		s.Forwarder = eventbus.NewForwarder(metrics.NewMetricPublisher(pub, collector), cfg.EventBuffer, events.EventTypeTimerTick)
		observers = append(observers, s.Forwarder)
	} else {
		observers = append(observers, session.ObserverFunc(func(e events.Event) { s.Gateway.OnEvent(e) }))
	}

	s.App = host.NewApp(host.ConfigFromEnv(), host.Deps{
		Quizzes:   quizzes,
		Results:   recorder,
		Metrics:   collector,
		Observers: observers,
	})
	s.Host = host.NewService(s.App)

	gwCfg := gateway.DefaultConfig()
	gwCfg.UseJetStream = cfg.NATS
	gwCfg.JetStreamConfig.Bus = eventbus.JetStreamConfigFromEnv()
	gwCfg.JetStreamConfig.SubjectFilter = gwCfg.JetStreamConfig.Bus.SubjectPrefix + ".>"
	s.Gateway, err = gateway.NewService(gwCfg, s.App)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Services) setupResults(ctx context.Context, cfg ServerConfig, database *sql.DB) (*results.Recorder, error) {
	var primary results.Named
	if database != nil {
		store := postgres.NewStore(database)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		primary = results.Named{Name: "postgres", Sink: store}
		s.Standings = store
	} else {
		store, err := duckdb.Open(ctx, cfg.DuckDBPath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, store.Close)
		primary = results.Named{Name: "duckdb", Sink: store}
		s.Standings = duckStandings{store: store}
	}

	var secondary []results.Named
	if cfg.Redis {
		client := leaderboard.NewClientFromEnv()
		s.closers = append(s.closers, client.Close)
		s.Leaderboard = leaderboard.New(client, cfg.RedisPrefix)
		secondary = append(secondary, results.Named{Name: "leaderboard", Sink: s.Leaderboard})
	}
	if cfg.RabbitURI != "" {
		pub, err := announce.NewPublisher(cfg.RabbitURI, cfg.RabbitExch)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pub.Close)
		secondary = append(secondary, results.Named{Name: "announce", Sink: pub})
	}

	recorder := results.NewRecorder(primary, secondary...)
	log.Info().Strs("sinks", recorder.Sinks()).Msg("result recorder ready")
	return recorder, nil
}

func (s *Services) setupQuizzes(ctx context.Context, cfg ServerConfig) (questionbank.Source, error) {
	if cfg.QuizSource != "postgres" {
		src := questionbank.NewDirSource(cfg.QuizDir)
		log.Info().Str("dir", cfg.QuizDir).Strs("quizzes", src.IDs()).Msg("serving quizzes from files")
		return src, nil
	}
	if !cfg.Postgres {
		return nil, fmt.Errorf("QUIZ_SOURCE=postgres needs DB_HOST or DATABASE_URL")
	}
	pool, err := setupQuestionPool(ctx)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() error { pool.Close(); return nil })
	return questionbank.NewPgxRepository(pool), nil
}

// Close releases every backend in reverse order of creation.
func (s *Services) Close() {
	if s.App != nil {
		s.App.Shutdown()
	}
	if s.Forwarder != nil {
		s.Forwarder.Close()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Warn().Err(err).Msg("failed to close backend")
		}
	}
	s.closers = nil
}
