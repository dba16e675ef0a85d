package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/config"
	"github.com/mcdev12/quizshow/go/internal/dbconfig"
)

// ServerConfig selects which backends the server wires in. Backends whose address is
// not configured stay off, so the server also runs on a laptop with no infrastructure.
type ServerConfig struct {
	Port         string
	QuizSource   string // "dir" or "postgres"
	QuizDir      string
	DuckDBPath   string
	Postgres     bool
	Redis        bool
	RedisPrefix  string
	RabbitURI    string
	RabbitExch   string
	NATS         bool
	EventBuffer  int
	AllowOrigins []string
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:         config.GetEnv("PORT", "8080"),
		QuizSource:   config.GetEnv("QUIZ_SOURCE", "dir"),
		QuizDir:      config.GetEnv("QUIZ_DIR", "quizzes"),
		DuckDBPath:   config.GetEnv("RESULTS_DUCKDB", "quizshow.duckdb"),
		Postgres:     dbconfig.Enabled(),
		Redis:        config.GetEnv("REDIS_ADDR", "") != "",
		RedisPrefix:  config.GetEnv("REDIS_PREFIX", "quizshow"),
		RabbitURI:    config.GetEnv("RABBITMQ_URI", ""),
		RabbitExch:   config.GetEnv("RABBITMQ_EXCHANGE", ""),
		NATS:         config.GetEnv("NATS_URL", "") != "",
		EventBuffer:  config.GetEnvAsInt("EVENT_BUFFER", 1024),
		AllowOrigins: strings.Split(config.GetEnv("CORS_ORIGINS", "*"), ","),
	}
}

// setupLogging writes human-readable logs to stderr at LOG_LEVEL (default info).
func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	level, err := zerolog.ParseLevel(config.GetEnv("LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
