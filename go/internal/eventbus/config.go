package eventbus

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mcdev12/quizshow/go/internal/config"
)

type JetStreamConfig struct {
	URL             string
	StreamName      string
	SubjectPrefix   string
	MaxReconnects   int
	ReconnectWait   time.Duration
	MaxAge          time.Duration // How long to keep messages
	MaxMsgs         int64         // Max number of messages to keep
	Replicas        int           // Number of replicas for the stream
	DuplicateWindow time.Duration // Window for duplicate detection
}

func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		StreamName:      "QUIZ_EVENTS",
		SubjectPrefix:   "quiz.events",
		MaxReconnects:   -1, // Infinite
		ReconnectWait:   2 * time.Second,
		MaxAge:          24 * time.Hour,
		MaxMsgs:         -1, // No limit
		Replicas:        1,
		DuplicateWindow: 10 * time.Minute,
	}
}

// JetStreamConfigFromEnv overlays NATS_URL, NATS_STREAM and NATS_SUBJECT_PREFIX on the
// defaults.
func JetStreamConfigFromEnv() JetStreamConfig {
	cfg := DefaultJetStreamConfig()
	cfg.URL = config.GetEnv("NATS_URL", cfg.URL)
	cfg.StreamName = config.GetEnv("NATS_STREAM", cfg.StreamName)
	cfg.SubjectPrefix = config.GetEnv("NATS_SUBJECT_PREFIX", cfg.SubjectPrefix)
	cfg.MaxAge = config.GetEnvAsDuration("NATS_MAX_AGE", cfg.MaxAge)
	return cfg
}

// Connect dials NATS with the reconnect policy and logging handlers shared by the
// publisher and the gateway consumer.
func Connect(cfg JetStreamConfig) (*nats.Conn, error) {
	return nats.Connect(cfg.URL, connectOptions(cfg)...)
}
