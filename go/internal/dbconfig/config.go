package dbconfig

import (
	"fmt"
	"net/url"
	"time"

	"github.com/mcdev12/quizshow/go/internal/config"
)

// Config holds Postgres connection settings.
type Config struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	SSLMode        string
	MaxConns       int
	ConnectTimeout time.Duration
}

// NewConfigFromEnv reads DB_* environment variables (with defaults).
func NewConfigFromEnv() Config {
	return Config{
		Host:           config.GetEnv("DB_HOST", "localhost"),
		Port:           config.GetEnvAsInt("DB_PORT", 5432),
		User:           config.GetEnv("DB_USER", "postgres"),
		Password:       config.GetEnv("DB_PASSWORD", "postgres"),
		Database:       config.GetEnv("DB_NAME", "quizshow"),
		SSLMode:        config.GetEnv("DB_SSLMODE", "disable"),
		MaxConns:       config.GetEnvAsInt("DB_MAX_CONNS", 10),
		ConnectTimeout: config.GetEnvAsDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
	}
}

// Enabled reports whether a database was configured explicitly. Tools that can run
// without Postgres check it before connecting.
func Enabled() bool {
	return config.GetEnv("DB_HOST", "") != "" || config.GetEnv("DATABASE_URL", "") != ""
}

// DSN returns the Postgres connection URL. DATABASE_URL wins when set.
func (c Config) DSN() string {
	if u := config.GetEnv("DATABASE_URL", ""); u != "" {
		return u
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if c.ConnectTimeout > 0 {
		q.Set("connect_timeout", fmt.Sprint(int(c.ConnectTimeout.Seconds())))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// String describes the target without the password, for logs.
func (c Config) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.User, c.Host, c.Port, c.Database)
}
