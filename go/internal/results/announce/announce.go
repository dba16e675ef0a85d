// Package announce publishes finished games to a RabbitMQ topic exchange so other
// services (scoreboards, chat bots) can react to them.
package announce

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/models"
)

const (
	DefaultExchange = "quizshow.results"
	publishTimeout  = 5 * time.Second
)

// ResultAnnounced is the message body. The action log stays out of it.
type ResultAnnounced struct {
	EventID       uuid.UUID      `json:"event_id"`
	SessionID     uuid.UUID      `json:"session_id"`
	QuizID        string         `json:"quiz_id,omitempty"`
	TeamID        string         `json:"team_id,omitempty"`
	TotalWon      int            `json:"total_won"`
	QuestionLevel int            `json:"question_level"`
	IsWinner      bool           `json:"is_winner"`
	Outcome       models.Outcome `json:"outcome"`
	FinishedAt    time.Time      `json:"finished_at"`
}

// RoutingKey returns quiz.result.<outcome>, e.g. quiz.result.walked_away.
func RoutingKey(o models.Outcome) string {
	return "quiz.result." + strings.ToLower(string(o))
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher announces results. A publisher built without a URI is disabled and drops
// every result.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  channel
	exchange string
	enabled  bool
	now      func() time.Time
}

// NewPublisher dials RabbitMQ and declares the durable topic exchange.
func NewPublisher(uri, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if uri == "" {
		log.Warn().Msg("RabbitMQ URI is empty, result announcements are disabled")
		return &Publisher{exchange: exchange, now: time.Now}, nil
	}

	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Info().Str("exchange", exchange).Msg("result announcements enabled")
	return newWithChannel(conn, ch, exchange), nil
}

func newWithChannel(conn *amqp091.Connection, ch channel, exchange string) *Publisher {
	return &Publisher{conn: conn, channel: ch, exchange: exchange, enabled: true, now: time.Now}
}

// SaveResult implements results.Sink.
func (p *Publisher) SaveResult(ctx context.Context, r models.GameResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return nil
	}
	body, err := json.Marshal(ResultAnnounced{
		EventID:       uuid.New(),
		SessionID:     r.SessionID,
		QuizID:        r.QuizID,
		TeamID:        r.TeamID,
		TotalWon:      r.TotalWon,
		QuestionLevel: r.QuestionLevel,
		IsWinner:      r.IsWinner,
		Outcome:       r.Outcome,
		FinishedAt:    r.FinishedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	key := RoutingKey(r.Outcome)
	err = p.channel.PublishWithContext(pubCtx, p.exchange, key, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    p.now(),
		MessageId:    r.SessionID.String(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}

	log.Debug().Str("routing_key", key).Str("session_id", r.SessionID.String()).Msg("result announced")
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return nil
	}
	p.enabled = false
	if err := p.channel.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
