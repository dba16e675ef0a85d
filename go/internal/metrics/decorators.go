package metrics

import (
	"context"
	"time"

	"github.com/mcdev12/quizshow/go/internal/eventbus"
	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/sound"
)

// MetricPublisher wraps an event bus publisher with metrics collection
type MetricPublisher struct {
	publisher eventbus.Publisher
	metrics   Collector
}

func NewMetricPublisher(publisher eventbus.Publisher, metrics Collector) *MetricPublisher {
	return &MetricPublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (p *MetricPublisher) Publish(ctx context.Context, e events.Event) error {
	start := time.Now()

	err := p.publisher.Publish(ctx, e)

	p.metrics.RecordEventPublished(string(e.Type), err == nil, time.Since(start))
	return err
}

// MetricPlayer wraps a sound player and counts cues that fail to start
type MetricPlayer struct {
	sound.Player
	metrics Collector
}

func NewMetricPlayer(player sound.Player, metrics Collector) *MetricPlayer {
	return &MetricPlayer{Player: player, metrics: metrics}
}

func (p *MetricPlayer) Play(cue sound.Cue, ended func()) error {
	err := p.Player.Play(cue, ended)
	if err != nil {
		p.metrics.RecordCueFailure(string(cue.Name))
	}
	return err
}
