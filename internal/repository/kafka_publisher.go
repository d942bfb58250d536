package repository

import (
	"context"

	"ViralGen/internal/domain/models"
	domrepo "ViralGen/internal/domain/repository"

	"github.com/segmentio/kafka-go"
)

// Topics names the topic per record kind.
type Topics struct {
	Signals  string
	Content  string
	AutoPost string
}

// MessageWriter is the subset of pkg/kafka.Producer used here.
type MessageWriter interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}, headers ...kafka.Header) error
	Close() error
}

// KafkaPublisher publishes committed results keyed by their id.
type KafkaPublisher struct {
	w      MessageWriter
	topics Topics
	source string
}

func NewKafkaPublisher(w MessageWriter, topics Topics, source string) *KafkaPublisher {
	return &KafkaPublisher{w: w, topics: topics, source: source}
}

func (p *KafkaPublisher) PublishSignal(ctx context.Context, s models.TradingSignal) error {
	return p.w.Publish(ctx, p.topics.Signals, []byte(s.ID), s, p.headers("signal")...)
}

func (p *KafkaPublisher) PublishContent(ctx context.Context, r models.GenerationResult) error {
	return p.w.Publish(ctx, p.topics.Content, []byte(r.ID), r, p.headers("content")...)
}

func (p *KafkaPublisher) PublishAutoPost(ctx context.Context, r models.GenerationResult) error {
	return p.w.Publish(ctx, p.topics.AutoPost, []byte(r.ID), r, p.headers("autopost")...)
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

func (p *KafkaPublisher) headers(kind string) []kafka.Header {
	return []kafka.Header{
		{Key: "kind", Value: []byte(kind)},
		{Key: "source", Value: []byte(p.source)},
	}
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)
