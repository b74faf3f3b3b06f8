// Package events provides annotation event publishing functionality.
// The publisher is log-only unless brokers are configured, so the
// pipeline behaves identically on a laptop with no Kafka around.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"transcript-analysis-service/internal/observability/metrics"
)

// Publisher publishes analysis events to separate Kafka topics:
// transcript lifecycle on one, per-paragraph annotation changes on the
// other.
type Publisher struct {
	writerLifecycle   *kafka.Writer
	writerAnnotations *kafka.Writer
	principal         string
	topicLifecycle    string
	topicAnnotations  string
	enabled           bool
	metrics           *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers          []string
	TopicLifecycle   string
	TopicAnnotations string
	Principal        string
	Enabled          bool
}

// New creates a new event publisher with separate lifecycle and
// annotation topics.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:        cfg.Principal,
			topicLifecycle:   cfg.TopicLifecycle,
			topicAnnotations: cfg.TopicAnnotations,
			enabled:          false,
			metrics:          m,
		}
	}

	// Longer dial timeouts for DNS resolution in Kubernetes.
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerLifecycle := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicLifecycle,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerAnnotations := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicAnnotations,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicLifecycle", cfg.TopicLifecycle).
		Str("topicAnnotations", cfg.TopicAnnotations).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerLifecycle:   writerLifecycle,
		writerAnnotations: writerAnnotations,
		principal:         cfg.Principal,
		topicLifecycle:    cfg.TopicLifecycle,
		topicAnnotations:  cfg.TopicAnnotations,
		enabled:           true,
		metrics:           m,
	}
}

// PublishLifecycle publishes a transcript lifecycle event.
func (p *Publisher) PublishLifecycle(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerLifecycle, p.topicLifecycle, "lifecycle", key, event)
}

// PublishAnnotation publishes a per-paragraph annotation change event.
func (p *Publisher) PublishAnnotation(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerAnnotations, p.topicAnnotations, "annotation", key, event)
}

// publish is the internal method that writes to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerLifecycle != nil {
		if e := p.writerLifecycle.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing lifecycle writer")
			err = e
		}
	}
	if p.writerAnnotations != nil {
		if e := p.writerAnnotations.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing annotations writer")
			err = e
		}
	}
	return err
}
