package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries all service settings, populated from the environment.
type Config struct {
	HTTPPort          string
	ObservabilityPort string

	Model  ModelConfig
	Kafka  KafkaConfig
	Report ReportConfig
}

// ModelConfig controls the inference engine.
type ModelConfig struct {
	// Path is the directory holding the speaker, sentiment, and ner
	// model subdirectories. Empty means keyword-only mode.
	Path            string
	ClassifyTimeout time.Duration
	Concurrency     int
	DefaultLanguage string
}

// KafkaConfig controls event publishing.
type KafkaConfig struct {
	Enabled          bool
	Brokers          []string
	TopicLifecycle   string
	TopicAnnotations string
	Principal        string
}

// ReportConfig controls aggregate views.
type ReportConfig struct {
	TopWords int
}

func Load() *Config {
	return &Config{
		HTTPPort:          envOrDefault("HTTP_PORT", "8080"),
		ObservabilityPort: envOrDefault("OBSERVABILITY_PORT", "9090"),
		Model: ModelConfig{
			Path:            os.Getenv("MODEL_PATH"),
			ClassifyTimeout: envDuration("CLASSIFY_TIMEOUT", 10*time.Second),
			Concurrency:     envInt("CLASSIFY_CONCURRENCY", 4),
			DefaultLanguage: envOrDefault("DEFAULT_LANGUAGE", "en"),
		},
		Kafka: KafkaConfig{
			Enabled:          envBool("KAFKA_ENABLED", false),
			Brokers:          splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
			TopicLifecycle:   envOrDefault("KAFKA_TOPIC_LIFECYCLE", "transcript.lifecycle"),
			TopicAnnotations: envOrDefault("KAFKA_TOPIC_ANNOTATIONS", "transcript.annotations"),
			Principal:        envOrDefault("KAFKA_PRINCIPAL", "transcript-analysis-service"),
		},
		Report: ReportConfig{
			TopWords: envInt("REPORT_TOP_WORDS", 15),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
