package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"transcript-analysis-service/internal/api"
	"transcript-analysis-service/internal/app"
	"transcript-analysis-service/internal/classify"
	"transcript-analysis-service/internal/classify/keyword"
	"transcript-analysis-service/internal/config"
	"transcript-analysis-service/internal/entities"
	"transcript-analysis-service/internal/events"
	"transcript-analysis-service/internal/inference"
	"transcript-analysis-service/internal/observability"
	"transcript-analysis-service/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	application := app.New(cfg)
	logger := application.Logger

	publisher := events.New(&events.Config{
		Enabled:          cfg.Kafka.Enabled,
		Brokers:          cfg.Kafka.Brokers,
		TopicLifecycle:   cfg.Kafka.TopicLifecycle,
		TopicAnnotations: cfg.Kafka.TopicAnnotations,
		Principal:        cfg.Kafka.Principal,
	})
	defer publisher.Close()

	// Transformer models are preferred; without them the keyword model
	// still produces speaker and sentiment labels and the regex tier
	// still finds entities.
	var classifier classify.Classifier
	var primary entities.Detector
	if cfg.Model.Path != "" {
		engine, err := inference.New(cfg.Model.Path, logger)
		if err != nil {
			logger.Warn().Err(err).Str("modelPath", cfg.Model.Path).
				Msg("Model load failed, falling back to keyword classifier")
			classifier = keyword.New()
		} else {
			defer engine.Close()
			classifier = engine
			primary = engine
		}
	} else {
		logger.Info().Msg("No model path configured, using keyword classifier")
		classifier = keyword.New()
	}
	detector := entities.NewChain(primary, entities.NewRegexDetector(), logger)

	analyzer := pipeline.New(pipeline.Options{
		Classifier:      classifier,
		Detector:        detector,
		Publisher:       publisher,
		Logger:          logger,
		Concurrency:     cfg.Model.Concurrency,
		ClassifyTimeout: cfg.Model.ClassifyTimeout,
	})

	server := api.NewServer(api.Options{
		Analyzer:        analyzer,
		Publisher:       publisher,
		Logger:          logger,
		DefaultLanguage: cfg.Model.DefaultLanguage,
		TopWords:        cfg.Report.TopWords,
	})

	obs := observability.NewServer(":" + cfg.ObservabilityPort)
	obs.Start()

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := application.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Application startup failed")
	}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("Analysis API listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP shutdown failed")
	}
	if err := obs.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Observability shutdown failed")
	}
	application.Shutdown()
}
