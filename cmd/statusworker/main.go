package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/bittools/skyhub-importer/internal/config"
	"github.com/bittools/skyhub-importer/internal/importer"
	"github.com/bittools/skyhub-importer/internal/messaging"
	"github.com/bittools/skyhub-importer/internal/orders"
	"github.com/bittools/skyhub-importer/internal/telemetry"
)

const serviceVersion = "0.1.0"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Error("kafka brokers are required for the status worker")
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "skyhub-statusworker", serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	db, err := telemetry.OpenDB("postgres", cfg.Postgres.URL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	orderRepo := orders.NewOrderRepository(db)
	synchronizer := importer.NewSynchronizer(orderRepo, logger)
	handler := importer.NewStatusReplayHandler(orderRepo, synchronizer, logger)

	consumer := messaging.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ImportedTopic, "skyhub-statusworker")
	defer func() { _ = consumer.Close() }()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting status worker", "topic", cfg.Kafka.ImportedTopic)
	if err := consumer.Consume(ctx, handler.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
