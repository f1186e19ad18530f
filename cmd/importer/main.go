package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/bittools/skyhub-importer/internal/admin"
	"github.com/bittools/skyhub-importer/internal/catalog"
	"github.com/bittools/skyhub-importer/internal/config"
	"github.com/bittools/skyhub-importer/internal/customers"
	"github.com/bittools/skyhub-importer/internal/importer"
	"github.com/bittools/skyhub-importer/internal/messaging"
	"github.com/bittools/skyhub-importer/internal/orders"
	"github.com/bittools/skyhub-importer/internal/skyhub"
	"github.com/bittools/skyhub-importer/internal/telemetry"
)

const serviceVersion = "0.1.0"

func main() {
	ctx := context.Background()
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
	if err := cfg.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "skyhub-importer", serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("skyhub-importer", serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

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

	var importedProducer, failedProducer *messaging.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		importedProducer = messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ImportedTopic)
		defer func() { _ = importedProducer.Close() }()
		failedProducer = messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.FailedTopic)
		defer func() { _ = failedProducer.Close() }()
	}

	httpClient := &http.Client{
		Timeout:   time.Duration(cfg.SkyHub.TimeoutSeconds) * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	gateway := skyhub.NewClient(cfg.SkyHub.BaseURL, cfg.SkyHub.UserEmail, cfg.SkyHub.APIKey, httpClient)

	orderRepo := orders.NewOrderRepository(db)
	customerRepo := customers.NewCustomerRepository(db)
	productRepo := catalog.NewProductRepository(db)
	synchronizer := importer.NewSynchronizer(orderRepo, logger)

	processor := importer.NewProcessor(
		orderRepo,
		customerRepo,
		productRepo,
		synchronizer,
		newEventRouter(importedProducer, failedProducer),
		nil,
		logger,
	)

	runner := importer.NewRunner(gateway, processor, cfg, logger)
	handler := admin.NewHandler(runner, logger)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("POST /admin/imports", telemetry.WithHTTPRoute(handler.HandleImport))

	server := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: otelhttp.NewHandler(mux, "skyhub-importer",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute,
	}

	go func() {
		logger.Info("starting importer service", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
