package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/streadway/amqp"

	"productsvc/internal/config"
	"productsvc/internal/logging"
	"productsvc/internal/metrics"
	"productsvc/internal/models"
	"productsvc/internal/repositories"
	"productsvc/internal/server"
	"productsvc/internal/services"
	"productsvc/internal/telemetry"
	"productsvc/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("service stopped")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("Server gracefully stopped")
}

// run opens the store, serves HTTP until ctx is cancelled and then shuts down.
func run(ctx context.Context, cfg *config.Config) error {
	// --- Tracing ---
	tel, err := telemetry.Init(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	// --- Store ---
	store, err := repositories.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("failed to close store")
		}
	}()
	logging.Info().Str("driver", store.Driver()).Msg("store connected")

	m := metrics.New()
	opts := []services.Option{services.WithMetrics(m)}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQ.Enabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				logging.Error().Err(err).Msg("failed to close RabbitMQ client")
			}
		}()
		opts = append(opts, services.WithPublisher(mqClient, cfg.RabbitMQ.Exchange))

		if cfg.RabbitMQ.AuditQueue != "" {
			if err := mqClient.Consume(cfg.RabbitMQ.Exchange, cfg.RabbitMQ.AuditQueue, "product.#", logProductEvent); err != nil {
				return err
			}
		}
	}

	productService := services.NewProductService(store.Products, opts...)

	app := server.New(server.Dependencies{
		Config:         cfg,
		Store:          store,
		ProductService: productService,
		Metrics:        m,
	})

	// --- Start HTTP Server ---
	listenErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Addr()).Msg("starting server")
		listenErr <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// logProductEvent is the audit consumer: it records every product change event.
func logProductEvent(msg amqp.Delivery) error {
	var event models.ProductEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to decode product event: %w", err)
	}

	logging.Info().
		Str("event_id", event.ID).
		Str("event", event.Type).
		Str("product_id", event.ProductID).
		Time("occurred_at", event.OccurredAt).
		Msg("product event")
	return nil
}
