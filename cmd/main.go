// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shivanand-hulikatti/eventflow/internal/config"
	"github.com/Shivanand-hulikatti/eventflow/internal/confirmation"
	"github.com/Shivanand-hulikatti/eventflow/internal/database"
	"github.com/Shivanand-hulikatti/eventflow/internal/handler"
	"github.com/Shivanand-hulikatti/eventflow/internal/logger"
	"github.com/Shivanand-hulikatti/eventflow/internal/publisher"
	"github.com/Shivanand-hulikatti/eventflow/internal/repository"
	"github.com/Shivanand-hulikatti/eventflow/internal/service"
	"github.com/Shivanand-hulikatti/eventflow/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "eventflow: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Configuration and logging ─────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(&logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Development: cfg.Log.Development,
	}); err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Get()

	shutdownTracing, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	// ── 2. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}
	log.Info("connected to postgres", zap.String("db", cfg.Database.DBName))

	checks := map[string]handler.Pinger{
		"postgres": func(ctx context.Context) error { return database.HealthCheck(ctx, pool) },
	}

	// ── 3. Optional collaborators: Redis and Kafka ────────────────────────
	var store confirmation.Store = confirmation.NoopStore{}
	if cfg.Redis.Enabled {
		rdb, err := confirmation.NewRedisClient(ctx, cfg.Redis, cfg.Database.MaxRetries, cfg.Database.RetryInterval)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()
		store = confirmation.NewRedisStore(rdb, cfg.Booking.ConfirmationTTL, log)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr()))
	}

	var pub publisher.Publisher = publisher.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := publisher.NewKafkaPublisher(cfg.Kafka, cfg.App.Name)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		pub = kp
		log.Info("booking notifications enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}
	defer pub.Close()

	// ── 4. Wire up layers ────────────────────────────────────────────────
	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	viewRepo := repository.NewViewRepository(pool)

	events := service.NewEventService(eventRepo, log)
	catalog := service.NewCatalogService(eventRepo, bookingRepo)
	bookings := service.NewBookingService(eventRepo, bookingRepo, pub, log)
	reports := service.NewReportService(eventRepo, bookingRepo, viewRepo)
	views := service.NewViewTracker(viewRepo, log)

	router := handler.NewRouter(handler.Handlers{
		Attendee:  handler.NewAttendeeHandler(catalog, bookings, views, store, log),
		Organiser: handler.NewOrganiserHandler(events, reports, log),
		Health:    handler.NewHealthHandler(checks),
	}, log)

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
