package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/review"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/events"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/lock"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// STORAGE
// ======================================================

type storage struct {
	schedules    schedule.Store
	appointments appointment.Store
	reviews      review.Store
	auditSink    audit.Sink
	auditReader  audit.Reader
}

func openStorage(cfg *config.Config, rdb *redis.Client, logger zerolog.Logger) (storage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return storage{}, err
		}
		if err := dbpkg.Migrate(db); err != nil {
			return storage{}, err
		}
		sink := audit.NewGormSink(db)
		return storage{
			schedules:    repository.NewScheduleGormRepository(db),
			appointments: repository.NewAppointmentGormRepository(db),
			reviews:      repository.NewReviewGormRepository(db),
			auditSink:    sink,
			auditReader:  sink,
		}, nil

	case config.StorageRedis:
		store := repository.NewRedisStore(rdb)
		return storage{
			schedules:    store,
			appointments: store,
			reviews:      store,
			auditSink:    audit.NewLogSink(logger),
		}, nil

	default:
		store := repository.NewMemoryStore()
		return storage{
			schedules:    store,
			appointments: store,
			reviews:      store,
			auditSink:    audit.NewLogSink(logger),
		}, nil
	}
}

func openRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// ======================================================
// SERVER
// ======================================================

func runServer(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.New(cfg.LogLevel, cfg.LogPretty)
	if !timezone.IsValid(cfg.ClinicTimezone) {
		logger.Warn().Str("timezone", cfg.ClinicTimezone).Msg("unknown CLINIC_TIMEZONE, using UTC")
	}

	var rdb *redis.Client
	if cfg.NeedsRedis() {
		client, err := openRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
	}

	st, err := openStorage(cfg, rdb, logger)
	if err != nil {
		return err
	}

	schedules := st.schedules
	if cfg.ScheduleCacheSize > 0 {
		schedules = repository.NewCachedScheduleStore(schedules, cfg.ScheduleCacheSize, cfg.ScheduleCacheTTL)
	}

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.LockDriver == config.LockRedis {
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL, logger)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	}

	dispatcher := audit.NewDispatcher(st.auditSink, logger)
	defer dispatcher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Log:          logger,
		Schedules:    schedules,
		Appointments: st.appointments,
		Reviews:      st.reviews,
		Locker:       locker,
		Audit:        dispatcher,
		AuditReader:  st.auditReader,
		Publisher:    publisher,
		Registry:     registry,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr()).
			Str("storage", cfg.StorageDriver).
			Str("lock", cfg.LockDriver).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}
