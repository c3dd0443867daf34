package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-glam/internal/analytics"
	"github.com/noah-isme/backend-glam/internal/app"
	"github.com/noah-isme/backend-glam/internal/booking"
	"github.com/noah-isme/backend-glam/internal/config"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
	"github.com/noah-isme/backend-glam/internal/events"
	"github.com/noah-isme/backend-glam/internal/notify"
	"github.com/noah-isme/backend-glam/internal/obs"
	"github.com/noah-isme/backend-glam/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "glam")
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, queries := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	asynqOpt, err := app.AsynqRedisOpt(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse asynq redis options")
	}

	asynqClient := asynq.NewClient(asynqOpt)
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close asynq client")
		}
	}()

	bus := &events.Bus{
		Store:     queries,
		Scheduler: tasks.Enqueuer{Client: asynqClient, Queue: cfg.QueueName},
	}

	bookingSvc := &booking.Service{
		Q:      queries,
		Pool:   pool,
		Events: bus,
		Log:    logger,
	}

	analyticsSvc := &analytics.Service{
		Q:            queries,
		R:            redisClient,
		TTL:          cfg.AnalyticsCacheTTL,
		DefaultRange: cfg.AnalyticsDefaultDays,
		Log:          logger,
	}

	var mail notify.EmailSender = notify.NopEmailSender{}
	if cfg.NotifyEmailEnabled && cfg.ResendAPIKey != "" {
		mail = notify.NewResendSender(cfg.ResendAPIKey, cfg.NotifyEmailFrom)
	}
	notifier := &notify.Notifier{
		Mail:         mail,
		Enabled:      cfg.NotifyEmailEnabled,
		TopicToggles: cfg.NotifyEmailTopics,
		Log:          logger,
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotifyEvent, notifier.HandleTask)
	mux.HandleFunc(tasks.TypeBookingExpire, expireHandler(bookingSvc))
	mux.HandleFunc(tasks.TypeAnalyticsRefresh, func(ctx context.Context, _ *asynq.Task) error {
		return analyticsSvc.Refresh(ctx)
	})

	srv := asynq.NewServer(asynqOpt, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues:      map[string]int{cfg.QueueName: 1},
		Logger:      asynqZerolog{logger},
	})

	if cfg.AnalyticsRefreshEvery > 0 {
		go func() {
			ticker := time.NewTicker(cfg.AnalyticsRefreshEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					task := tasks.NewAnalyticsRefreshTask()
					if _, err := asynqClient.EnqueueContext(ctx, task, asynq.Queue(cfg.QueueName)); err != nil {
						logger.Error().Err(err).Msg("enqueue analytics refresh")
					}
				}
			}
		}()
	}

	logger.Info().
		Int("concurrency", cfg.WorkerConcurrency).
		Str("queue", cfg.QueueName).
		Msg("worker starting")

	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start worker")
	}

	<-ctx.Done()
	logger.Info().Msg("worker draining")
	srv.Shutdown()
}

// expireHandler wraps booking expiry so a malformed payload is dropped
// instead of retried forever.
func expireHandler(svc *booking.Service) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload tasks.BookingExpirePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("worker: decode expiry task: %v: %w", err, asynq.SkipRetry)
		}
		id, err := uuid.Parse(payload.BookingID)
		if err != nil {
			return fmt.Errorf("worker: bad booking id %q: %w", payload.BookingID, asynq.SkipRetry)
		}
		return svc.Expire(ctx, id)
	}
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, *dbgen.Queries) {
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "glam-worker"

	pool, err := pgxpool.NewWithConfig(initCtx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(initCtx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool, dbgen.New(pool)
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := client.Ping(initCtx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return client
}

// asynqZerolog adapts zerolog to asynq's logger interface.
type asynqZerolog struct {
	log zerolog.Logger
}

func (l asynqZerolog) Debug(args ...any) { l.log.Debug().Msg(join(args)) }
func (l asynqZerolog) Info(args ...any)  { l.log.Info().Msg(join(args)) }
func (l asynqZerolog) Warn(args ...any)  { l.log.Warn().Msg(join(args)) }
func (l asynqZerolog) Error(args ...any) { l.log.Error().Msg(join(args)) }
func (l asynqZerolog) Fatal(args ...any) { l.log.Fatal().Msg(join(args)) }

func join(args []any) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, " ")
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
