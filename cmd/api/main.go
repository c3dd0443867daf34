package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-glam/internal/analytics"
	"github.com/noah-isme/backend-glam/internal/app"
	"github.com/noah-isme/backend-glam/internal/audit"
	"github.com/noah-isme/backend-glam/internal/auth"
	"github.com/noah-isme/backend-glam/internal/booking"
	"github.com/noah-isme/backend-glam/internal/catalog"
	"github.com/noah-isme/backend-glam/internal/common"
	"github.com/noah-isme/backend-glam/internal/config"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
	"github.com/noah-isme/backend-glam/internal/events"
	"github.com/noah-isme/backend-glam/internal/fees"
	"github.com/noah-isme/backend-glam/internal/health"
	"github.com/noah-isme/backend-glam/internal/obs"
	"github.com/noah-isme/backend-glam/internal/offer"
	"github.com/noah-isme/backend-glam/internal/payment"
	"github.com/noah-isme/backend-glam/internal/pricing"
	"github.com/noah-isme/backend-glam/internal/promo"
	"github.com/noah-isme/backend-glam/internal/provider"
	"github.com/noah-isme/backend-glam/internal/ratelimit"
	"github.com/noah-isme/backend-glam/internal/security"
	"github.com/noah-isme/backend-glam/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "glam")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "glam-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	if envBool("DB_AUTO_MIGRATE", false) {
		if err := migrateUp(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
		logger.Info().Msg("migrations applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "glam-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	queries := dbgen.New(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

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
	enqueuer := tasks.Enqueuer{Client: asynqClient, Queue: cfg.QueueName}

	validate := validator.New()

	bus := &events.Bus{
		Store:     queries,
		Scheduler: enqueuer,
	}

	auditSvc := &audit.Service{
		Store:        queries,
		Enabled:      cfg.AuditEnabled,
		SamplingRate: cfg.AuditSamplingRate,
	}
	auditHandler := audit.Handler{Store: queries}
	auditRec := audit.HTTPRecorder{
		Service: auditSvc,
		OnError: func(err error) { logger.Error().Err(err).Msg("record audit entry") },
	}
	audited := func(action, resourceType, idParam string) func(http.Handler) http.Handler {
		return auditRec.Middleware(audit.HTTPConfig{
			Action:          action,
			ResourceType:    resourceType,
			ResourceIDParam: idParam,
		})
	}

	pricingStore := &pricing.Store{Q: queries}
	engine := &pricing.Engine{
		Profiles:   pricingStore,
		Promotions: pricingStore,
		FeeConfigs: pricingStore,
		Settings:   pricingStore,
	}

	promoSvc := &promo.Service{Q: queries}
	promoHandler := &promo.Handler{Q: queries, Svc: promoSvc}
	feesHandler := &fees.Handler{Q: queries}
	providerHandler := &provider.Handler{Q: queries}

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Queries:      queries,
		Cache:        catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		DefaultLimit: cfg.CatalogDefaultLimit,
		MaxLimit:     cfg.CatalogMaxLimit,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogHandler := &catalog.Handler{Q: queries, Svc: catalogSvc}

	providers := map[string]payment.Provider{
		"glampay": payment.GlamPay{
			ServerKey: cfg.GlamPayServerKey,
			BaseURL:   cfg.GlamPayBaseURL,
			Sandbox:   cfg.PaymentSandbox,
		},
	}
	activeProvider := providers[cfg.PaymentProvider]
	if activeProvider == nil {
		activeProvider = providers["glampay"]
	}
	paymentSvc := &payment.Service{
		Provider:        activeProvider,
		IntentTTL:       cfg.PaymentIntentTTL,
		CallbackBaseURL: cfg.PaymentCallbackBaseURL,
	}
	paymentHandler := &payment.Handler{Svc: paymentSvc, Q: queries}
	webhookHandler := payment.Webhook{
		Q:         queries,
		Pool:      pool,
		Providers: providers,
		Replay:    redisClient,
		ReplayTTL: cfg.WebhookReplayTTL,
		Events:    bus,
		Audit:     auditSvc,
		Log:       logger,
	}

	bookingSvc := &booking.Service{
		Q:        queries,
		Pool:     pool,
		Engine:   engine,
		Payments: paymentSvc,
		Events:   bus,
		Expiry:   enqueuer,
		Validate: validate,
		Currency: cfg.CurrencyCode,
		HoldTTL:  cfg.BookingHoldTTL,
		Log:      logger,
	}
	bookingHandler := &booking.Handler{Svc: bookingSvc, Q: queries}

	offerSvc := &offer.Service{
		Q:          queries,
		Pool:       pool,
		Engine:     engine,
		Payments:   paymentSvc,
		Events:     bus,
		Expiry:     enqueuer,
		Validate:   validate,
		Currency:   cfg.CurrencyCode,
		DefaultTTL: cfg.OfferDefaultTTL,
		HoldTTL:    cfg.BookingHoldTTL,
		Log:        logger,
	}
	offerHandler := &offer.Handler{Svc: offerSvc, Q: queries}

	analyticsSvc := &analytics.Service{
		Q:            queries,
		R:            redisClient,
		TTL:          cfg.AnalyticsCacheTTL,
		DefaultRange: cfg.AnalyticsDefaultDays,
		Log:          logger,
	}
	analyticsHandler := &analytics.Handler{Svc: analyticsSvc, Q: queries}

	authMiddleware := auth.Middleware{Verifier: auth.Verifier{
		Secret: []byte(cfg.JWTSecret),
		Validator: auth.TokenValidator{
			Issuer:    cfg.JWTIssuer,
			Audience:  cfg.JWTAudience,
			ClockSkew: 30 * time.Second,
		},
	}}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	limiterStore, err := app.NewLimiterStore(redisClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter store")
	}
	ipRate, err := limiter.NewRateFromFormatted(cfg.RateLimitRate)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse rate limit")
	}
	ipLimit := limiterstdlib.NewMiddleware(limiter.New(limiterStore, ipRate))
	previewLimit := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "glam:rl:preview:"},
		Config:  ratelimit.Config{Key: ratelimit.KeyByActor, Window: time.Minute, Max: envInt("RATE_LIMIT_PREVIEW_PER_MIN", 20)},
		OnError: func(err error) { logger.Warn().Err(err).Msg("rate limiter unavailable") },
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(security.Headers{
		Enable:                envBool("SECURE_HEADERS", true),
		EnableHSTS:            envBool("SECURE_HSTS", false),
		HSTSMaxAge:            envInt("SECURE_HSTS_MAX_AGE", 31536000),
		HSTSIncludeSubdomains: envBool("SECURE_HSTS_INCLUDE_SUBDOMAINS", true),
	}.Middleware)
	r.Use(security.BodyLimit{Max: int64(envInt("SECURE_MAX_BODY_BYTES", 1<<20))}.Middleware)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(authMiddleware.Authenticate)
	r.Use(ipLimit.Handler)

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	pprofEnabled := envBool("OBS_ENABLE_PPROF", true)
	if pprofEnabled {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{db: pool, redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/services", catalogHandler.List)
		v.Get("/services/{id}", catalogHandler.Detail)
		v.Get("/providers", providerHandler.List)
		v.Get("/providers/{id}", providerHandler.Get)
		v.Get("/providers/{id}/services", catalogHandler.ByProvider)
		v.Get("/providers/{id}/locations", providerHandler.Locations)

		v.With(previewLimit.Middleware).Post("/promotions/preview", promoHandler.Preview)

		v.Group(func(authed chi.Router) {
			authed.Use(authMiddleware.RequireAuth)

			authed.With(auth.RequireRole(common.RoleCustomer)).Post("/providers", providerHandler.Register)
			authed.Patch("/providers/{id}", providerHandler.Update)
			authed.Get("/providers/{id}/settings", providerHandler.Settings)
			authed.Put("/providers/{id}/settings", providerHandler.UpsertSettings)
			authed.Post("/providers/{id}/locations", providerHandler.CreateLocation)
			authed.Post("/providers/{id}/services", catalogHandler.Create)
			authed.Put("/services/{id}", catalogHandler.Update)

			authed.Route("/bookings", func(b chi.Router) {
				b.Get("/", bookingHandler.List)
				b.Get("/{id}", bookingHandler.Get)
				b.Group(func(g chi.Router) {
					g.Use(idem.Middleware)
					g.With(auth.RequireRole(common.RoleCustomer)).Post("/", bookingHandler.Create)
					g.With(auth.RequireRole(common.RoleCustomer)).Post("/{id}/cancel", bookingHandler.Cancel)
				})
			})

			authed.Route("/offers", func(o chi.Router) {
				o.Get("/", offerHandler.List)
				o.Get("/{id}", offerHandler.Get)
				o.Group(func(g chi.Router) {
					g.Use(idem.Middleware)
					g.With(auth.RequireRole(common.RoleProvider)).Post("/", offerHandler.Create)
					g.With(auth.RequireRole(common.RoleProvider)).Post("/{id}/withdraw", offerHandler.Withdraw)
					g.With(auth.RequireRole(common.RoleCustomer)).Post("/{id}/accept", offerHandler.Accept)
					g.With(auth.RequireRole(common.RoleCustomer)).Post("/{id}/decline", offerHandler.Decline)
				})
			})

			authed.Route("/payments", func(p chi.Router) {
				p.With(idem.Middleware).Post("/intent", paymentHandler.Intent)
				p.Get("/{bookingId}/status", paymentHandler.Status)
			})

			authed.Route("/analytics", func(an chi.Router) {
				an.Use(auth.RequireRole(common.RoleProvider, common.RoleAdmin))
				an.Get("/stats", analyticsHandler.Stats)
				an.Get("/revenue-by-day", analyticsHandler.RevenueByDay)
				an.Get("/export", analyticsHandler.Export)
			})

			authed.Route("/admin", func(admin chi.Router) {
				admin.Use(auth.RequireRole(common.RoleAdmin))
				admin.With(audited("promotion.create", "promotion", "")).Post("/promotions", promoHandler.Create)
				admin.Get("/promotions", promoHandler.List)
				admin.Get("/promotions/{id}", promoHandler.Get)
				admin.With(audited("promotion.update", "promotion", "id")).Put("/promotions/{id}", promoHandler.Update)
				admin.With(audited("promotion.set_active", "promotion", "id")).Patch("/promotions/{id}/active", promoHandler.SetActive)
				admin.With(audited("fee_config.create", "fee_config", "")).Post("/fee-configs", feesHandler.Create)
				admin.Get("/fee-configs", feesHandler.List)
				admin.Get("/fee-configs/{id}", feesHandler.Get)
				admin.With(audited("fee_config.update", "fee_config", "id")).Put("/fee-configs/{id}", feesHandler.Update)
				admin.Get("/platform-settings", feesHandler.PlatformSettings)
				admin.With(audited("platform_settings.update", "platform_settings", "")).Put("/platform-settings", feesHandler.UpsertPlatformSettings)
				admin.Get("/promotion-usage", analyticsHandler.PromotionUsage)
				admin.Get("/audit-logs", auditHandler.List)
			})
		})

		v.Post("/webhooks/payment/{gateway}", webhookHandler.Handle)
	})

	var handler http.Handler = r
	if tracingEnabled {
		handler = otelhttp.NewHandler(handler, "glam-api")
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: handler,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	<-runCtx.Done()
	health.SetReady(false)
	logger.Info().Msg("server draining")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), envDurationMillis("SHUTDOWN_GRACE_MS", 15000))
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown server")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

// migrateUp applies pending migrations. The pgx5 scheme routes the URL to
// the pgx-based migrate driver so the binary carries no second SQL driver.
func migrateUp(databaseURL string) error {
	url := databaseURL
	if strings.HasPrefix(url, "postgres://") {
		url = "pgx5://" + strings.TrimPrefix(url, "postgres://")
	} else if strings.HasPrefix(url, "postgresql://") {
		url = "pgx5://" + strings.TrimPrefix(url, "postgresql://")
	}
	source := envOrDefault("DB_MIGRATIONS_URL", "file://db/migrations")
	m, err := migrate.New(source, url)
	if err != nil {
		return err
	}
	defer m.Close()
	return app.RunMigrations(m)
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
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

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
