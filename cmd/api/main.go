// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/angelamos/tecai-kids/internal/admin"
	"github.com/angelamos/tecai-kids/internal/auth"
	"github.com/angelamos/tecai-kids/internal/catalog"
	"github.com/angelamos/tecai-kids/internal/config"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/health"
	"github.com/angelamos/tecai-kids/internal/middleware"
	"github.com/angelamos/tecai-kids/internal/notify"
	"github.com/angelamos/tecai-kids/internal/payment"
	"github.com/angelamos/tecai-kids/internal/progress"
	"github.com/angelamos/tecai-kids/internal/quiz"
	"github.com/angelamos/tecai-kids/internal/server"
	"github.com/angelamos/tecai-kids/internal/subscription"
	"github.com/angelamos/tecai-kids/internal/teen"
	"github.com/angelamos/tecai-kids/internal/tutor"
	"github.com/angelamos/tecai-kids/internal/user"
	"github.com/angelamos/tecai-kids/migrations"
)

const (
	drainDelay         = 5 * time.Second
	tokenPurgeEvery    = 6 * time.Hour
	deferredRetryEvery = 5 * time.Minute
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	core.InitErrorReporting(cfg.Rollbar, cfg.App)
	defer core.FlushErrorReports()

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db, migrations.FS); err != nil {
			return err
		}
		logger.Info("database schema up to date")
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT, !cfg.IsProduction())
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	mailer := notify.New(cfg.SendGrid, cfg.App.Name, logger)

	userSvc := user.NewService(user.NewRepository(db.DB))
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(
		auth.NewRepository(db.DB),
		jwtManager,
		userSvc,
		auth.NewRedisBlacklist(rdb.Client),
		logger,
	)
	authHandler := auth.NewHandler(authSvc)

	catalogSvc := catalog.NewService(catalog.NewRepository(db.DB))
	catalogHandler := catalog.NewHandler(catalogSvc)

	quizSvc := quiz.NewService(quiz.NewRepository(db.DB), db, catalogSvc, logger)
	quizHandler := quiz.NewHandler(quizSvc)

	subscriptionSvc := subscription.NewService(subscription.NewRepository(db.DB), db, logger)
	subscriptionHandler := subscription.NewHandler(subscriptionSvc)

	var gateways []payment.Gateway
	if g := payment.NewStripeGateway(cfg.Stripe); g != nil {
		gateways = append(gateways, g)
	}
	if g := payment.NewMidtransGateway(cfg.Midtrans); g != nil {
		gateways = append(gateways, g)
	}
	logger.Info("payment gateways configured", "count", len(gateways))

	paymentSvc := payment.NewService(payment.ServiceConfig{
		Repo:          payment.NewRepository(db.DB),
		Tx:            db,
		Subscriptions: subscriptionSvc,
		Accounts:      userSvc,
		Gateways:      gateways,
		Mailer:        mailer,
		Payment:       cfg.Payment,
		Bank:          cfg.Bank,
		Logger:        logger,
	})
	paymentHandler := payment.NewHandler(paymentSvc, logger)

	progressSvc := progress.NewService(progress.Deps{
		Repo:          progress.NewRepository(db.DB),
		Cache:         rdb,
		Accounts:      userSvc,
		Catalog:       catalogSvc,
		Attempts:      quizSvc,
		Subscriptions: subscriptionSvc,
		Logger:        logger,
	})
	progressHandler := progress.NewHandler(progressSvc)

	var llm tutor.LLM
	if c := tutor.NewOpenAIClient(cfg.OpenAI); c != nil {
		llm = c
	} else {
		logger.Warn("openai api key not set, AI tutor disabled")
	}
	tutorSvc := tutor.NewService(
		tutor.NewRepository(db.DB),
		llm,
		userSvc,
		cfg.Tutor.HistorySize,
		logger,
	)
	tutorHandler := tutor.NewHandler(tutorSvc)

	teenSvc := teen.NewService(teen.NewRepository(db.DB), db, logger)
	teenHandler := teen.NewHandler(teenSvc)

	healthHandler := health.NewHandler(
		health.Check{Name: "database", Checker: db},
		health.Check{Name: "redis", Checker: rdb},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Repo:       admin.NewRepository(db.DB),
		DBStats:    db.Stats,
		RedisStats: rdb.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  rdb.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	router.Use(chimw.Recoverer)
	router.Use(
		middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
			Bypass:   middleware.BypassPrefix("/v1/webhook/"),
			Logger:   logger,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	optionalAuth := middleware.OptionalAuth(authSvc)
	adminOnly := middleware.RequireAdmin

	tutorLimiter := middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
		Limit: middleware.PerHour(
			cfg.Tutor.QuestionsPerHour,
			cfg.Tutor.QuestionsPerHour,
		),
		Prefix:   "tutor",
		KeyFunc:  middleware.KeyByUser,
		FailOpen: true,
		Logger:   logger,
	})

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		catalogHandler.RegisterRoutes(r, optionalAuth)
		catalogHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		quizHandler.RegisterRoutes(r, authenticator)
		progressHandler.RegisterRoutes(r, authenticator)
		subscriptionHandler.RegisterRoutes(r, authenticator)

		paymentHandler.RegisterRoutes(r, authenticator)
		paymentHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		tutorHandler.RegisterRoutes(r, authenticator, tutorLimiter.Handler)
		teenHandler.RegisterRoutes(r, authenticator, adminOnly)

		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	go core.RunEvery(ctx, "subscription.expire", cfg.Subscription.SweepInterval, logger,
		func(ctx context.Context) error {
			n, err := subscriptionSvc.ExpireDue(ctx)
			if n > 0 {
				logger.Info("subscriptions expired", "count", n)
			}
			return err
		},
	)
	go core.RunEvery(ctx, "auth.purge_tokens", tokenPurgeEvery, logger,
		func(ctx context.Context) error {
			_, err := authSvc.PurgeExpired(ctx)
			return err
		},
	)
	go core.RunEvery(ctx, "payment.reprocess_deferred", deferredRetryEvery, logger,
		paymentSvc.ReprocessDeferred,
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := rdb.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
