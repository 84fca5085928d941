package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/derbent/backend/internal/application/housekeeping"
	"github.com/derbent/backend/internal/application/seed"
	"github.com/derbent/backend/internal/bootstrap"
	"github.com/derbent/backend/internal/infrastructure/auth"
	"github.com/derbent/backend/internal/infrastructure/cache"
	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/derbent/backend/internal/infrastructure/event"
	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/derbent/backend/internal/infrastructure/persistence"
	"github.com/derbent/backend/internal/infrastructure/scheduler"
	"github.com/derbent/backend/internal/infrastructure/telemetry"
	"github.com/derbent/backend/internal/interfaces/http/handler"
	"github.com/derbent/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/derbent/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Derbent API
//	@version		1.0
//	@description	Project management backend: projects, planning, governance, finance, kanban and validation.

//	@contact.name	API Support
//	@contact.url	https://github.com/derbent/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry comes first so that the logger can fan out to OTLP
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to start telemetry", zap.Error(err))
	}
	if providers.Enabled() {
		log = logger.Tee(log, providers.LogCore(zapcore.InfoLevel))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Derbent",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	if err := run(ctx, cfg, log, providers); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, providers *telemetry.Providers) error {
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(ctx, &cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if cfg.Telemetry.Enabled {
		if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, log); err != nil {
			return err
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	blacklist := auth.NewTokenBlacklist(redisClient)
	idempotency := cache.NewIdempotencyStore(redisClient, log)

	eventBus := event.NewInMemoryEventBus(log)

	app, err := bootstrap.Build(ctx, cfg, db, blacklist, eventBus, log)
	if err != nil {
		return err
	}
	defer app.Close()

	// Event handlers
	eventBus.Subscribe(event.NewIdempotentHandler(app.Velocity, idempotency, log))
	metrics, err := telemetry.NewBusinessMetrics(providers.Meter())
	if err != nil {
		return err
	}
	eventBus.Subscribe(metrics)

	if err := eventBus.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.Seed.Enabled {
		if err := runSeed(ctx, app, cfg.Seed, log); err != nil {
			return err
		}
	}

	// Housekeeping
	var trigger handler.HousekeepingTrigger
	if cfg.Scheduler.Enabled {
		executor := housekeeping.NewExecutor(
			app.Activities, app.Invoices, app.Sprints, app.ProjectRepo, app.Summaries, eventBus, log,
		)
		executor.SetMetrics(metrics)

		cron, err := scheduler.NewCronTrigger(cfg.Scheduler, executor, app.Companies, log)
		if err != nil {
			return err
		}
		if err := cron.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := cron.Stop(stopCtx); err != nil {
				log.Error("Error stopping housekeeping", zap.Error(err))
			}
		}()
		trigger = cron
	} else {
		log.Info("Housekeeping scheduler disabled")
	}

	engine, limiters, err := newEngine(cfg, log, providers)
	if err != nil {
		return err
	}
	defer func() {
		for _, l := range limiters.all() {
			l.Stop()
		}
	}()

	system := handler.NewSystemHandler(cfg.App.Name, version, db, trigger)
	var loginLimit gin.HandlerFunc
	if limiters.auth != nil {
		loginLimit = middleware.RateLimit(limiters.auth)
	}
	jwtAuth := app.Mount(engine, system, bootstrap.RouteOptions{
		Blacklist:  blacklist,
		Logger:     log,
		LoginLimit: loginLimit,
		Profiling:  cfg.Telemetry.ProfilingEnabled,
	})

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, jwtAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runSeed(ctx context.Context, app *bootstrap.Container, cfg config.SeedConfig, log *zap.Logger) error {
	fixture, err := seed.LoadSample()
	if err != nil {
		return err
	}
	result, err := app.Seeder(cfg.AdminPassword, log).Run(ctx, fixture)
	if err != nil {
		return err
	}
	if result.Skipped {
		log.Info("Sample data already present", zap.String("company_id", result.CompanyID.String()))
		return nil
	}
	log.Info("Sample data loaded", zap.String("company_id", result.CompanyID.String()))
	return nil
}

type rateLimiters struct {
	global *middleware.RateLimiter
	auth   *middleware.RateLimiter
}

func (l rateLimiters) all() []*middleware.RateLimiter {
	var out []*middleware.RateLimiter
	for _, rl := range []*middleware.RateLimiter{l.global, l.auth} {
		if rl != nil {
			out = append(out, rl)
		}
	}
	return out
}

// newEngine builds the gin engine with the global middleware chain
func newEngine(cfg *config.Config, log *zap.Logger, providers *telemetry.Providers) (*gin.Engine, rateLimiters, error) {
	var limiters rateLimiters

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, limiters, err
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	if providers.Enabled() {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
		httpMetrics, err := middleware.HTTPMetrics(providers.Meter())
		if err != nil {
			return nil, limiters, err
		}
		engine.Use(httpMetrics)
	}

	if cfg.HTTP.RateLimitEnabled {
		limiters.global = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiters.global))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiters.auth = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	}

	return engine, limiters, nil
}
