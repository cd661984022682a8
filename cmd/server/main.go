package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminapp "github.com/courseplatform/backend/internal/application/admin"
	catalogapp "github.com/courseplatform/backend/internal/application/catalog"
	checkoutapp "github.com/courseplatform/backend/internal/application/checkout"
	identityapp "github.com/courseplatform/backend/internal/application/identity"
	learningapp "github.com/courseplatform/backend/internal/application/learning"
	"github.com/courseplatform/backend/internal/domain/identity"
	"github.com/courseplatform/backend/internal/infrastructure/auth"
	"github.com/courseplatform/backend/internal/infrastructure/cache"
	"github.com/courseplatform/backend/internal/infrastructure/config"
	"github.com/courseplatform/backend/internal/infrastructure/logger"
	"github.com/courseplatform/backend/internal/infrastructure/persistence"
	"github.com/courseplatform/backend/internal/infrastructure/telemetry"
	"github.com/courseplatform/backend/internal/interfaces/http/handler"
	"github.com/courseplatform/backend/internal/interfaces/http/middleware"
	"github.com/courseplatform/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const meterName = "github.com/courseplatform/backend"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Course Platform API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Telemetry providers are no-ops when disabled
	tracerProvider, err := telemetry.NewTracerProvider(startupCtx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(startupCtx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(gormLog),
		persistence.WithTracing(dbTracing),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", db.Driver()))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}

	// Redis-backed stores, in-memory outside production when redis is down
	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateStores(startupCtx)
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	courseRepo := persistence.NewGormCourseRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db.DB)
	communityRepo := persistence.NewGormCommunityRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, stores.Blacklist, log)
	userService := identityapp.NewUserService(userRepo, enrollmentRepo, orderRepo, log)
	courseService := catalogapp.NewCourseService(courseRepo, log)
	productService := catalogapp.NewProductService(productRepo, orderRepo, log)
	learningService := learningapp.NewService(enrollmentRepo, courseRepo, log)
	checkoutService := checkoutapp.NewService(orderRepo, txScope, stores.Idempotency, cfg.Payment.IdempotencyTTL, log)
	dashboardService := adminapp.NewDashboardService(adminapp.DashboardRepositories{
		Users:       userRepo,
		Courses:     courseRepo,
		Products:    productRepo,
		Orders:      orderRepo,
		Enrollments: enrollmentRepo,
		Community:   communityRepo,
	}, log)

	meter := meterProvider.Meter(meterName)
	checkoutMetrics, err := telemetry.NewCheckoutMetrics(meter)
	if err != nil {
		log.Warn("Checkout metrics disabled", zap.Error(err))
	} else {
		checkoutService.SetCheckoutMetrics(checkoutMetrics)
	}
	httpMetrics, err := telemetry.NewHTTPMetrics(meter)
	if err != nil {
		log.Warn("HTTP metrics disabled", zap.Error(err))
	}

	if cfg.Seed.AdminEnabled {
		if _, err := userService.EnsureAdmin(startupCtx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.AdminFullName); err != nil {
			log.Error("Failed to seed admin account", zap.Error(err))
		}
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}

	// Initialize handlers
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService, userService, log),
		Users:       handler.NewUserHandler(userService, log),
		Courses:     handler.NewCourseHandler(courseService, learningService, log),
		Products:    handler.NewProductHandler(productService, log),
		Orders:      handler.NewOrderHandler(checkoutService, log),
		Enrollments: handler.NewEnrollmentHandler(learningService, log),
		Dashboard:   handler.NewDashboardHandler(dashboardService, log),
		Health:      handler.NewHealthHandler(sqlDB, cfg.App.Version, log),
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	// Middleware order: request ID first so every later log line carries it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure(cfg.App.IsProduction()))
	engine.Use(middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(httpMetrics))

	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		globalLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiters = append(limiters, globalLimiter)
		engine.Use(middleware.RateLimit(globalLimiter))
	}

	guards := router.Guards{
		Authenticated: middleware.JWTAuth(authService, log),
		Admin:         middleware.RequireRoles(string(identity.RoleAdmin)),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limiters = append(limiters, authLimiter)
		guards.AuthRateLimit = middleware.RateLimit(authLimiter)
	}

	router.Mount(engine, handlers, guards)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.Bool("redis", stores.UsesRedis()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	for _, l := range limiters {
		l.Stop()
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
