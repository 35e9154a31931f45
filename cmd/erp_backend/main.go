package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	"github.com/bluestar-trading/erp_backend/internal/core/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/handlers"
	"github.com/bluestar-trading/erp_backend/internal/middleware"
	"github.com/bluestar-trading/erp_backend/internal/notify"
	"github.com/bluestar-trading/erp_backend/internal/platform/config"
	"github.com/bluestar-trading/erp_backend/internal/repositories/database/pgsql"
	"github.com/bluestar-trading/erp_backend/internal/repositories/memory"
	"github.com/bluestar-trading/erp_backend/internal/tracking"
	"github.com/bluestar-trading/erp_backend/internal/utils"
	"github.com/bluestar-trading/erp_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title BlueStar ERP Backend API
// @version 1.0
// @description Vouchers, ledger, inventory and trip tracking for BlueStar Trading.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := dto.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	dispatcher := newDispatcher(cfg, repos, logger)
	dispatcher.Start()

	registry := tracking.NewRegistry(cfg.TrackingBufferSize)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	container := services.NewServiceContainer(cfg, repos, dispatcher, registry)

	loginLimiter, err := newLimiter(cfg.LoginRateLimit)
	if err != nil {
		logger.Error("Invalid LOGIN_RATE_LIMIT", slog.String("error", err.Error()))
		os.Exit(1)
	}
	apiLimiter, err := newLimiter(cfg.APIRateLimit)
	if err != nil {
		logger.Error("Invalid API_RATE_LIMIT", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, handlers.RouteDeps{
		Registry:     registry,
		Policy:       middleware.DefaultPolicy(),
		Posthog:      posthogClient,
		LoginLimiter: loginLimiter,
		APILimiter:   apiLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.Warn("Notification dispatcher did not drain", slog.String("error", err.Error()), slog.Int64("dropped", dispatcher.Dropped()))
	}
}

// openRepositories connects to Postgres and applies migrations, or falls back to
// the in-memory store when no database URL is configured.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("No database configured, using the in-memory store. Data is lost on restart.")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return repositories.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	changed, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.Up)
	if err != nil {
		dbPool.Close()
		return repositories.RepositoryProvider{}, nil, err
	}
	if changed {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func newDispatcher(cfg *config.Config, repos repositories.RepositoryProvider, logger *slog.Logger) *notify.Dispatcher {
	opts := []notify.Option{
		notify.WithWorkers(cfg.NotifyWorkers),
		notify.WithQueueSize(cfg.NotifyQueueSize),
		notify.WithSender(notify.ChannelInApp, notify.NewInAppSender(repos.NotificationRepo)),
	}
	if cfg.SMTPHost != "" && cfg.SMTPUsername != "" {
		opts = append(opts, notify.WithSender(notify.ChannelEmail, notify.NewEmailSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})))
	}
	if cfg.TelegramBotToken != "" {
		opts = append(opts, notify.WithSender(notify.ChannelTelegram, notify.NewTelegramSender(cfg.TelegramBotToken)))
	}
	return notify.NewDispatcher(logger, opts...)
}

func newLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(limitermemory.NewStore(), rate), nil
}
