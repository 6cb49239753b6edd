package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/recruitai/internal/config"
	"github.com/fadilmartias/recruitai/internal/domain/fiber/handler"
	"github.com/fadilmartias/recruitai/internal/logger"
	"github.com/fadilmartias/recruitai/internal/middleware"
	"github.com/fadilmartias/recruitai/internal/repository"
	"github.com/fadilmartias/recruitai/internal/service"
	"github.com/fadilmartias/recruitai/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appConfig := config.LoadAppConfig()
	logConfig := config.LoadLogConfig()
	log, err := logger.New(logConfig.JSON, logConfig.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, ready, err := buildStore(log)
	if err != nil {
		return err
	}
	scorer, err := buildScorer(ctx, log)
	if err != nil {
		return err
	}
	notifier := service.NewWebhookNotificationService(config.LoadNotificationConfig())
	policy := usecase.NewActionPolicy(config.LoadPolicyConfig())

	uc := usecase.NewScreeningUsecase(store, scorer, notifier, policy, config.LoadNotificationConfig().CompanyName, log)

	app := newApp(appConfig, ready)
	handler.NewScreeningHandler(uc).RegisterRoutes(app)

	go monitorGoroutines(ctx, log)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("server running",
		zap.String("port", appConfig.Port),
		zap.String("env", appConfig.Env),
		zap.Int("invite_threshold", policy.InviteThreshold),
		zap.Int("reject_threshold", policy.RejectThreshold),
	)
	return app.Listen(appConfig.Port)
}

func newApp(appConfig *config.AppConfig, ready func() bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return ready()
		},
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))
	return app
}

// buildStore opens postgres when configured and falls back to the in-memory
// store otherwise. The returned probe reports database reachability.
func buildStore(log *zap.Logger) (repository.Store, func() bool, error) {
	dbConfig := config.LoadDBConfig()
	if !dbConfig.Enabled() {
		log.Warn("DB_HOST/DB_NAME not set, using in-memory store")
		return repository.NewMemoryStore(), func() bool { return true }, nil
	}

	db, err := connectDB(dbConfig, config.LoadAppConfig())
	if err != nil {
		return nil, nil, err
	}
	if autoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	ready := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return sqlDB.PingContext(ctx) == nil
	}
	return repository.NewGormStore(db), ready, nil
}

func buildScorer(ctx context.Context, log *zap.Logger) (service.ScoringGateway, error) {
	scoringConfig := config.LoadScoringConfig()
	log = log.With(zap.String(logger.FieldProvider, scoringConfig.Provider))

	switch scoringConfig.Provider {
	case config.ScoringProviderGemini:
		gemini, err := service.NewGeminiService(ctx, config.LoadGeminiConfig(), scoringConfig)
		if err != nil {
			return nil, err
		}
		log.Info("scoring provider ready")
		return service.NewGeminiScoringService(gemini), nil
	case config.ScoringProviderWebhook:
		scorer, err := service.NewWebhookScoringService(scoringConfig)
		if err != nil {
			return nil, err
		}
		log.Info("scoring provider ready")
		return scorer, nil
	default:
		return nil, fmt.Errorf("unknown scoring provider %q", scoringConfig.Provider)
	}
}

func monitorGoroutines(ctx context.Context, log *zap.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Debug("runtime stats", zap.Int("goroutines", runtime.NumGoroutine()))
		}
	}
}
