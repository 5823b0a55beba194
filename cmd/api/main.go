package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/kinerja-go-api/internal/access"
	"github.com/noah-isme/kinerja-go-api/internal/config"
	"github.com/noah-isme/kinerja-go-api/internal/database"
	"github.com/noah-isme/kinerja-go-api/internal/handler"
	"github.com/noah-isme/kinerja-go-api/internal/middleware"
	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/repository"
	"github.com/noah-isme/kinerja-go-api/internal/router"
	"github.com/noah-isme/kinerja-go-api/internal/service"
	"github.com/noah-isme/kinerja-go-api/internal/session"
	"github.com/noah-isme/kinerja-go-api/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.EvaluationTemplate{},
		&models.EvaluationCategory{},
		&models.EvaluationItem{},
		&models.GradeBand{},
		&models.Evaluation{},
		&models.EvaluationAnswer{},
		&models.ActivityLog{},
		&models.AppSetting{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	codec, err := token.NewCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("failed to initialise token codec: %v", err)
	}

	cookiePolicy := session.NewCookiePolicy(cfg.CookieSecure)

	engine := access.NewEngine(access.Rules{
		Passthrough: cfg.PassthroughPaths,
		Public:      cfg.PublicPaths,
		AdminScoped: cfg.AdminPaths,
		StrictAdmin: cfg.StrictAdminPaths,
	})

	var notifier service.Notifier = service.NewLogNotifier(logger)
	if cfg.NatsURL != "" {
		natsConn, err := database.ConnectNats(cfg.NatsURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
		notifier = service.NewNatsNotifier(natsConn, cfg.NotifySubject, logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	authService := service.NewAuthService(userRepo, codec, redisClient, notifier, validate, logger)
	templateService := service.NewTemplateService(templateRepo, validate, activityService, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, templateRepo, userRepo, validate, activityService, notifier, logger)
	dashboardService := service.NewReviewDashboardService(evaluationRepo, redisClient, cfg.DashboardCacheTTL, logger)
	userService := service.NewUserService(userRepo, validate, activityService, logger)
	settingService := service.NewSettingService(settingRepo, validate, activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, cookiePolicy, logger),
		TemplateHandler:   handler.NewTemplateHandler(templateService, logger),
		EvaluationHandler: handler.NewEvaluationHandler(evaluationService, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, logger),
		UserHandler:       handler.NewUserHandler(userService, logger),
		SettingHandler:    handler.NewSettingHandler(settingService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		SessionMiddleware: middleware.Session(codec, cookiePolicy),
		AccessMiddleware:  middleware.AccessControl(engine, cfg.LoginPath, cfg.DefaultPath),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
