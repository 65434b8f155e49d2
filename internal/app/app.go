package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"memberhub_backend/database"
	"memberhub_backend/internal/config"
	"memberhub_backend/internal/email"
	"memberhub_backend/internal/handlers"
	"memberhub_backend/internal/logger"
	"memberhub_backend/internal/middleware"
	"memberhub_backend/internal/models"
	"memberhub_backend/internal/notify"
	"memberhub_backend/internal/repositories"
	"memberhub_backend/internal/routes"
	"memberhub_backend/internal/services"
	"memberhub_backend/internal/storage"
	"memberhub_backend/internal/validator"
	"memberhub_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Migrations applied")

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, serviceContainer := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	workers.NewMembershipWorker(gormDB, serviceContainer.NotificationService).Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full engine plus the service container. The
// container is returned so callers (Run, tests) can reach the services
// directly.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	serviceContainer := initializeServices(cfg, gormDB, storageInstance)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage) *services.ServiceContainer {
	emailProvider := initializeEmailProvider(cfg)

	userRepo := repositories.NewUserRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	subscriptionRepo := repositories.NewSubscriptionRepository(gormDB)
	courseRepo := repositories.NewCourseRepository(gormDB)
	settingsRepo := repositories.NewSettingsRepository(gormDB)
	uploadRepo := repositories.NewUploadRepository(gormDB)

	bulkLimiter := notify.NewRateLimiter(
		cfg.Notifications.BulkMaxRequests,
		time.Duration(cfg.Notifications.BulkWindowMs)*time.Millisecond,
	)

	notificationService := services.NewNotificationService(
		notificationRepo, userRepo, settingsRepo, emailProvider, bulkLimiter,
		cfg.Notifications.DashboardURL,
	)

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo, emailProvider, cfg.Notifications.DashboardURL),
		UserService:         services.NewUserService(userRepo, storageInstance),
		NotificationService: notificationService,
		SubscriptionService: services.NewSubscriptionService(subscriptionRepo, userRepo, uploadRepo, notificationService, storageInstance),
		CourseService:       services.NewCourseService(courseRepo, userRepo),
		UploadService:       services.NewUploadService(uploadRepo, userRepo, storageInstance, cfg.Upload.MaxSize, cfg.Upload.AllowedTypes),
		ReportService:       services.NewReportService(storageInstance),
		SettingsService:     services.NewSettingsService(settingsRepo),
		EmailService:        emailProvider,
		Storage:             storageInstance,
	}
}

// initializeEmailProvider picks SMTP or the console provider. A broken SMTP
// config falls back to console in dev and is fatal in prod.
func initializeEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.Provider != "smtp" {
		logger.Info("Using console email provider")
		return email.NewConsoleProvider()
	}

	provider, err := email.NewSMTPProvider(email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		Username:     cfg.Email.SMTPUsername,
		Password:     cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		TemplatesDir: cfg.Email.TemplatesDir,
	})
	if err != nil {
		if cfg.Server.Env == "prod" {
			logger.Fatal("Failed to initialize SMTP provider", "error", err)
		}
		logger.WithError("SMTP provider unavailable, falling back to console", err)
		return email.NewConsoleProvider()
	}

	logger.Info("SMTP email provider initialized", "host", cfg.Email.SMTPHost)
	return provider
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, container.UserService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(baseHandler, container.SubscriptionService),
		CourseHandler:       handlers.NewCourseHandler(baseHandler, container.CourseService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, container.UploadService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, container.SettingsService, container.ReportService),
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(300, 50))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstAdmin creates the bootstrap admin account when the configured
// email has no user yet. Without credentials the step is skipped.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD not set. Skipping admin seeding.")
		return nil
	}

	var existing models.UserProfile
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.UserProfile{
		Email:            adminEmail,
		PasswordHash:     string(hashedPassword),
		FullName:         "Platform Admin",
		Role:             models.UserRoleAdmin,
		MembershipStatus: models.MembershipStatusActive,
		MembershipTier:   models.MembershipTierElite,
		MemberID:         fmt.Sprintf("MHB-%d-0000", time.Now().Year()),
		IsVerified:       true,
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
