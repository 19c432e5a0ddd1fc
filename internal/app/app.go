package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"skyjobs/database"
	_ "skyjobs/docs"
	"skyjobs/internal/auth"
	"skyjobs/internal/config"
	"skyjobs/internal/email"
	"skyjobs/internal/handlers"
	"skyjobs/internal/logger"
	"skyjobs/internal/middleware"
	"skyjobs/internal/routes"
	"skyjobs/internal/services"
	"skyjobs/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	shutdownTimeout   = 10 * time.Second
	emailDrainTimeout = 10 * time.Second
)

// App связывает конфигурацию, БД, сервисы и HTTP роутер
type App struct {
	cfg      *config.Config
	db       *gorm.DB
	services *services.ServiceContainer
	router   *gin.Engine
}

// New подключается к БД, мигрирует схему и собирает приложение
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	a, err := Build(ctx, cfg, db)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return a, nil
}

// OpenDatabase открывает БД по настройкам конфигурации
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(database.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		LogQueries:   cfg.IsDevelopment() && cfg.Database.Driver != "sqlite",
	})
}

// Build собирает приложение поверх уже открытой БД
func Build(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	storageInstance, err := storage.NewStorage(ctx, storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	emailProvider, err := email.NewProvider(email.Config{
		Provider:     cfg.Email.Provider,
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		ResendAPIKey: cfg.Email.ResendAPIKey,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		AppName:      cfg.App.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email provider: %w", err)
	}
	logger.Info("Email provider initialized", "provider", cfg.Email.Provider)

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	if err != nil {
		return nil, err
	}

	serviceContainer := services.NewServiceContainer(services.Dependencies{
		Tokens:  tokens,
		Email:   emailProvider,
		Storage: storageInstance,
		Auth: services.AuthOptions{
			BaseURL:             cfg.App.BaseURL,
			RequireConfirmation: cfg.Auth.RequireConfirmation,
		},
		Upload: services.UploadOptions{
			MaxSize:  cfg.Upload.MaxSize,
			MaxFiles: cfg.Upload.MaxFiles,
		},
	})

	if err := seedFirstAdmin(ctx, db, cfg, serviceContainer.AuthService); err != nil {
		return nil, fmt.Errorf("failed to seed first admin user: %w", err)
	}

	a := &App{
		cfg:      cfg,
		db:       db,
		services: serviceContainer,
	}
	a.router = a.setupRouter()
	return a, nil
}

// Router возвращает gin.Engine, в тестах используется с httptest
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) setupRouter() *gin.Engine {
	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.MaxMultipartMemory = 32 << 20
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware())
	ginRouter.Use(middleware.DBMiddleware(a.db))

	appHandlers := handlers.NewAppHandlers(a.services)
	authMW := middleware.AuthMiddleware(a.services.AuthService)

	opts := routes.Options{Swagger: true}
	if local, ok := a.services.Storage.(*storage.LocalStorage); ok && strings.HasPrefix(local.BaseURL(), "/") {
		opts.StaticDir = local.BasePath()
		opts.StaticURL = local.BaseURL()
	}

	routes.RegisterRoutes(ginRouter, appHandlers, authMW, opts)
	return ginRouter
}

// Run слушает адрес из конфигурации до отмены ctx, затем корректно останавливает сервер
func (a *App) Run(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", address, "env", a.cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server startup error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// Close освобождает email провайдер и соединения с БД
// Close дожидается отправки писем подтверждения и освобождает ресурсы
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), emailDrainTimeout)
	defer cancel()

	var drainErr error
	if err := a.services.AuthService.Wait(ctx); err != nil {
		drainErr = fmt.Errorf("pending emails not sent: %w", err)
	}

	return errors.Join(
		drainErr,
		a.services.EmailService.Close(),
		database.Close(a.db),
	)
}

func seedFirstAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, authService services.AuthService) error {
	username := cfg.Auth.FirstAdminUsername
	password := cfg.Auth.FirstAdminPassword

	if username == "" || password == "" {
		logger.Debug("FIRST_ADMIN_USERNAME or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	adminEmail := cfg.Auth.FirstAdminEmail
	if adminEmail == "" {
		adminEmail = username + "@" + cfg.App.Name + ".local"
	}

	_, err := authService.EnsureAdmin(ctx, db, username, password, adminEmail)
	return err
}
