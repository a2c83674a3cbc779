package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/lanoel/config"
	"github.com/Dosada05/lanoel/db"
	"github.com/Dosada05/lanoel/handlers"
	"github.com/Dosada05/lanoel/live"
	"github.com/Dosada05/lanoel/repositories"
	"github.com/Dosada05/lanoel/routes"
	"github.com/Dosada05/lanoel/services"
	"github.com/Dosada05/lanoel/session"
	"github.com/Dosada05/lanoel/storage"
	"github.com/Dosada05/lanoel/views"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))
	if cfg.SessionSecret == config.DefaultSessionSecret {
		logger.Warn("SESSION_SECRET is not set, using the development default")
	}

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established", slog.String("dialect", dbConn.Dialect().String()))

	// Схема и администратор по умолчанию
	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureSchema(bootCtx, dbConn); err != nil {
		cancelBoot()
		logger.Error("failed to ensure schema", slog.Any("error", err))
		os.Exit(1)
	}
	created, err := db.SeedAdmin(bootCtx, dbConn, db.AdminSeed{
		Email:    cfg.AdminEmail,
		Handle:   cfg.AdminHandle,
		Password: cfg.AdminPassword,
	})
	cancelBoot()
	if err != nil {
		logger.Error("failed to seed admin account", slog.Any("error", err))
		os.Exit(1)
	}
	if created {
		logger.Warn("bootstrap admin created, change its password", slog.String("handle", cfg.AdminHandle))
	}

	// Хранилище изображений: R2, если настроено, иначе локальная папка
	uploader, servedUploadDir, err := newUploader(cfg)
	if err != nil {
		logger.Error("failed to initialize image uploader", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := live.NewHub(logger)
	go wsHub.Run(hubCtx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewUserRepository(dbConn)
	gameRepo := repositories.NewGameRepository(dbConn)
	teamRepo := repositories.NewTeamRepository(dbConn)
	resultRepo := repositories.NewResultRepository(dbConn)
	voteRepo := repositories.NewVoteRepository(dbConn)
	leaderboardRepo := repositories.NewLeaderboardRepository(dbConn)

	// Инициализация сервисов
	leaderboardService := services.NewLeaderboardService(leaderboardRepo)
	publisher := live.NewPublisher(wsHub, leaderboardService, logger)

	authService := services.NewAuthService(userRepo, 0)
	voteService := services.NewVoteService(voteRepo, gameRepo, publisher)
	gameService := services.NewGameService(dbConn, gameRepo, voteRepo, uploader, publisher)
	teamService := services.NewTeamService(teamRepo, publisher)
	resultService := services.NewResultService(resultRepo, publisher)
	adminService := services.NewAdminService(gameRepo, teamRepo, resultRepo, userRepo)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	renderer, err := views.NewRenderer()
	if err != nil {
		logger.Error("failed to parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Pages:     handlers.NewPageHandler(renderer, sessions, leaderboardService, voteService, logger),
		Auth:      handlers.NewAuthHandler(renderer, sessions, authService, logger),
		Votes:     handlers.NewVoteHandler(renderer, sessions, voteService, logger),
		Admin:     handlers.NewAdminHandler(renderer, sessions, adminService, gameService, teamService, resultService, logger),
		API:       handlers.NewAPIHandler(leaderboardService, logger),
		WebSocket: handlers.NewWebSocketHandler(wsHub, leaderboardService, logger),
	}, sessions, routes.Options{UploadDir: servedUploadDir}, logger)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		stopHub()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

// newUploader returns the R2 uploader when fully configured, otherwise a local
// one. The second value is the directory to serve under /public/uploads/,
// empty for R2.
func newUploader(cfg *config.Config) (storage.FileUploader, string, error) {
	r2 := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
		Endpoint:        cfg.R2Endpoint,
	}
	if r2.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		uploader, err := storage.NewCloudflareR2Uploader(ctx, r2)
		if err != nil {
			return nil, "", err
		}
		slog.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
		return uploader, "", nil
	}

	uploader, err := storage.NewLocalUploader(storage.LocalUploaderConfig{
		Dir:        cfg.UploadDir,
		PublicPath: "/public/uploads/",
	})
	if err != nil {
		return nil, "", err
	}
	slog.Info("local image uploader initialized", slog.String("dir", cfg.UploadDir))
	return uploader, cfg.UploadDir, nil
}
