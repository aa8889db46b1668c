package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/shenikar/camera_map/internal/config"
	v1 "github.com/shenikar/camera_map/internal/handler/http/v1"
	"github.com/shenikar/camera_map/internal/repository"
	"github.com/shenikar/camera_map/internal/service"
	"github.com/shenikar/camera_map/pkg/logger"
	"github.com/shenikar/camera_map/pkg/postgres"
	redisclient "github.com/shenikar/camera_map/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/camera_map/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Camera Map API
// @version 1.0
// @description Filter and map camera installations by district, mandal, camera type and analytics.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Источник данных: CSV-файл или таблица cameras
	source, dbpool, err := newDataSource(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize data source: %v", err)
	}
	if dbpool != nil {
		defer dbpool.Close()
	}

	// Хранилище сессий: Redis, если настроен, иначе память процесса
	sessions, redisClient, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Инициализация сервисов
	cameraService := service.NewCameraService(source, sessions, log, service.SettingsFromConfig(cfg))

	// Ошибка загрузки не останавливает сервер: страница останется пустой
	if err := cameraService.LoadDataset(ctx); err != nil {
		log.WithError(err).Error("Camera dataset is not available, serving empty page")
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(cameraService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Статика страницы и иконки маркеров
	router.StaticFile("/", filepath.Join(cfg.WebDir, "index.html"))
	router.StaticFile("/app.js", filepath.Join(cfg.WebDir, "app.js"))
	router.Static("/icons", filepath.Join(cfg.WebDir, "icons"))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: withCORS(cfg, router),
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}

func newDataSource(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.DataSource, *pgxpool.Pool, error) {
	if cfg.DataSource != config.SourcePostgres {
		log.Infof("Using CSV data source %s", cfg.CSVPath)
		return repository.NewCSVSource(cfg.CSVPath), nil, nil
	}

	// Запуск миграций
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		return nil, nil, err
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Successfully connected to PostgreSQL")
	return repository.NewPostgresSource(dbpool), dbpool, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.SessionStore, *redis.Client, error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR is not set, keeping sessions in memory")
		return repository.NewMemorySessionStore(cfg.SessionTTL), nil, nil
	}

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Successfully connected to Redis")
	return repository.NewRedisSessionStore(redisClient, cfg.SessionTTL), redisClient, nil
}

// withCORS оборачивает роутер, если заданы разрешенные источники
func withCORS(cfg *config.Config, router http.Handler) http.Handler {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return router
	}
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
	}).Handler(router)
}
