package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"folio_backend/database"
	"folio_backend/internal/config"
	"folio_backend/internal/handlers"
	"folio_backend/internal/logger"
	"folio_backend/internal/middleware"
	"folio_backend/internal/repositories"
	"folio_backend/internal/routes"
	"folio_backend/internal/services"
	"folio_backend/internal/validator"
	"folio_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(openDialector(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to the database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Schema migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	sweeper := workers.NewSessionSweeper(gormDB, repositories.NewUserRepository(), cfg.Auth.SessionExpirationSeconds)
	go sweeper.Start(sweeperCtx)

	server := &http.Server{
		Addr:    cfg.Server.BindAddress,
		Handler: ginRouter,
	}

	go func() {
		logger.Info("Server starting", "address", cfg.Server.BindAddress, "base_path", cfg.Server.BasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	stopSweeper()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

// SetupRouter wires repositories, services and handlers into a gin engine.
// Tests reuse it against their own database handle.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	userRepo := repositories.NewUserRepository()
	portfolioRepo := repositories.NewPortfolioRepository()
	workRepo := repositories.NewWorkRepository()
	bigFileRepo := repositories.NewBigFileRepository()

	authService := services.NewAuthService(userRepo)
	portfolioService := services.NewPortfolioService(portfolioRepo)
	workService := services.NewWorkService(workRepo)
	fileService := services.NewFileService(bigFileRepo)

	base := handlers.NewBaseHandler(validator.New())
	appHandlers := &routes.Handlers{
		Health:    handlers.NewHealthHandler(base),
		User:      handlers.NewUserHandler(base, authService),
		Portfolio: handlers.NewPortfolioHandler(base, authService, portfolioService),
		Work:      handlers.NewWorkHandler(base, authService, workService),
		File:      handlers.NewFileHandler(base, authService, fileService),
	}

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, cfg.Server.BasePath, appHandlers)
	return ginRouter
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.CORSMiddleware(),
		middleware.DBMiddleware(gormDB),
	)
	return ginRouter
}

// openDialector picks the gorm driver from the DSN's scheme. Anything that
// is not explicitly MySQL is handed to the postgres driver, which parses
// postgres:// and postgresql:// URLs itself.
func openDialector(dsn string) gorm.Dialector {
	if rest, found := strings.CutPrefix(dsn, "mysql://"); found {
		return mysql.Open(rest)
	}
	return postgres.Open(dsn)
}
