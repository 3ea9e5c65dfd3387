package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hr-compliance-api/internal/config"
	"github.com/hr-compliance-api/internal/handler"
	"github.com/hr-compliance-api/internal/repository"
	"github.com/hr-compliance-api/internal/service"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func main() {
	// Инициализация логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключение к БД
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get sql.DB", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Запуск миграций
	if err := runMigrations(sqlDB); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	locRepo := repository.NewLocationRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	trainingRepo := repository.NewTrainingRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	exemptionRepo := repository.NewExemptionRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Инициализация сервисов
	scopeService := service.NewScopeService(userRepo, deptRepo, empRepo)
	authService := service.NewAuthService(userRepo, cfg.Auth.SessionSecret, cfg.Auth.TokenTTL)
	empService := service.NewEmployeeService(empRepo, deptRepo, locRepo, scopeService)
	deptService := service.NewDepartmentService(deptRepo, empRepo)
	locService := service.NewLocationService(locRepo, empRepo)
	trainingService := service.NewTrainingService(trainingRepo, recordRepo, deptRepo, locRepo)
	ticketService := service.NewTicketService(ticketRepo, recordRepo, deptRepo, locRepo)
	recordService := service.NewRecordService(recordRepo, empRepo, trainingRepo, ticketRepo, scopeService)
	exemptionService := service.NewExemptionService(exemptionRepo, empRepo, trainingRepo, ticketRepo, scopeService)
	reportService := service.NewReportService(trainingRepo, ticketRepo, empRepo, recordRepo, exemptionRepo, scopeService)
	historyService := service.NewHistoryService(historyRepo)

	// Настройка роутера
	router := handler.NewRouter(cfg, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, logger),
		Employee:   handler.NewEmployeeHandler(empService, logger),
		Department: handler.NewDepartmentHandler(deptService, logger),
		Location:   handler.NewLocationHandler(locService, logger),
		Training:   handler.NewTrainingHandler(trainingService, logger),
		Ticket:     handler.NewTicketHandler(ticketService, logger),
		Record:     handler.NewRecordHandler(recordService, logger),
		Exemption:  handler.NewExemptionHandler(exemptionService, logger),
		Report:     handler.NewReportHandler(reportService, logger),
		History:    handler.NewHistoryHandler(historyService, logger),
	}, logger)

	// Настройка HTTP сервера
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shutdown the server", slog.Any("error", err))
		}
		close(done)
	}()

	logger.Info("server is starting", slog.String("port", cfg.Server.Port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 30; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			sqlDB, _ := db.DB()
			if sqlDB.Ping() == nil {
				return db, nil
			}
		}
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database after 30 attempts: %w", err)
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
