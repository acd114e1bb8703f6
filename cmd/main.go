package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	cancelSessionHandler "github.com/m04kA/SMC-InfusionService/internal/api/handlers/cancel_session"
	confirmSessionHandler "github.com/m04kA/SMC-InfusionService/internal/api/handlers/confirm_session"
	createSessionHandler "github.com/m04kA/SMC-InfusionService/internal/api/handlers/create_session"
	getDailyScheduleHandler "github.com/m04kA/SMC-InfusionService/internal/api/handlers/get_daily_schedule"
	validateSessionHandler "github.com/m04kA/SMC-InfusionService/internal/api/handlers/validate_session"
	"github.com/m04kA/SMC-InfusionService/internal/api/middleware"
	"github.com/m04kA/SMC-InfusionService/internal/config"
	catalogRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/catalog"
	ingredientRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/ingredient"
	scheduleRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/schedule"
	sessionRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/session"
	"github.com/m04kA/SMC-InfusionService/internal/service/inventory"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots"
	getDailyScheduleUC "github.com/m04kA/SMC-InfusionService/internal/usecase/get_daily_schedule"
	"github.com/m04kA/SMC-InfusionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InfusionService/pkg/logger"
	"github.com/m04kA/SMC-InfusionService/pkg/metrics"
	"github.com/m04kA/SMC-InfusionService/pkg/txmanager"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to TOML config file")
	pflag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-InfusionService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены).
	// Методы *metrics.Metrics допускают nil, поэтому выключенные метрики просто ничего не пишут.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Оборачиваем БД: с метриками собираем длительность запросов и статистику пула
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	sessionRepository := sessionRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	ingredientRepository := ingredientRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	ledger := inventory.NewLedger(ingredientRepository, log)
	slotsSvc := slots.NewService(
		sessionRepository,
		scheduleRepository,
		ingredientRepository,
		catalogRepository,
		ledger,
		txMgr,
		metricsCollector,
		log,
		slots.Config{EnforceDailyLoad: cfg.Scheduling.EnforceDailyLoad},
	)
	log.Info("Scheduling configured (enforce_daily_load=%t)", cfg.Scheduling.EnforceDailyLoad)

	// Инициализируем use cases
	getDailyScheduleUseCase := getDailyScheduleUC.NewUseCase(
		scheduleRepository,
		sessionRepository,
		catalogRepository,
		ingredientRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getDailySchedule := getDailyScheduleHandler.NewHandler(getDailyScheduleUseCase, log)
	validateSession := validateSessionHandler.NewHandler(slotsSvc, log)
	createSession := createSessionHandler.NewHandler(slotsSvc, log)
	confirmSession := confirmSessionHandler.NewHandler(slotsSvc, log)
	cancelSession := cancelSessionHandler.NewHandler(slotsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Расписание ---
	// Расписание дня
	api.HandleFunc("/schedules/{date}", getDailySchedule.Handle).Methods(http.MethodGet)

	// Предпросмотр конфликтов (ничего не сохраняет)
	api.HandleFunc("/schedules/{date}/sessions/validate", validateSession.Handle).Methods(http.MethodPost)

	// Создание сеанса
	api.HandleFunc("/schedules/{date}/sessions", createSession.Handle).Methods(http.MethodPost)

	// --- Жизненный цикл сеанса ---
	// Подтверждение (списание расходников)
	api.HandleFunc("/sessions/{sessionId}/confirm", confirmSession.Handle).Methods(http.MethodPost)

	// Отмена (?restoreInventory=false, чтобы не возвращать расходники)
	api.HandleFunc("/sessions/{sessionId}", cancelSession.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
