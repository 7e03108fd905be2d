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

	createRuleHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/create_rule"
	createServiceRuleHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/create_service_rule"
	deleteRuleHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/delete_rule"
	deleteServiceRuleHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/delete_service_rule"
	getRuleHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/get_rule"
	getRuleHistoryHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/get_rule_history"
	getSettingsHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/get_settings"
	listRulesHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/list_rules"
	listServiceRulesHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/list_service_rules"
	updateRuleHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/update_rule"
	updateServiceRuleHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/update_service_rule"
	updateSettingsHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/update_settings"
	validateBookingHandler "github.com/sharpcut/SharpCut-RulesService/internal/api/handlers/validate_booking"
	"github.com/sharpcut/SharpCut-RulesService/internal/api/middleware"
	"github.com/sharpcut/SharpCut-RulesService/internal/config"
	auditlogRepo "github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/auditlog"
	rulesRepo "github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/rules"
	serviceRulesRepo "github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/servicerules"
	settingsRepo "github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/settings"
	clientServiceClient "github.com/sharpcut/SharpCut-RulesService/internal/integrations/clientservice"
	rulesService "github.com/sharpcut/SharpCut-RulesService/internal/service/rules"
	settingsService "github.com/sharpcut/SharpCut-RulesService/internal/service/settings"
	validateBookingUC "github.com/sharpcut/SharpCut-RulesService/internal/usecase/validate_booking"
	"github.com/sharpcut/SharpCut-RulesService/pkg/dbmetrics"
	"github.com/sharpcut/SharpCut-RulesService/pkg/logger"
	"github.com/sharpcut/SharpCut-RulesService/pkg/metrics"
	"github.com/sharpcut/SharpCut-RulesService/pkg/simpletxmanager"
	"github.com/sharpcut/SharpCut-RulesService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SharpCut-RulesService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем интеграционного клиента ClientService
	clientClient := clientServiceClient.NewClient(
		cfg.ClientService.URL,
		time.Duration(cfg.ClientService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (ClientService=%s timeout=%ds)",
		cfg.ClientService.URL, cfg.ClientService.Timeout)

	// Интерфейс для transaction manager (используется в сервисах и usecase)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		ruleRepository        *rulesRepo.Repository
		serviceRuleRepository *serviceRulesRepo.Repository
		settingsRepository    *settingsRepo.Repository
		auditRepository       *auditlogRepo.Repository
		txMgr                 TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		ruleRepository = rulesRepo.NewRepository(wrappedDB)
		serviceRuleRepository = serviceRulesRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		auditRepository = auditlogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		ruleRepository = rulesRepo.NewRepository(db)
		serviceRuleRepository = serviceRulesRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		auditRepository = auditlogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	rulesSvc := rulesService.NewService(
		ruleRepository,
		serviceRuleRepository,
		auditRepository,
		txMgr,
		log,
	)
	settingsSvc := settingsService.NewService(
		settingsRepository,
		auditRepository,
		txMgr,
		log,
	)

	// Инициализируем use case валидации
	validateBookingUseCase := validateBookingUC.NewUseCase(
		ruleRepository,
		serviceRuleRepository,
		settingsRepository,
		clientClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	validateBooking := validateBookingHandler.NewHandler(validateBookingUseCase, metricsCollector, log)
	createRule := createRuleHandler.NewHandler(rulesSvc, log)
	listRules := listRulesHandler.NewHandler(rulesSvc, log)
	getRule := getRuleHandler.NewHandler(rulesSvc, log)
	getRuleHistory := getRuleHistoryHandler.NewHandler(rulesSvc, log)
	updateRule := updateRuleHandler.NewHandler(rulesSvc, log)
	deleteRule := deleteRuleHandler.NewHandler(rulesSvc, log)
	createServiceRule := createServiceRuleHandler.NewHandler(rulesSvc, log)
	listServiceRules := listServiceRulesHandler.NewHandler(rulesSvc, log)
	updateServiceRule := updateServiceRuleHandler.NewHandler(rulesSvc, log)
	deleteServiceRule := deleteServiceRuleHandler.NewHandler(rulesSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Валидация кандидата бронирования (вызывается booking-сервисом)
	api.HandleFunc("/bookings/validate", validateBooking.Handle).Methods(http.MethodPost)

	// Чтение настроек бронирования
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Глобальные правила ---
	protected.HandleFunc("/rules", createRule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/rules", listRules.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/rules/{ruleId}", getRule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/rules/{ruleId}/history", getRuleHistory.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/rules/{ruleId}", updateRule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/rules/{ruleId}", deleteRule.Handle).Methods(http.MethodDelete)

	// --- Правила услуг ---
	protected.HandleFunc("/services/{serviceId}/rules", createServiceRule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/services/{serviceId}/rules", listServiceRules.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/service-rules/{ruleId}", updateServiceRule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/service-rules/{ruleId}", deleteServiceRule.Handle).Methods(http.MethodDelete)

	// --- Настройки бронирования ---
	protected.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
