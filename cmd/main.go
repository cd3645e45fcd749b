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
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/create_booking"
	deleteBusinessConfigHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/delete_business_config"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/get_business_bookings"
	getBusinessConfigHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/get_business_config"
	getCustomerBookingsHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/get_customer_bookings"
	healthHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/health"
	listBusinessConfigsHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/list_business_configs"
	updateBookingStatusHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/update_booking_status"
	updateBusinessConfigHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/update_business_config"
	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/config"
	bookingRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/config"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SlotScheduler/internal/jobs/expire_pending"
	bookingsService "github.com/m04kA/SMC-SlotScheduler/internal/service/bookings"
	configService "github.com/m04kA/SMC-SlotScheduler/internal/service/config"
	createBookingUC "github.com/m04kA/SMC-SlotScheduler/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SlotScheduler/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SlotScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/metrics"
	"github.com/m04kA/SMC-SlotScheduler/pkg/txmanager"
)

const (
	configPath         = "config.toml"
	expireJobTimeout   = 30 * time.Second
	rateLimitKeyPrefix = "slot-scheduler:ratelimit"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-SlotScheduler...")
	log.Info("Configuration loaded from %s", configPath)

	// Счетчики пишутся всегда, metrics.enabled управляет их публикацией
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(config.Seconds(cfg.Database.ConnMaxLifetime))

	// Проверяем соединение
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancelPing()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории и менеджер транзакций работают через одну обертку
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	configRepository := configRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем клиента каталога бизнесов
	businessClient := businessservice.NewClient(
		cfg.BusinessService.URL,
		config.Seconds(cfg.BusinessService.Timeout),
		businessservice.BreakerSettings{
			MaxRequests:         cfg.BusinessService.BreakerMaxRequests,
			Interval:            config.Seconds(cfg.BusinessService.BreakerInterval),
			Timeout:             config.Seconds(cfg.BusinessService.BreakerTimeout),
			ConsecutiveFailures: cfg.BusinessService.BreakerConsecutiveFailures,
		},
		metricsCollector,
		log,
	)
	log.Info("Integration client initialized (BusinessService=%s timeout=%ds)",
		cfg.BusinessService.URL, cfg.BusinessService.Timeout)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, businessClient, txMgr, log)
	configSvc := configService.NewService(configRepository, businessClient, txMgr, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		configRepository,
		businessClient,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		configRepository,
		businessClient,
		metricsCollector,
		log,
	)

	// Фоновая отмена неподтвержденных бронирований
	var expireJob *expire_pending.Job
	if cfg.Jobs.ExpirePendingSchedule != "" {
		expireJob, err = expire_pending.NewJob(
			bookingRepository,
			time.Duration(cfg.Jobs.PendingTTL)*time.Minute,
			expireJobTimeout,
			log.With("component", "expire_pending"),
		)
		if err != nil {
			log.Fatal("Failed to create expire_pending job: %v", err)
		}
		if err := expireJob.Start(cfg.Jobs.ExpirePendingSchedule); err != nil {
			log.Fatal("Failed to start expire_pending job: %v", err)
		}
		log.Info("expire_pending job scheduled (%s, ttl=%dm)", cfg.Jobs.ExpirePendingSchedule, cfg.Jobs.PendingTTL)
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessConfig := getBusinessConfigHandler.NewHandler(configSvc, log)
	listBusinessConfigs := listBusinessConfigsHandler.NewHandler(configSvc, log)
	updateBusinessConfig := updateBusinessConfigHandler.NewHandler(configSvc, log)
	deleteBusinessConfig := deleteBusinessConfigHandler.NewHandler(configSvc, log)
	health := healthHandler.NewHandler(wrappedDB, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расчет доступных слотов (с ограничением частоты запросов)
	var slotsHandler http.Handler = http.HandlerFunc(getAvailableSlots.Handle)
	if cfg.RateLimit.Enabled {
		limiter, closeLimiter := newRateLimiter(cfg, log)
		defer closeLimiter()
		proxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
		if err != nil {
			log.Fatal("Invalid rate_limit.trusted_proxies: %v", err)
		}
		slotsHandler = middleware.RateLimit(limiter, proxies, log)(slotsHandler)
	}
	api.Handle("/businesses/{businessId}/available-slots", slotsHandler).Methods(http.MethodGet)

	// Действующая конфигурация слотов
	api.HandleFunc("/businesses/{businessId}/config", getBusinessConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для менеджеров) ---
	protected.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/configs", listBusinessConfigs.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/config", updateBusinessConfig.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/config", deleteBusinessConfig.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  config.Seconds(cfg.Server.ReadTimeout),
		WriteTimeout: config.Seconds(cfg.Server.WriteTimeout),
		IdleTimeout:  config.Seconds(cfg.Server.IdleTimeout),
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		config.Seconds(cfg.Server.ShutdownTimeout),
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся текущего запуска фоновой задачи
	if expireJob != nil {
		expireJob.Stop(shutdownCtx)
		log.Info("expire_pending job stopped")
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// newRateLimiter создает лимитер на Redis или, если Redis выключен, в памяти процесса
func newRateLimiter(cfg *config.Config, log *logger.Logger) (middleware.Limiter, func()) {
	window := config.Seconds(cfg.RateLimit.Window)

	if !cfg.Redis.Enabled {
		log.Info("Rate limit: in-memory, %d requests per %s", cfg.RateLimit.Requests, window)
		return middleware.NewLocalLimiter(cfg.RateLimit.Requests, window), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Лимитер пропускает запросы при недоступном Redis, старт не блокируем
		log.Warn("Rate limit: redis %s is unavailable: %v", cfg.Redis.Addr, err)
	}

	log.Info("Rate limit: redis %s, %d requests per %s", cfg.Redis.Addr, cfg.RateLimit.Requests, window)
	return middleware.NewRedisLimiter(rdb, cfg.RateLimit.Requests, window, rateLimitKeyPrefix), func() {
		_ = rdb.Close()
	}
}
