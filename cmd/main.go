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

	cancelBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_available_slots"
	getBarberScheduleHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_barber_schedule"
	getBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_booking"
	markPaidHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/mark_paid"
	noShowBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/no_show_booking"
	paymentWebhookHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/payment_webhook"
	updateBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/config"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/customer"
	paymentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/payment"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
	tenantRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-BarberBooking/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-BarberBooking/internal/lifecycle"
	"github.com/m04kA/SMC-BarberBooking/internal/notifier"
	bookingsService "github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	paymentsService "github.com/m04kA/SMC-BarberBooking/internal/service/payments"
	"github.com/m04kA/SMC-BarberBooking/internal/sweeper"
	"github.com/m04kA/SMC-BarberBooking/internal/tenant"
	createBookingUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/simpletxmanager"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
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

	log.Info("Starting SMC-BarberBooking...")
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

	// Клиент платёжного процессора
	gatewayClient := paymentgateway.NewClient(
		cfg.Payments.GatewayURL,
		time.Duration(cfg.Payments.Timeout)*time.Second,
		log,
	)
	signatureVerifier := paymentgateway.NewSignatureVerifier(cfg.Payments.WebhookSecret)
	log.Info("Payment gateway client initialized (url=%s timeout=%ds)",
		cfg.Payments.GatewayURL, cfg.Payments.Timeout)

	// Нотификатор: Twilio SMS или лог-заглушка
	var notify notifier.Notifier
	if cfg.Notifications.Enabled {
		notify = notifier.NewSMSNotifier(
			cfg.Notifications.TwilioAccountSID,
			cfg.Notifications.TwilioAuthToken,
			cfg.Notifications.TwilioFromNumber,
			log,
		)
		log.Info("SMS notifications enabled")
	} else {
		notify = notifier.NewLogNotifier(log)
		log.Info("SMS notifications disabled, using log notifier")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		paymentRepository  *paymentRepo.Repository
		tenantRepository   *tenantRepo.Repository
		staffRepository    *staffRepo.Repository
		catalogRepository  *catalogRepo.Repository
		customerRepository *customerRepo.Repository
	)

	// Интерфейс transaction manager, общий для обеих реализаций
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		tenantRepository = tenantRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		tenantRepository = tenantRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Валидатор переходов статусов
	transitionValidator := lifecycle.New()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		paymentRepository,
		customerRepository,
		transitionValidator,
		notify,
		txMgr,
		log,
	)
	paymentSvc := paymentsService.NewService(
		bookingRepository,
		paymentRepository,
		customerRepository,
		notify,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		staffRepository,
		catalogRepository,
		customerRepository,
		gatewayClient,
		txMgr,
		createBookingUC.Config{
			Currency:        cfg.Payments.Currency,
			MinDepositMinor: cfg.Payments.MinDepositMinor,
			DepositTTL:      time.Duration(cfg.Payments.DepositTTLMinute) * time.Minute,
		},
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		staffRepository,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		staffRepository,
		catalogRepository,
		log,
	)

	// Фоновая уборка просроченных бронирований
	expirySweeper := sweeper.New(
		bookingRepository,
		paymentRepository,
		customerRepository,
		notify,
		txMgr,
		cfg.Sweeper.BatchLimit,
		log,
	)
	if cfg.Sweeper.Enabled {
		if err := expirySweeper.Start(time.Duration(cfg.Sweeper.IntervalSeconds) * time.Second); err != nil {
			log.Fatal("Failed to start sweeper: %v", err)
		}
	} else {
		log.Info("Sweeper disabled")
	}

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	noShowBooking := noShowBookingHandler.NewHandler(bookingSvc, log)
	markPaid := markPaidHandler.NewHandler(bookingSvc, log)
	getBarberSchedule := getBarberScheduleHandler.NewHandler(bookingSvc, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(paymentSvc, signatureVerifier, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Пути, не требующие tenant: webhook процессора, health, metrics
	tenantSkip := []string{"/api/v1/payments/webhook", "/health", cfg.Metrics.Path}
	tenantResolver := tenant.NewResolver(cfg.Tenancy.IgnoredSubdomains)
	r.Use(middleware.Tenant(tenantResolver, tenantRepository, log, tenantSkip))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

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

	// Доступные слоты для записи
	api.HandleFunc("/barbers/{id}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Webhook платёжного процессора (подпись вместо аутентификации)
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}", updateBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{id}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Операции персонала ---
	protected.HandleFunc("/bookings/{id}/complete", middleware.RequireStaff(completeBooking.Handle)).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{id}/no-show", middleware.RequireStaff(noShowBooking.Handle)).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{id}/mark-paid", middleware.RequireStaff(markPaid.Handle)).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/barber/{id}/schedule", middleware.RequireStaff(getBarberSchedule.Handle)).Methods(http.MethodGet)

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

	if cfg.Sweeper.Enabled {
		expirySweeper.Stop()
	}

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
