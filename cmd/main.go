package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_booking"
	createPaymentHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_payment"
	deleteAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/delete_availability"
	getAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_booking"
	getTimeSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_time_slots"
	listBookingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_bookings"
	paymentWebhookHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/payment_webhook"
	putAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/put_availability"
	updateBookingStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/infra/broker"
	availabilityCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/availability"
	availabilityRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	outboxRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/outbox"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/brevo"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/coinbase"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/stripepay"
	userServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/userservice"
	availabilityService "github.com/m04kA/SMC-ReservationService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-ReservationService/internal/service/bookings"
	confirmPaymentUC "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_payment"
	createBookingUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
	createPaymentUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_payment"
	getTimeSlotsUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_time_slots"
	"github.com/m04kA/SMC-ReservationService/internal/worker/notifier"
	"github.com/m04kA/SMC-ReservationService/internal/worker/outboxrelay"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
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

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
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

	// Обёртка замеряет запросы только при включённых метриках, транзакции через контекст работают всегда
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)

	// Кэш доступности (опционален: без Redis чтения идут в БД)
	var cache availabilityService.Cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s, reads will fall back to database: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
		pingCancel()
		cache = availabilityCache.NewCache(redisClient, time.Duration(cfg.Cache.AvailabilityTTL)*time.Second)
	}

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	stripeClient := stripepay.NewClient(stripepay.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Payments.SuccessURL,
		CancelURL:     cfg.Payments.CancelURL,
	})
	coinbaseClient := coinbase.NewClient(coinbase.Config{
		BaseURL:       cfg.Coinbase.URL,
		APIKey:        cfg.Coinbase.APIKey,
		WebhookSecret: cfg.Coinbase.WebhookSecret,
		SuccessURL:    cfg.Payments.SuccessURL,
		CancelURL:     cfg.Payments.CancelURL,
		Timeout:       time.Duration(cfg.Coinbase.Timeout) * time.Second,
	})
	brevoClient := brevo.NewClient(brevo.Config{
		BaseURL:     cfg.Brevo.URL,
		APIKey:      cfg.Brevo.APIKey,
		SenderName:  cfg.Brevo.SenderName,
		SenderEmail: cfg.Brevo.SenderEmail,
		SMSSender:   cfg.Brevo.SMSSender,
		Timeout:     time.Duration(cfg.Brevo.Timeout) * time.Second,
	})
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, Coinbase=%s, Brevo=%s)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.Coinbase.URL, cfg.Brevo.URL)

	clock := &getTimeSlotsUC.RealTimeProvider{Location: cfg.Location()}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		outboxRepository,
		txMgr,
		clock,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		cache,
		log,
	)

	// Инициализируем use cases
	getTimeSlotsUseCase := getTimeSlotsUC.NewUseCase(clock, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		outboxRepository,
		userClient,
		txMgr,
		clock,
		log,
	)

	createPaymentUseCase := createPaymentUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		[]createPaymentUC.PaymentGateway{stripeClient, coinbaseClient},
		*cfg.Payments.CommissionPercent,
		log,
	)

	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		paymentRepository,
		bookingSvc,
		outboxRepository,
		[]confirmPaymentUC.WebhookParser{stripeClient, coinbaseClient},
		txMgr,
		clock,
		log,
	)

	// Фоновые воркеры: outbox -> (RabbitMQ) -> уведомления
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	var notifierMetrics notifier.Metrics
	var relayMetrics outboxrelay.Metrics
	if metricsCollector != nil {
		notifierMetrics = metricsCollector
		relayMetrics = metricsCollector
	}
	notify := notifier.NewNotifier(userClient, brevoClient, notifierMetrics, log)

	var publisher outboxrelay.Publisher
	var rabbitPublisher *broker.Publisher
	if cfg.Broker.Enabled {
		rabbitPublisher = broker.NewPublisher(cfg.Broker.URL, cfg.Broker.Queue, log)
		publisher = rabbitPublisher

		consumer := broker.NewConsumer(cfg.Broker.URL, cfg.Broker.Queue, log)
		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := consumer.Run(workersCtx, notify.Handle); err != nil && workersCtx.Err() == nil {
				log.Error("Notification consumer stopped: %v", err)
			}
		}()
		log.Info("Broker enabled, queue=%s", cfg.Broker.Queue)
	} else {
		publisher = broker.NewInProcessPublisher(notify.Handle)
		log.Info("Broker disabled, outbox events are delivered in-process")
	}

	relay := outboxrelay.NewRelay(
		outboxrelay.Config{
			PollInterval: time.Duration(cfg.Outbox.PollInterval) * time.Millisecond,
			BatchSize:    cfg.Outbox.BatchSize,
			MaxAttempts:  cfg.Outbox.MaxAttempts,
			BaseBackoff:  time.Duration(cfg.Outbox.BaseBackoff) * time.Second,
			MaxBackoff:   time.Duration(cfg.Outbox.MaxBackoff) * time.Second,
		},
		outboxRepository,
		publisher,
		txMgr,
		relayMetrics,
		clock,
		log,
	)
	workers.Add(1)
	go func() {
		defer workers.Done()
		relay.Run(workersCtx)
	}()

	// Инициализируем handlers
	getTimeSlots := getTimeSlotsHandler.NewHandler(getTimeSlotsUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	putAvailability := putAvailabilityHandler.NewHandler(availabilitySvc, log)
	deleteAvailability := deleteAvailabilityHandler.NewHandler(availabilitySvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	createPayment := createPaymentHandler.NewHandler(createPaymentUseCase, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(confirmPaymentUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка 30-минутных слотов на дату
	api.HandleFunc("/time-slots", getTimeSlots.Handle).Methods(http.MethodGet)

	// Доступность исполнителей
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Webhooks платёжных провайдеров (подпись проверяется внутри)
	api.HandleFunc("/webhooks/{provider}", paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют Authorization: Bearer <JWT>)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret))

	// --- Доступность (только сам исполнитель) ---
	protected.HandleFunc("/availability", putAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/availability", deleteAvailability.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Платежи ---
	protected.HandleFunc("/payments", createPayment.Handle).Methods(http.MethodPost)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем воркеры после HTTP: новые события в outbox больше не появятся
	stopWorkers()
	workers.Wait()
	log.Info("Background workers stopped")

	if rabbitPublisher != nil {
		_ = rabbitPublisher.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
