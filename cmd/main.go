package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookingSessionHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/booking_session"
	cancelAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/cancel_appointment"
	catalogHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/catalog"
	confirmBookingHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/confirm_booking"
	getAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_appointment"
	getMonthAvailabilityHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_month_availability"
	getPatientAppointmentsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_patient_appointments"
	getStatusLogHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_status_log"
	listAppointmentsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/list_appointments"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/config"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/cache"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	patientRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/patient"
	scheduleRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/schedule"
	specialistRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/specialist"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/authprovider"
	appointmentsService "github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
	bookingService "github.com/m04kA/SMC-ClinicBookingService/internal/service/booking"
	catalogService "github.com/m04kA/SMC-ClinicBookingService/internal/service/catalog"
	createAppointmentUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_appointment"
	getMonthAvailabilityUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/get_month_availability"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/txmanager"
)

const sessionCleanupInterval = time.Minute

// publisher события турнов с закрытием соединения при остановке
type publisher interface {
	Publish(ctx context.Context, event events.AppointmentEvent) error
	Close() error
}

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

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

	log.Info("Starting SMC-ClinicBookingService...")
	log.Info("Configuration loaded from %s", *configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}

	// Метрики (nil, если выключены: методы *Metrics безопасны для nil)
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	specialistRepository := specialistRepo.NewRepository(wrappedDB)
	patientRepository := patientRepo.NewRepository(wrappedDB)

	// Кэш справочников (опционально)
	var catalogCache catalogService.Cache
	if cfg.Cache.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.NewClient(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		catalogCache = cache.NewRedisCache(redisClient, cfg.Cache.KeyPrefix, cfg.Cache.TTL())
		log.Info("Catalog cache enabled (addr=%s, ttl=%s)", cfg.Cache.Addr, cfg.Cache.TTL())
	}

	// События турнов (опционально)
	var eventPublisher publisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		rabbit, err := events.NewRabbitPublisher(cfg.Events.URL, cfg.Events.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to message broker: %v", err)
		}
		eventPublisher = rabbit
	}
	defer eventPublisher.Close()

	// Проверка access-токенов
	var tokenResolver middleware.TokenResolver
	switch cfg.Auth.Mode {
	case config.AuthModeRemote:
		tokenResolver = authprovider.NewClient(
			cfg.Auth.ProviderURL,
			cfg.Auth.APIKey,
			time.Duration(cfg.Auth.Timeout)*time.Second,
			log,
		)
		log.Info("Auth: remote provider %s (timeout=%ds)", cfg.Auth.ProviderURL, cfg.Auth.Timeout)
	default:
		tokenResolver = authprovider.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience)
		log.Info("Auth: local JWT verification (audience=%q)", cfg.Auth.Audience)
	}

	// Сервисы и use cases
	catalogSvc := catalogService.NewService(specialistRepository, scheduleRepository, catalogCache, log)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		specialistRepository,
		patientRepository,
		eventPublisher,
		metricsCollector,
		txMgr,
		location,
		log,
	)

	getMonthAvailabilityUseCase := getMonthAvailabilityUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		specialistRepository,
		location,
		log,
	)

	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		patientRepository,
		specialistRepository,
		eventPublisher,
		metricsCollector,
		txMgr,
		location,
		log,
	)

	sessionRegistry := bookingService.NewRegistry(bookingService.SessionDeps{
		Catalog:  catalogSvc,
		Creator:  createAppointmentUseCase,
		Location: location,
		Policy:   bookingService.Reentrancy(cfg.Booking.Reentrancy),
		TTL:      cfg.Booking.SessionTTL(),
		Logger:   log,
	}, metricsCollector)

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go sessionRegistry.Run(cleanupCtx, sessionCleanupInterval)
	log.Info("Booking sessions: ttl=%s, reentrancy=%s, timezone=%s",
		cfg.Booking.SessionTTL(), cfg.Booking.Reentrancy, location)

	// Инициализируем handlers
	catalog := catalogHandler.NewHandler(catalogSvc, log)
	getMonthAvailability := getMonthAvailabilityHandler.NewHandler(getMonthAvailabilityUseCase, log)
	bookingSession := bookingSessionHandler.NewHandler(sessionRegistry, log)
	confirmBooking := confirmBookingHandler.NewHandler(sessionRegistry, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(appointmentsSvc, log)
	getStatusLog := getStatusLogHandler.NewHandler(appointmentsSvc, log)

	confirmLimiter := middleware.NewRateLimiter(cfg.RateLimit.ConfirmRPS, cfg.RateLimit.ConfirmBurst, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/specialties", catalog.Specialties).Methods(http.MethodGet)
	api.HandleFunc("/specialists", catalog.Specialists).Methods(http.MethodGet)
	api.HandleFunc("/specialists/{specialistId}/schedule", catalog.Schedule).Methods(http.MethodGet)
	api.HandleFunc("/specialists/{specialistId}/specialties", catalog.SpecialistSpecialties).Methods(http.MethodGet)
	api.HandleFunc("/specialists/{specialistId}/availability", getMonthAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Authorization: Bearer <token>)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokenResolver, log))

	// --- Виджет записи ---
	protected.HandleFunc("/booking/sessions", bookingSession.Create).Methods(http.MethodPost)
	protected.HandleFunc("/booking/sessions/{sessionId}", bookingSession.Get).Methods(http.MethodGet)
	protected.HandleFunc("/booking/sessions/{sessionId}", bookingSession.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/booking/sessions/{sessionId}/specialist", bookingSession.SelectSpecialist).Methods(http.MethodPut)
	protected.HandleFunc("/booking/sessions/{sessionId}/specialty", bookingSession.SelectSpecialty).Methods(http.MethodPut)
	protected.HandleFunc("/booking/sessions/{sessionId}/month", bookingSession.ChangeMonth).Methods(http.MethodPost)
	protected.HandleFunc("/booking/sessions/{sessionId}/day", bookingSession.SelectDay).Methods(http.MethodPost)
	protected.HandleFunc("/booking/sessions/{sessionId}/dialog", bookingSession.CloseDialog).Methods(http.MethodDelete)
	protected.Handle("/booking/sessions/{sessionId}/confirm",
		confirmLimiter.Limit(http.HandlerFunc(confirmBooking.Handle))).Methods(http.MethodPost)

	// --- Турны пациента ---
	protected.HandleFunc("/me/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Администрация (роль проверяет сервис) ---
	protected.HandleFunc("/admin/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/admin/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/admin/status-log", getStatusLog.Handle).Methods(http.MethodGet)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopCleanup()
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
