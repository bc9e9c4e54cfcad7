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

	autoScheduleHandler "github.com/autonexo/ANX-SchedulingService/internal/api/handlers/auto_schedule_booking"
	cancelBookingHandler "github.com/autonexo/ANX-SchedulingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/autonexo/ANX-SchedulingService/internal/api/handlers/check_availability"
	completeBookingHandler "github.com/autonexo/ANX-SchedulingService/internal/api/handlers/complete_booking"
	getBookingHandler "github.com/autonexo/ANX-SchedulingService/internal/api/handlers/get_booking"
	listBookingsHandler "github.com/autonexo/ANX-SchedulingService/internal/api/handlers/list_bookings"
	searchAvailabilityHandler "github.com/autonexo/ANX-SchedulingService/internal/api/handlers/search_availability"
	updateStatusHandler "github.com/autonexo/ANX-SchedulingService/internal/api/handlers/update_booking_status"
	"github.com/autonexo/ANX-SchedulingService/internal/api/middleware"
	"github.com/autonexo/ANX-SchedulingService/internal/config"
	bayRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/bay"
	bookingRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/booking"
	scheduleRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/schedule"
	workshopRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/workshop"
	notifyClient "github.com/autonexo/ANX-SchedulingService/internal/integrations/notify"
	bookingsService "github.com/autonexo/ANX-SchedulingService/internal/service/bookings"
	autoScheduleUC "github.com/autonexo/ANX-SchedulingService/internal/usecase/auto_schedule"
	checkAvailabilityUC "github.com/autonexo/ANX-SchedulingService/internal/usecase/check_availability"
	completeBookingUC "github.com/autonexo/ANX-SchedulingService/internal/usecase/complete_booking"
	findAvailabilityUC "github.com/autonexo/ANX-SchedulingService/internal/usecase/find_availability"
	"github.com/autonexo/ANX-SchedulingService/pkg/dbmetrics"
	"github.com/autonexo/ANX-SchedulingService/pkg/logger"
	"github.com/autonexo/ANX-SchedulingService/pkg/metrics"
	"github.com/autonexo/ANX-SchedulingService/pkg/simpletxmanager"
	"github.com/autonexo/ANX-SchedulingService/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting ANX-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Interface for the transaction manager used by the booking use case.
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	var (
		bookingRepository  *bookingRepo.Repository
		bayRepository      *bayRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		workshopRepository *workshopRepo.Repository
		txMgr              TxManager
	)

	snapshotTTL := time.Duration(cfg.Scheduling.SnapshotCacheTTLSeconds) * time.Second

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		bayRepository = bayRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		workshopRepository = workshopRepo.NewRepository(wrappedDB, snapshotTTL)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		bayRepository = bayRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		workshopRepository = workshopRepo.NewRepository(db, snapshotTTL)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	var notifier completeBookingUC.Notifier
	if cfg.Notify.Enabled {
		notifier = notifyClient.NewClient(
			cfg.Notify.URL,
			time.Duration(cfg.Notify.Timeout)*time.Second,
			log,
		)
		log.Info("Notification gateway client initialized (url=%s timeout=%ds)", cfg.Notify.URL, cfg.Notify.Timeout)
	}

	blocking := cfg.Scheduling.BlockingStatusList()

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		workshopRepository,
		log,
	)

	findAvailabilityUseCase := findAvailabilityUC.NewUseCase(
		workshopRepository,
		bayRepository,
		scheduleRepository,
		bookingRepository,
		blocking,
		findAvailabilityUC.Defaults{
			StepGranularityMin: cfg.Scheduling.StepGranularityMinutes,
			LeadTimeMin:        cfg.Scheduling.LeadTimeMinutes,
			SearchWindowDays:   cfg.Scheduling.SearchWindowDays,
			MaxProposals:       cfg.Scheduling.MaxProposals,
		},
		log,
	)

	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		workshopRepository,
		bayRepository,
		bookingRepository,
		blocking,
		log,
	)

	autoScheduleUseCase := autoScheduleUC.NewUseCase(
		workshopRepository,
		bayRepository,
		scheduleRepository,
		bookingRepository,
		txMgr,
		blocking,
		log,
	)

	completeBookingUseCase := completeBookingUC.NewUseCase(
		bookingRepository,
		workshopRepository,
		notifier,
		log,
	)

	searchAvailability := searchAvailabilityHandler.NewHandler(findAvailabilityUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	autoSchedule := autoScheduleHandler.NewHandler(autoScheduleUseCase, log)
	completeBooking := completeBookingHandler.NewHandler(completeBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateStatus := updateStatusHandler.NewHandler(bookingSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		r.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes

	// Availability search and point checks
	api.HandleFunc("/availability/search", searchAvailability.Handle).Methods(http.MethodPost)
	api.HandleFunc("/availability/check", checkAvailability.Handle).Methods(http.MethodGet)

	// Protected routes (require X-User-ID header)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Booking lifecycle
	protected.HandleFunc("/bookings/auto-schedule", autoSchedule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPost)

	// Workshop-scoped listing
	protected.HandleFunc("/workshops/{workshopId}/bookings", listBookings.Handle).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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
