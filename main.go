package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"reserva/config"
	"reserva/cron"
	"reserva/database"
	bookingRepoPkg "reserva/database/repository/booking"
	scheduleRepoPkg "reserva/database/repository/schedule"
	"reserva/handlers"
	"reserva/routes"
	"reserva/services/availability"
	"reserva/services/booking"
	"reserva/services/events"
	"reserva/services/provider"
	"reserva/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockCache()

	// Repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	scheduleRepo := scheduleRepoPkg.NewMongoScheduleRepo()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer bootCancel()
	if err := bookingRepo.EnsureIndexes(bootCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	if err := scheduleRepo.EnsureIndexes(bootCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure schedule indexes: %v", err)
	}

	// Event bus.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	dispatcher := events.NewAsynqDispatcher(asynqClient, logger)

	consumers := &events.Consumers{
		Notifier:  &events.LogNotifier{Logger: logger},
		Loyalty:   &events.LogLoyaltyAwarder{Logger: logger},
		Analytics: &events.LogAnalyticsRefresher{Logger: logger},
		Logger:    logger,
	}
	cron.InitEventWorker(consumers)

	// Services.
	resolver := availability.NewResolver(logger)
	resolver.CutoffMinutes = config.AppConfig.SameDayCutoffMinutes
	resolver.StepMinutes = config.AppConfig.SlotStepMinutes

	trackingSvc := &booking.TrackingService{
		Repo:   bookingRepo,
		Cache:  utils.GetCacheClient(),
		TTL:    time.Duration(config.AppConfig.TrackingCacheTTLSecs) * time.Second,
		Logger: logger,
	}

	lifecycle := &booking.Lifecycle{
		Repo:       bookingRepo,
		Refunds:    booking.RefundEngine{},
		Dispatcher: dispatcher,
		Tracking:   trackingSvc,
		Logger:     logger,
	}

	coordinator := &booking.Coordinator{
		Bookings:  bookingRepo,
		Schedules: scheduleRepo,
		Resolver:  resolver,
		Numbers:   &booking.NumberGenerator{Repo: bookingRepo},
		Locker: &booking.RedisLocker{
			Client: utils.GetLockClient(),
			TTL:    10 * time.Second,
		},
		Dispatcher:  dispatcher,
		Logger:      logger,
		LockTimeout: time.Duration(config.AppConfig.ReserveLockTimeoutMS) * time.Millisecond,
	}

	bookingService := &booking.DefaultBookingService{
		Coordinator: coordinator,
		Lifecycle:   lifecycle,
		TrackingSvc: trackingSvc,
		Repo:        bookingRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	}

	scheduleService := &provider.DefaultScheduleService{
		Repo:     scheduleRepo,
		Bookings: bookingRepo,
		Resolver: resolver,
		Logger:   logger,
	}

	// HTTP surface.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := handlers.NewHandlerBundle(bookingService, scheduleService)
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
