package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wildhaven/config"
	"wildhaven/cron"
	"wildhaven/database"
	deviceRepo "wildhaven/database/repository/device"
	propertyRepo "wildhaven/database/repository/property"
	recordsRepo "wildhaven/database/repository/records"
	"wildhaven/handlers"
	"wildhaven/middleware"
	"wildhaven/routes"
	"wildhaven/services/flow"
	"wildhaven/services/notification"
	"wildhaven/services/property"
	"wildhaven/services/remote"
	"wildhaven/services/tasks"
	"wildhaven/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitFlowCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// Repositories.
	propRepo := propertyRepo.NewMongoPropertyRepo()
	archiveRepo := recordsRepo.NewMongoBookingArchiveRepo()
	devRepo := deviceRepo.NewMongoDeviceRepo()

	// Remote platform clients.
	backendClient := remote.NewHTTPBackendClient(
		config.AppConfig.BackendBaseURL,
		config.AppConfig.BackendAPIKey,
		logger,
	)
	paymentProvider := remote.NewStripePaymentProvider(logger)

	// Services.
	queueClient := tasks.NewQueueClient()
	notificationService, err := notification.NewDefaultNotificationService(devRepo, queueClient, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	propertyService := &property.DefaultPropertyService{
		Repo:    propRepo,
		Storage: cloudinaryStorageService,
		Logger:  logger,
	}

	flowService := &flow.DefaultFlowService{
		Store:      flow.NewRedisSessionStore(utils.GetFlowCacheClient()),
		Properties: propRepo,
		Backend:    backendClient,
		Gate:       &flow.AvailabilityGate{Backend: backendClient, Logger: logger},
		Payments:   &flow.PaymentProcessor{Backend: backendClient, Provider: paymentProvider, Logger: logger},
		Archive:    archiveRepo,
		Notifier:   notificationService,
		Logger:     logger,
	}

	// Wire handlers.
	handlers.FlowService = flowService
	handlers.PropertyService = propertyService
	handlers.BookingArchive = archiveRepo
	handlers.Devices = devRepo

	// Background reminder worker.
	cron.InitReminderWorker(notificationService)

	routes.RegisterRoutes(router)

	// Start the HTTP server.
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
