package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peerrent-backend/internal/config"
	"peerrent-backend/internal/database"
	"peerrent-backend/internal/events"
	"peerrent-backend/internal/jobs"
	"peerrent-backend/internal/logger"
	"peerrent-backend/internal/payments"
	"peerrent-backend/internal/push"
	"peerrent-backend/internal/realtime"
	"peerrent-backend/internal/repository/postgres"
	"peerrent-backend/internal/scheduler"
	"peerrent-backend/internal/security"
	"peerrent-backend/internal/service"

	httpapi "peerrent-backend/internal/api/http"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting PeerRent Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database (runs pending migrations)
	db, err := database.Open(cfg.GetDatabaseConnectionString(), cfg.Database.MigrationsDir)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	// Initialize Push Sender
	var pushSender push.Sender = push.NopSender{}
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := push.NewFCMSender(context.Background(), cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize FCM, push disabled", "error", err)
		} else {
			pushSender = fcm
			logger.Info("FCM push sender initialized")
		}
	}

	// Initialize Lifecycle Event Producer
	var producer events.Producer = events.NopProducer{}
	if len(cfg.Kafka.Brokers) > 0 {
		p, err := events.NewSaramaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Error("Failed to initialize Kafka producer, events disabled", "error", err)
		} else {
			producer = p
			defer producer.Close()
			logger.Info("Kafka producer initialized", "topic", cfg.Kafka.Topic)
		}
	}

	// Initialize Payment Intent Provider
	var intentClient payments.IntentClient
	switch cfg.Payments.Provider {
	case "", "mock":
		logger.Info("Using mock payment intent provider")
		intentClient = payments.NewMockIntentClient()
	default:
		logger.Error("Unsupported payment provider", "provider", cfg.Payments.Provider)
		log.Fatalf("Payment provider '%s' not yet implemented", cfg.Payments.Provider)
	}

	// Initialize Realtime Hub
	hub := realtime.NewHub()
	go hub.Run()

	// Initialize Services
	dispatcher := service.NewDispatcher(store.NotificationRepository, store.DeviceTokenRepository, hub, pushSender)
	availabilitySvc := service.NewAvailabilityService(
		store.RentalRequestRepository,
		store.ProductRepository,
		service.AvailabilityPolicy{
			PendingCap:   int32(cfg.Rental.PendingCap),
			AcceptWindow: time.Duration(cfg.Rental.AcceptWindowHours) * time.Hour,
		},
	)
	rentalSvc := service.NewRentalService(
		store.RentalRequestRepository,
		store.ProductRepository,
		store.UserRepository,
		availabilitySvc,
		dispatcher,
		emailSvc,
		producer,
		service.RentalPolicy{RequireOwnerApproval: cfg.Rental.RequireOwnerApproval},
	)
	paymentSvc := service.NewPaymentService(
		store.PaymentRepository,
		store.RentalRequestRepository,
		store.ProductRepository,
		store.UserRepository,
		intentClient,
		dispatcher,
		emailSvc,
		producer,
		cfg.Payments.Currency,
	)
	returnSvc := service.NewReturnService(
		store.ReturnRepository,
		store.RentalRequestRepository,
		store.ProductRepository,
		store.UserRepository,
		dispatcher,
		emailSvc,
		producer,
	)
	productSvc := service.NewProductService(store.ProductRepository, store.UserRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository, store.DeviceTokenRepository)

	// Initialize Router
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Tokens:        tokenManager,
		Rentals:       rentalSvc,
		Availability:  availabilitySvc,
		Payments:      paymentSvc,
		Returns:       returnSvc,
		Products:      productSvc,
		Notifications: noteSvc,
		Hub:           hub,
	})

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(store, &jobs.Services{Email: emailSvc, Dispatcher: dispatcher}, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
