package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "rentalops-backend/internal/api/http"
	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/config"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository/postgres"
	"rentalops-backend/internal/security"
	"rentalops-backend/internal/service"
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
	logger.Info("Starting RentalOps Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Redis cache; the app runs without it, invalidation becomes a
	// no-op and dashboard reads fall back to SQL.
	var (
		invalidator cache.Invalidator = cache.Noop{}
		counters    cache.CounterStore
	)
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err)
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		invalidator = redisCache
		counters = redisCache
		logger.Info("Redis cache connected", "addr", cfg.Redis.Addr)
	} else {
		logger.Info("Redis not configured, running without cache")
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	// Initialize Services
	rates := cfg.PricingRates()
	loyaltyRules := service.LoyaltyRules{
		PointsPerDollar:       cfg.Loyalty.PointsPerDollar,
		ExcludeTaxes:          cfg.Loyalty.ExcludeTaxes,
		IncludeAddOns:         cfg.Loyalty.IncludeAddOns,
		RedeemPointsPerDollar: cfg.Loyalty.RedeemPointsPerDollar,
		MaxPercentOfTotal:     cfg.Loyalty.MaxPercentOfTotal,
	}

	authSvc := service.NewAuthService(store.StaffRepository, tokenManager)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.VehicleRepository,
		store.CustomerRepository,
		emailSvc,
		invalidator,
		rates,
	)
	paymentSvc := service.NewPaymentService(store.PaymentRepository, store.BookingRepository, invalidator)
	depositSvc := service.NewDepositService(
		store.DepositRepository,
		store.BookingRepository,
		store.CustomerRepository,
		emailSvc,
		invalidator,
		cfg.Deposit.ExpiryWarningDays,
	)
	settlementSvc := service.NewSettlementService(
		store.BookingRepository,
		store.PaymentRepository,
		store.DepositRepository,
		store.CustomerRepository,
		depositSvc,
		emailSvc,
		invalidator,
	)
	loyaltySvc := service.NewLoyaltyService(
		store.PointsRepository,
		store.CustomerRepository,
		emailSvc,
		invalidator,
		loyaltyRules,
	)
	fleetSvc := service.NewFleetService(store.VehicleRepository, invalidator)
	notificationSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP handlers
	handlers := httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authSvc),
		Booking:      httpapi.NewBookingHandler(bookingSvc, paymentSvc),
		Deposit:      httpapi.NewDepositHandler(depositSvc),
		Settlement:   httpapi.NewSettlementHandler(settlementSvc),
		Loyalty:      httpapi.NewLoyaltyHandler(loyaltySvc),
		Fleet:        httpapi.NewFleetHandler(fleetSvc),
		Dashboard:    httpapi.NewDashboardHandler(store.BookingRepository, store.DepositRepository, counters),
		Notification: httpapi.NewNotificationHandler(notificationSvc),
	}
	router := httpapi.NewRouter(handlers, authMiddleware)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
