package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/config"
	"rentalops-backend/internal/jobs"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository/postgres"
	"rentalops-backend/internal/scheduler"
	"rentalops-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'accrue-late-fees', 'all-nightly', 'all-monthly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentalOps Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Redis counter cache (optional)
	var counters cache.CounterStore
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		redisCache, err = cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err)
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		counters = redisCache
	}

	// Initialize Services
	emailService := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	notificationService := service.NewNotificationService(store.NotificationRepository)

	jobServices := &jobs.Services{
		Email:        emailService,
		Notification: notificationService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, counters, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Refresh counters as soon as writes invalidate them, instead of waiting
	// for the next scheduled run.
	subCtx, cancelSub := context.WithCancel(context.Background())
	defer cancelSub()
	if redisCache != nil {
		go func() {
			for payload := range redisCache.Subscribe(subCtx) {
				logger.Debug("Invalidation received", "payload", payload)
				jobRunner.RefreshDashboardCounters()
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cancelSub()
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "accrue-late-fees":
		jobRunner.AccrueLateFees()
	case "send-deposit-expiry-warnings":
		jobRunner.SendDepositExpiryWarnings()
	case "take-points-snapshots":
		jobRunner.TakePointsSnapshots()
	case "refresh-dashboard-counters":
		jobRunner.RefreshDashboardCounters()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	case "all-monthly":
		jobRunner.RunAllMonthlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - accrue-late-fees\n")
		fmt.Printf("  - send-deposit-expiry-warnings\n")
		fmt.Printf("  - take-points-snapshots\n")
		fmt.Printf("  - refresh-dashboard-counters\n")
		fmt.Printf("  - all-nightly\n")
		fmt.Printf("  - all-monthly\n")
		os.Exit(1)
	}
}
