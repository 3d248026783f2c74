package jobs

import (
	"database/sql"

	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/config"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository/postgres"
	"rentalops-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db       *sql.DB
	store    *postgres.Store
	services *Services
	counters cache.CounterStore
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email        service.EmailService
	Notification service.NotificationService
}

// NewJobRunner creates a new job runner with all dependencies. counters may be
// nil when redis is not configured.
func NewJobRunner(db *sql.DB, store *postgres.Store, services *Services, counters cache.CounterStore, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:       db,
		store:    store,
		services: services,
		counters: counters,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.AccrueLateFees()
	jr.SendDepositExpiryWarnings()
}

// RunAllMonthlyJobs runs all monthly jobs (for manual execution)
func (jr *JobRunner) RunAllMonthlyJobs() {
	jr.TakePointsSnapshots()
}
