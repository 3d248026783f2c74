package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rentalops-backend/internal/pricing"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Loyalty   LoyaltyConfig   `yaml:"loyalty"`
	Deposit   DepositConfig   `yaml:"deposit"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// RedisConfig contains cache settings. Leave Addr empty to run without Redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SendGridConfig contains email settings. An empty API key disables sending.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PricingConfig contains tax rates and regulatory per-day fees
type PricingConfig struct {
	PSTRate               float64 `yaml:"pst_rate"`
	GSTRate               float64 `yaml:"gst_rate"`
	PVRTDailyCents        int32   `yaml:"pvrt_daily_cents"`
	ACSRCHDailyCents      int32   `yaml:"acsrch_daily_cents"`
	YoungDriverDailyCents int32   `yaml:"young_driver_daily_cents"`
}

// LoyaltyConfig contains the points program settings
type LoyaltyConfig struct {
	PointsPerDollar       int32 `yaml:"points_per_dollar"`
	ExcludeTaxes          bool  `yaml:"exclude_taxes"`
	IncludeAddOns         bool  `yaml:"include_add_ons"`
	RedeemPointsPerDollar int32 `yaml:"redeem_points_per_dollar"`
	MaxPercentOfTotal     int32 `yaml:"max_percent_of_total"`
}

// DepositConfig contains deposit hold settings
type DepositConfig struct {
	ExpiryWarningDays int `yaml:"expiry_warning_days"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	AccrueLateFees            string `yaml:"accrue_late_fees"`
	SendDepositExpiryWarnings string `yaml:"send_deposit_expiry_warnings"`
	TakePointsSnapshots       string `yaml:"take_points_snapshots"`
	RefreshDashboardCounters  string `yaml:"refresh_dashboard_counters"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60 // 1 hour
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 60 * 24 * 7 // 7 days
	}

	// Pricing defaults: BC rates
	if c.Pricing.PSTRate == 0 {
		c.Pricing.PSTRate = 0.07
	}
	if c.Pricing.GSTRate == 0 {
		c.Pricing.GSTRate = 0.05
	}
	if c.Pricing.PVRTDailyCents == 0 {
		c.Pricing.PVRTDailyCents = 150 // $1.50/day
	}
	if c.Pricing.ACSRCHDailyCents == 0 {
		c.Pricing.ACSRCHDailyCents = 100 // $1.00/day
	}
	if c.Pricing.YoungDriverDailyCents == 0 {
		c.Pricing.YoungDriverDailyCents = 2500 // $25.00/day
	}

	// Loyalty defaults
	if c.Loyalty.PointsPerDollar == 0 {
		c.Loyalty.PointsPerDollar = 10
	}
	if c.Loyalty.RedeemPointsPerDollar == 0 {
		c.Loyalty.RedeemPointsPerDollar = 100
	}
	if c.Loyalty.MaxPercentOfTotal == 0 {
		c.Loyalty.MaxPercentOfTotal = 50
	}

	// Deposit defaults
	if c.Deposit.ExpiryWarningDays == 0 {
		c.Deposit.ExpiryWarningDays = 2
	}

	// Scheduler defaults
	if c.Scheduler.AccrueLateFees == "" {
		c.Scheduler.AccrueLateFees = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendDepositExpiryWarnings == "" {
		c.Scheduler.SendDepositExpiryWarnings = "0 0 9 * * *" // 9 AM UTC
	}
	if c.Scheduler.TakePointsSnapshots == "" {
		c.Scheduler.TakePointsSnapshots = "0 30 0 1 * *" // First of month at 12:30 AM UTC
	}
	if c.Scheduler.RefreshDashboardCounters == "" {
		c.Scheduler.RefreshDashboardCounters = "0 */5 * * * *" // Every 5 minutes
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PricingRates converts the pricing section to the engine's rate table.
func (c *Config) PricingRates() pricing.Rates {
	return pricing.Rates{
		PSTRate:               c.Pricing.PSTRate,
		GSTRate:               c.Pricing.GSTRate,
		PVRTDailyCents:        c.Pricing.PVRTDailyCents,
		ACSRCHDailyCents:      c.Pricing.ACSRCHDailyCents,
		YoungDriverDailyCents: c.Pricing.YoungDriverDailyCents,
	}
}
