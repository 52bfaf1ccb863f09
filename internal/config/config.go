package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	LedgerBackendFile     = "file"
	LedgerBackendPostgres = "postgres"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Storage   StorageConfig   `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type StorageConfig struct {
	LedgerBackend   string `mapstructure:"LEDGER_BACKEND"`
	DataDir         string `mapstructure:"DATA_DIR"`
	AdvanceFile     string `mapstructure:"ADVANCE_FILE"`
	ExpenditureFile string `mapstructure:"EXPENDITURE_FILE"`
	IncomeFile      string `mapstructure:"INCOME_FILE"`
	ARCodeFile      string `mapstructure:"AR_CODE_FILE"`
	SpendCodeFile   string `mapstructure:"SPEND_CODE_FILE"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"REDIS_ENABLED"`
	Host     string        `mapstructure:"REDIS_HOST"`
	Port     string        `mapstructure:"REDIS_PORT"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	CacheTTL time.Duration `mapstructure:"SUMMARY_CACHE_TTL"`
}

type SchedulerConfig struct {
	OverdueCron string `mapstructure:"SCHEDULER_OVERDUE_CRON"`
	Timezone    string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	AdvanceTermDays    int    `mapstructure:"ADVANCE_TERM_DAYS"`
	InternalFundBudget string `mapstructure:"INTERNAL_FUND_BUDGET"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables, after loading envPath
// (or ./.env when present) into the environment.
func Load(envPath ...string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("LEDGER_BACKEND", LedgerBackendFile)
	v.SetDefault("DATA_DIR", "table")
	v.SetDefault("ADVANCE_FILE", "reserve_payment.xlsx")
	v.SetDefault("EXPENDITURE_FILE", "expend_data.xlsx")
	v.SetDefault("INCOME_FILE", "income_data.xlsx")
	v.SetDefault("AR_CODE_FILE", "ar_code.xlsx")
	v.SetDefault("SPEND_CODE_FILE", "unique_spend_code.csv")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "fund_ledger")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SUMMARY_CACHE_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ADVANCE_TERM_DAYS", 90)
	v.SetDefault("INTERNAL_FUND_BUDGET", "5000000")
	v.SetDefault("SCHEDULER_OVERDUE_CRON", "0 0 1 * * *")
	v.SetDefault("SCHEDULER_TIMEZONE", "Asia/Bangkok")
	v.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// An explicit env file must exist; the default .env is optional
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	// Read from environment variables
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Storage.LedgerBackend {
	case LedgerBackendFile:
	case LedgerBackendPostgres:
		if c.Database.DSN() == "" {
			return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required for the postgres ledger backend")
		}
	default:
		return fmt.Errorf("LEDGER_BACKEND must be %q or %q, got %q", LedgerBackendFile, LedgerBackendPostgres, c.Storage.LedgerBackend)
	}

	if c.Business.AdvanceTermDays <= 0 {
		return fmt.Errorf("ADVANCE_TERM_DAYS must be greater than 0")
	}

	if _, err := decimal.NewFromString(c.Business.InternalFundBudget); err != nil {
		return fmt.Errorf("INTERNAL_FUND_BUDGET must be a valid decimal: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid IANA zone: %w", err)
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Scheduler.OverdueCron); err != nil {
		return fmt.Errorf("SCHEDULER_OVERDUE_CRON must be a valid cron spec: %w", err)
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// DSN returns the postgres connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// UsesPostgresLedger reports whether advances are stored in postgres
func (c *Config) UsesPostgresLedger() bool {
	return c.Storage.LedgerBackend == LedgerBackendPostgres
}

// Path resolves a storage file name against DATA_DIR
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Storage.DataDir, name)
}

// GetInternalFundBudget returns the internal fund budget as decimal
func (c *Config) GetInternalFundBudget() decimal.Decimal {
	budget, _ := decimal.NewFromString(c.Business.InternalFundBudget)
	return budget
}

// GetLocation returns the time zone used to decide "today"
func (c *Config) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
