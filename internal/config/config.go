package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// taxRatePlaces matches the precision transactions store the rate with
const taxRatePlaces = 4

// Config holds all application configuration
type Config struct {
	Port        string
	Env         string
	USSDCode    string
	TaxRate     decimal.Decimal
	PINHashCost int
	Database    DatabaseConfig
	Session     SessionConfig
	Redis       RedisConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	MigrationsPath string
}

// SessionConfig holds dialog session settings
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// RedisConfig holds the location cache settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	LocationTTL time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "5000"),
		Env:      getEnv("APP_ENV", "production"),
		USSDCode: getEnv("USSD_CODE", "*384*36920#"),
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			Name:           getEnv("DB_NAME", "smarttax"),
			User:           getEnv("DB_USER", "smarttax"),
			Password:       os.Getenv("DB_PASSWORD"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	var err error
	if cfg.TaxRate, err = getDecimal("TAX_RATE", "0.18"); err != nil {
		return nil, err
	}
	if cfg.PINHashCost, err = getInt("PIN_HASH_COST", 0); err != nil {
		return nil, err
	}
	if cfg.Session.TTL, err = getDuration("SESSION_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Session.SweepInterval, err = getDuration("SESSION_SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Redis.LocationTTL, err = getDuration("LOCATION_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("TAX_RATE must be in [0, 1), got %s", c.TaxRate)
	}
	if !c.TaxRate.Equal(c.TaxRate.Round(taxRatePlaces)) {
		return fmt.Errorf("TAX_RATE allows at most %d decimal places, got %s", taxRatePlaces, c.TaxRate)
	}
	if c.PINHashCost != 0 && (c.PINHashCost < bcrypt.MinCost || c.PINHashCost > bcrypt.MaxCost) {
		return fmt.Errorf("PIN_HASH_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.Redis.LocationTTL <= 0 {
		return fmt.Errorf("LOCATION_CACHE_TTL must be positive")
	}
	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// IsDevelopment reports whether APP_ENV is development
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Enabled reports whether a redis address is configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
}

func getDecimal(key, defaultValue string) (decimal.Decimal, error) {
	value := getEnv(key, defaultValue)
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid number %q", key, value)
	}
	return d, nil
}
