package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without a tz database

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	RateLimit  RateLimitConfig
	Bootstrap  BootstrapConfig
}

type DatabaseConfig struct {
	Driver   string // postgres or memory
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
	Migrate  bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AttendanceConfig holds punch rules that are not stored per branch.
type AttendanceConfig struct {
	// DefaultTimezone decides the work day when neither the branch nor the
	// client has a timezone.
	DefaultTimezone     string
	OpenRecordsInterval time.Duration
}

type RateLimitConfig struct {
	PunchRequests int
	PunchWindow   time.Duration
}

// BootstrapConfig seeds the first super admin when both fields are set.
type BootstrapConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	migrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: maxConns,
		MinConns: minConns,
		Migrate:  migrate,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "attendance-cmlabs"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	openRecordsInterval, err := time.ParseDuration(getEnv("ATTENDANCE_OPEN_RECORDS_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_OPEN_RECORDS_INTERVAL: %w", err)
	}
	config.Attendance = AttendanceConfig{
		DefaultTimezone:     getEnv("ATTENDANCE_DEFAULT_TIMEZONE", "UTC"),
		OpenRecordsInterval: openRecordsInterval,
	}

	// Rate limit configuration
	punchRequests, err := strconv.Atoi(getEnv("RATE_LIMIT_PUNCH_REQUESTS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PUNCH_REQUESTS: %w", err)
	}
	punchWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_PUNCH_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PUNCH_WINDOW: %w", err)
	}
	config.RateLimit = RateLimitConfig{
		PunchRequests: punchRequests,
		PunchWindow:   punchWindow,
	}

	config.Bootstrap = BootstrapConfig{
		AdminName:     getEnv("BOOTSTRAP_ADMIN_NAME", "Super Admin"),
		AdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.Attendance.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_DEFAULT_TIMEZONE: %w", err)
	}
	if c.Attendance.OpenRecordsInterval <= 0 {
		return fmt.Errorf("ATTENDANCE_OPEN_RECORDS_INTERVAL must be positive")
	}
	if c.RateLimit.PunchRequests <= 0 || c.RateLimit.PunchWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_PUNCH_REQUESTS and RATE_LIMIT_PUNCH_WINDOW must be positive")
	}
	if (c.Bootstrap.AdminEmail == "") != (c.Bootstrap.AdminPassword == "") {
		return fmt.Errorf("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the default day-boundary location.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
