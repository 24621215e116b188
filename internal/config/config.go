package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is passed explicitly to every constructor that needs settings.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Log      LogConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Driver   string // postgres | sqlite
	URL      string // DATABASE_URL, takes priority over the individual fields
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	Path     string // sqlite file path
}

type HTTPConfig struct {
	Port    string
	AppName string
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// EngineConfig tunes ledger behaviour.
type EngineConfig struct {
	TransferPolicy string // permissive | curated
}

type LogConfig struct {
	Level  string
	Format string // json | text
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional, the environment may already be populated
	_ = godotenv.Load()

	ttlHours, err := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_HOURS: %w", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "inventory"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
			Path:     getEnv("DB_PATH", "./data/inventory.db"),
		},
		HTTP: HTTPConfig{
			Port:    getEnv("PORT", "3000"),
			AppName: getEnv("APP_NAME", "Inventory Ledger v1.0"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
			Issuer: getEnv("JWT_ISSUER", "go-inventory-ledger"),
			TTL:    time.Duration(ttlHours) * time.Hour,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Engine: EngineConfig{
			TransferPolicy: getEnv("TRANSFER_POLICY", "permissive"),
		},
	}

	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if p := cfg.Engine.TransferPolicy; p != "permissive" && p != "curated" {
		return nil, fmt.Errorf("unsupported TRANSFER_POLICY %q", p)
	}
	return cfg, nil
}

// DSN builds the postgres connection string.
// Priority: DATABASE_URL > individual DB_* variables.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
