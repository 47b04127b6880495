package config

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"carprice/internal/artifact"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Artifacts  ArtifactsConfig
	Catalog    CatalogConfig
	PostgreSQL PostgreSQLConfig
	Session    SessionConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	WebDir          string        `env:"WEB_DIR" envDefault:"./web"` // Templates and static files in development builds
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ArtifactsConfig locates the trained encoders and model
type ArtifactsConfig struct {
	Dir string `env:"ARTIFACT_DIR" envDefault:"./artifacts"`

	// Per-file overrides; empty means <Dir>/<default name>
	Brand        string `env:"ARTIFACT_LE_BRAND"`
	Model        string `env:"ARTIFACT_LE_MODEL"`
	Fuel         string `env:"ARTIFACT_LE_FUEL"`
	Seller       string `env:"ARTIFACT_LE_SELLER"`
	Transmission string `env:"ARTIFACT_LE_TRANS"`
	Owner        string `env:"ARTIFACT_LE_OWNER"`
	Features     string `env:"ARTIFACT_FEATURES"`
	Regressor    string `env:"ARTIFACT_MODEL"`

	ONNXLibraryPath string `env:"ORT_LIBRARY_PATH"` // onnxruntime shared library for onnx models
}

// CatalogConfig holds reference dataset configuration
type CatalogConfig struct {
	Source       string `env:"CATALOG_SOURCE" envDefault:"file"` // file (csv/xlsx) or postgres
	Path         string `env:"CATALOG_PATH" envDefault:"./data/Cardetails.csv"`
	Table        string `env:"CATALOG_TABLE" envDefault:"car_details"`
	OrderBy      string `env:"CATALOG_ORDER_BY"` // optional column keeping rows in file order
	EnforcePairs bool   `env:"CATALOG_ENFORCE_PAIRS" envDefault:"true"`
}

// Catalog sources
const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string `env:"DATABASE_URL"` // Full connection string, preferred when set
	Host               string `env:"PG_HOST" envDefault:"localhost"`
	Port               int    `env:"PG_PORT" envDefault:"5432"`
	User               string `env:"PG_USER" envDefault:"postgres"`
	Password           string `env:"PG_PASSWORD"`
	Database           string `env:"PG_DATABASE" envDefault:"carprice"`
	SSLMode            string `env:"PG_SSLMODE" envDefault:"disable"`
	MaxConnections     int    `env:"PG_MAX_CONNECTIONS" envDefault:"5"`
	MaxIdleConnections int    `env:"PG_MAX_IDLE_CONNECTIONS" envDefault:"1"`
}

// SessionConfig holds login session configuration
type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"carprice_session"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	Secure     bool          `env:"SESSION_SECURE" envDefault:"false"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the application cannot run with
func (c *Config) Validate() error {
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid GIN_MODE %q", c.Server.GinMode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	switch c.Catalog.Source {
	case CatalogSourceFile, CatalogSourcePostgres:
	default:
		return fmt.Errorf("invalid CATALOG_SOURCE %q, must be file or postgres", c.Catalog.Source)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("invalid SESSION_TTL %s", c.Session.TTL)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q, must be json or text", c.Logging.Format)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Paths resolves every artifact location
func (a ArtifactsConfig) Paths() artifact.Paths {
	p := artifact.DefaultPaths(a.Dir)
	override(&p.Brand, a.Brand)
	override(&p.Model, a.Model)
	override(&p.Fuel, a.Fuel)
	override(&p.Seller, a.Seller)
	override(&p.Transmission, a.Transmission)
	override(&p.Owner, a.Owner)
	override(&p.Features, a.Features)
	override(&p.Regressor, a.Regressor)
	return p
}

func override(dst *string, value string) {
	if value != "" {
		*dst = filepath.Clean(value)
	}
}

// NewLogger builds the structured logger described by the config
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}
