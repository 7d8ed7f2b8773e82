package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

type StorageBackend string

const (
	StorageFile     StorageBackend = "file"
	StoragePostgres StorageBackend = "postgres"
	StorageMemory   StorageBackend = "memory"
)

const DEFAULT_PORT = "8123"
const DEFAULT_SAVE_DIR = "PlayerData"

type Config struct {
	port               string
	sentryDSN          string
	storage            StorageBackend
	saveDir            string
	dbConnectionString string
	catalogPath        string
	notifyURL          string
	corsOrigins        string
	otelEnabled        bool
	logLevel           slog.Level
	env                environment
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) Storage() StorageBackend {
	return c.storage
}

// Directory for per-player save files when using file storage
func (c *Config) SaveDir() string {
	return c.saveDir
}

func (c *Config) DBConnectionString() string {
	return c.dbConnectionString
}

// Path to the YAML award catalog. Empty if no catalog is configured.
func (c *Config) CatalogPath() string {
	return c.catalogPath
}

// URL of the host runtime's event endpoint. Empty if unlock notifications should only be logged.
func (c *Config) NotifyURL() string {
	return c.notifyURL
}

// Comma separated domain suffixes allowed to read player awards cross-origin
func (c *Config) CORSOrigins() string {
	return c.corsOrigins
}

func (c *Config) OTelEnabled() bool {
	return c.otelEnabled
}

func (c *Config) LogLevel() slog.Level {
	return c.logLevel
}

func (c *Config) Environment() string {
	return string(c.env)
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, port: %s, storage: %s, saveDir: %s, catalog: %s, otel: %t, logLevel: %s, ...}",
		string(c.env), c.port, string(c.storage), c.saveDir, c.catalogPath, c.otelEnabled, c.logLevel,
	)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}
	invalidValue := func(key, value string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s (%s)", ErrInvalidValue, key, value)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("AWARDS_ENVIRONMENT")
	if !ok {
		return missingKey("AWARDS_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return invalidValue("AWARDS_ENVIRONMENT", rawEnv)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = DEFAULT_PORT
	}

	var storage StorageBackend
	rawStorage := os.Getenv("AWARDS_STORAGE")
	switch rawStorage {
	case "", "file":
		storage = StorageFile
	case "postgres":
		storage = StoragePostgres
	case "memory":
		if env != development {
			// Progress would be lost on every restart
			return invalidValue("AWARDS_STORAGE", rawStorage)
		}
		storage = StorageMemory
	default:
		return invalidValue("AWARDS_STORAGE", rawStorage)
	}

	saveDir := os.Getenv("AWARDS_SAVE_DIR")
	if saveDir == "" {
		saveDir = DEFAULT_SAVE_DIR
	}

	otelEnabled := false
	if rawOTelEnabled := os.Getenv("OTEL_ENABLED"); rawOTelEnabled != "" {
		parsed, err := strconv.ParseBool(rawOTelEnabled)
		if err != nil {
			return invalidValue("OTEL_ENABLED", rawOTelEnabled)
		}
		otelEnabled = parsed
	}

	logLevel := slog.LevelInfo
	if env == development {
		logLevel = slog.LevelDebug
	}
	if rawLogLevel := os.Getenv("AWARDS_LOG_LEVEL"); rawLogLevel != "" {
		if err := logLevel.UnmarshalText([]byte(rawLogLevel)); err != nil {
			return invalidValue("AWARDS_LOG_LEVEL", rawLogLevel)
		}
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	dbConnectionString := os.Getenv("DB_CONNECTION_STRING")
	catalogPath := os.Getenv("AWARDS_CATALOG")
	notifyURL := os.Getenv("AWARDS_NOTIFY_URL")
	corsOrigins := os.Getenv("AWARDS_CORS_ORIGINS")

	if env == production || env == staging {
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
		if storage == StoragePostgres && dbConnectionString == "" {
			return missingKey("DB_CONNECTION_STRING")
		}
	}

	return Config{
		port:               port,
		sentryDSN:          sentryDSN,
		storage:            storage,
		saveDir:            saveDir,
		dbConnectionString: dbConnectionString,
		catalogPath:        catalogPath,
		notifyURL:          notifyURL,
		corsOrigins:        corsOrigins,
		otelEnabled:        otelEnabled,
		logLevel:           logLevel,
		env:                env,
	}, nil
}
