package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database types
const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
	DatabaseMongo    = "mongodb"
)

const (
	DefaultPort       = 5000
	DefaultTokenTTL   = time.Hour
	DefaultCORSOrigin = "http://localhost:3000"
	DefaultSQLitePath = "evote.db"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	JWTSecret    string
	TokenTTL     time.Duration
	CORSOrigin   string
	LogLevel     slog.Level
}

// LoadDotEnv reads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var ttl, logLevel string

	fs := flag.NewFlagSet("e-vote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres, sqlite or mongodb)")
	fs.StringVar(&cfg.CORSOrigin, "cors-origin", "", "Allowed CORS origin (* allows any origin without credentials)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")
	fs.StringVar(&ttl, "token-ttl", "", "Token lifetime, e.g. 1h")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("MONGODB_URL")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = inferDatabaseType(cfg.DatabaseURL)
	}
	switch cfg.DatabaseType {
	case DatabasePostgres, DatabaseSQLite, DatabaseMongo:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != DatabaseSQLite {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLitePath
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if ttl == "" {
		ttl = os.Getenv("TOKEN_TTL")
	}
	cfg.TokenTTL = DefaultTokenTTL
	if ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid token TTL %q", ttl)
		}
		cfg.TokenTTL = d
	}

	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = os.Getenv("CORS_ORIGIN")
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = DefaultCORSOrigin
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
			return Config{}, fmt.Errorf("invalid log level %q", logLevel)
		}
	}

	return cfg, nil
}

func inferDatabaseType(url string) string {
	switch {
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DatabaseMongo
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DatabasePostgres
	default:
		return DatabaseSQLite
	}
}
