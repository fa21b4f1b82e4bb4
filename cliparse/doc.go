// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		// malformed .env file
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv never overrides variables already present in the environment.

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: connection string; defaults to evote.db for sqlite
  - DatabaseType: postgres, sqlite or mongodb (inferred from the URL scheme)
  - JWTSecret: HS256 signing secret (required)
  - TokenTTL: token lifetime (default: 1h)
  - CORSOrigin: allowed browser origin (default: http://localhost:3000)
  - LogLevel: slog level (default: info)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-jwt-secret   JWT signing secret
	-token-ttl    Token lifetime
	-cors-origin  Allowed CORS origin
	-log-level    Log level

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d (then MONGODB_URL)
	DATABASE_TYPE → -t
	JWT_SECRET    → -jwt-secret
	TOKEN_TTL     → -token-ttl
	CORS_ORIGIN   → -cors-origin
	LOG_LEVEL     → -log-level

CLI flags take precedence over environment variables.
*/
package cliparse
