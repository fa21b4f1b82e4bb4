// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the e-Vote API server.

e-Vote is a single-ballot election backend: citizens register with their
Aadhaar number, one admin manages candidates for Lok Sabha and State
Assembly elections, and every voter may cast exactly one vote.

# Starting the Server

Configuration comes from flags, the environment, or a .env file in the
working directory:

	JWT_SECRET=change-me DATABASE_URL=postgres://... go run .

Or with flags:

	go run . -p 5000 -d "mongodb://localhost:27017/voting" -jwt-secret change-me

# Configuration

Required settings:

  - JWT_SECRET (-jwt-secret): HMAC key for bearer tokens

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_URL or MONGODB_URL (-d): postgres://, mongodb:// or a SQLite path
  - DATABASE_TYPE (-t): postgres, sqlite or mongodb (inferred from the URL)
  - TOKEN_TTL (-token-ttl): token lifetime (default: 1h)
  - CORS_ORIGIN (-cors-origin): allowed browser origin
  - LOG_LEVEL (-log-level): debug, info, warn or error

# Architecture

  - handlers: HTTP request handlers (users, candidates, votes)
  - voting: vote admission and candidate management rules
  - store: persistence contract, with sqlstore and mongostore backends
  - router: Route definitions using Go 1.22+ routing
  - middleware: auth, CORS, logging, metrics, JSON helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: JWT issuance and bcrypt hashing
  - db: SQL schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
