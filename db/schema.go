// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Index names referenced by the store when classifying constraint errors.
const (
	SingleAdminIndex = "idx_users_single_admin"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by PostgreSQL and SQLite.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users (voters and the single administrator)
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    age INTEGER NOT NULL,
    email TEXT,
    mobile TEXT,
    address TEXT NOT NULL,
    aadhar_card_number TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'voter' CHECK (role IN ('voter', 'admin')),
    is_voted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_single_admin ON users(role) WHERE role = 'admin';

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    party TEXT NOT NULL UNIQUE,
    age INTEGER NOT NULL,
    election_type TEXT NOT NULL CHECK (election_type IN ('LokSabha', 'StateAssembly')),
    vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidates_election_type ON candidates(election_type);
CREATE INDEX IF NOT EXISTS idx_candidates_vote_count ON candidates(vote_count DESC, id);

-- Votes: one row per voter, across all candidates
CREATE TABLE IF NOT EXISTS votes (
    candidate_id TEXT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    voted_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_votes_candidate ON votes(candidate_id, voted_at);
`
