// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL backends.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on PostgreSQL and SQLite; timestamps are always bound by
the caller rather than defaulted by the server.

# Tables

  - users: credentials, role and the is_voted flag
  - candidates: contestants with a denormalized vote_count
  - votes: one row per cast vote

# Constraints

  - users.aadhar_card_number is unique (it is the login identifier)
  - idx_users_single_admin allows at most one row with role 'admin'
  - candidates.party is unique across all election types
  - votes.voter_id is unique, so a voter appears in at most one vote record
  - vote_count never goes negative
*/
package db
