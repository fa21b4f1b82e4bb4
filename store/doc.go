// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store defines the persistence interfaces and their sentinel errors.

Implementations live in sub-packages:

  - sqlstore: PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite)
  - mongostore: MongoDB, using multi-document transactions

# Errors

Implementations translate driver errors into:

  - ErrNotFound: no row/document with that key
  - ErrDuplicate: a unique constraint (Aadhaar number, party) was hit
  - ErrAdminExists: the single-admin constraint was hit
  - ErrAlreadyVoted: the vote admission gate matched nothing

# Vote Admission

RecordVote is the only place a vote is written. Every implementation runs
the same three steps in one transaction:

 1. flip users.isVoted from false to true where role is voter
 2. increment the candidate's count
 3. append (voter, time) to the candidate's vote record

Step 1 is conditional; when it matches no row the transaction is abandoned.
Two concurrent submissions for the same voter therefore serialize on the
user row and exactly one commits.
*/
package store
