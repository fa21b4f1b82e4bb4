// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package mongostore implements store.Store on MongoDB.

# Collections

  - users: one document per user, _id is the user ID
  - candidates: one document per candidate with an embedded votes array
    of {user, votedAt} and a voteCount kept equal to its length

# Indexes

EnsureIndexes creates:

  - users.aadharCardNumber unique
  - users.role unique, partial on role = "admin" (one admin at most)
  - candidates.party unique
  - candidates.votes.user unique across documents
  - candidates.electionType and (voteCount desc, _id) for listing

# Transactions

RecordVote runs the admission gate and the candidate update inside
session.WithTransaction, so the server must be a replica set or sharded
cluster. Write conflicts between concurrent submissions are retried by the
driver; the retry sees isVoted already set and is rejected.
*/
package mongostore
