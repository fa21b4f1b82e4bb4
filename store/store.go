// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("duplicate record")
	ErrAdminExists = errors.New("an admin user already exists")
	// ErrAlreadyVoted means the admission gate rejected the voter: the
	// user has voted, is not a voter, or no longer exists.
	ErrAlreadyVoted = errors.New("voter is not eligible to vote")
)

// Users is the credential store.
type Users interface {
	// CreateUser returns ErrDuplicate for a taken Aadhaar number and
	// ErrAdminExists for a second admin.
	CreateUser(ctx context.Context, u models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByAadhar(ctx context.Context, aadhar string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	HasAdmin(ctx context.Context) (bool, error)
}

// Candidates is the candidate registry. Candidate values returned from it
// carry no Votes unless fetched through CandidateVotes.
type Candidates interface {
	// CreateCandidate returns ErrDuplicate when the party is taken.
	CreateCandidate(ctx context.Context, c models.Candidate) error
	GetCandidate(ctx context.Context, id string) (models.Candidate, error)
	CandidateVotes(ctx context.Context, id string) ([]models.Vote, error)
	// UpdateCandidate writes name, party, age and election type only.
	UpdateCandidate(ctx context.Context, c models.Candidate) error
	DeleteCandidate(ctx context.Context, id string) (models.Candidate, error)
	// ListCandidates filters by election type when electionType is non-empty.
	ListCandidates(ctx context.Context, electionType string) ([]models.Candidate, error)
	// Tally is ListCandidates ordered by vote count descending, ties by id.
	Tally(ctx context.Context, electionType string) ([]models.Candidate, error)
}

// Ballots records votes.
type Ballots interface {
	// RecordVote atomically flips the voter's isVoted flag, appends the vote
	// to the candidate's record and increments its count. If the gate
	// rejects the voter it returns ErrAlreadyVoted; if the candidate is gone
	// it returns ErrNotFound. Either way nothing is written.
	RecordVote(ctx context.Context, voterID, candidateID string, votedAt time.Time) error
}

// Store is the full persistence surface used by the service.
type Store interface {
	Users
	Candidates
	Ballots
	Ping(ctx context.Context) error
	Close() error
}
