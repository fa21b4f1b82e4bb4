// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Pushkar-sharma02/e-Vote-Backend/metrics"
	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store"
)

var (
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAdminCannotVote     = errors.New("admin is not allowed to vote")
	ErrAlreadyVoted        = errors.New("user has already voted")
	ErrNotAdmin            = errors.New("user does not have admin role")
	ErrInvalidElectionType = errors.New("invalid election type")
)

// VoteResult describes a recorded vote.
type VoteResult struct {
	CandidateID string
	VoterID     string
	VotedAt     time.Time
}

// Service applies the voting rules on top of a store.
type Service struct {
	store   store.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService builds a service. m may be nil.
func NewService(st store.Store, m *metrics.Metrics) *Service {
	return &Service{store: st, metrics: m, now: time.Now}
}

// CastVote records one vote from voterID for candidateID.
//
// Checks run in this order, and the first failure wins: the candidate
// exists, the user exists, the user is not the admin, the user has not
// voted. The final check is repeated atomically by the store, so two
// concurrent calls for the same voter record at most one vote.
func (s *Service) CastVote(ctx context.Context, voterID, candidateID string) (VoteResult, error) {
	if _, err := s.store.GetCandidate(ctx, candidateID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.metrics.VoteRejected(metrics.ReasonCandidateNotFound)
			return VoteResult{}, ErrCandidateNotFound
		}
		return VoteResult{}, fmt.Errorf("loading candidate: %w", err)
	}

	user, err := s.store.GetUser(ctx, voterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.metrics.VoteRejected(metrics.ReasonUserNotFound)
			return VoteResult{}, ErrUserNotFound
		}
		return VoteResult{}, fmt.Errorf("loading user: %w", err)
	}

	if user.Role == models.RoleAdmin {
		s.metrics.VoteRejected(metrics.ReasonAdmin)
		return VoteResult{}, ErrAdminCannotVote
	}
	if user.IsVoted {
		s.metrics.VoteRejected(metrics.ReasonAlreadyVoted)
		return VoteResult{}, ErrAlreadyVoted
	}

	// Millisecond precision is the coarsest any backend keeps.
	votedAt := s.now().UTC().Truncate(time.Millisecond)

	err = s.store.RecordVote(ctx, voterID, candidateID, votedAt)
	switch {
	case errors.Is(err, store.ErrAlreadyVoted):
		// Lost the race against another submission for this voter.
		s.metrics.VoteRejected(metrics.ReasonAlreadyVoted)
		return VoteResult{}, ErrAlreadyVoted
	case errors.Is(err, store.ErrNotFound):
		// Candidate deleted between the check and the write.
		s.metrics.VoteRejected(metrics.ReasonCandidateNotFound)
		return VoteResult{}, ErrCandidateNotFound
	case err != nil:
		return VoteResult{}, fmt.Errorf("recording vote: %w", err)
	}

	s.metrics.VoteCast()
	slog.Info("vote recorded", "candidate_id", candidateID, "voter_id", voterID)

	return VoteResult{CandidateID: candidateID, VoterID: voterID, VotedAt: votedAt}, nil
}

// IsAdmin reports whether the user holds the admin role.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return false, ErrUserNotFound
	}
	if err != nil {
		return false, fmt.Errorf("loading user: %w", err)
	}
	return user.Role == models.RoleAdmin, nil
}

// RequireAdmin returns ErrNotAdmin unless the user holds the admin role.
func (s *Service) RequireAdmin(ctx context.Context, userID string) error {
	ok, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	return nil
}

// ListTally returns per-candidate counts, highest first, ties broken by
// candidate ID. An empty electionType covers every election; otherwise it
// is matched case-insensitively.
func (s *Service) ListTally(ctx context.Context, electionType string) ([]models.TallyEntry, error) {
	et, err := normalizeElectionType(electionType)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.Tally(ctx, et)
	if err != nil {
		return nil, fmt.Errorf("loading tally: %w", err)
	}

	tally := make([]models.TallyEntry, 0, len(candidates))
	for _, c := range candidates {
		tally = append(tally, models.TallyEntry{
			Name:         c.Name,
			Party:        c.Party,
			ElectionType: c.ElectionType,
			Count:        c.VoteCount,
		})
	}
	return tally, nil
}

// ListByElection returns the full candidate records, age and vote count
// included, standing in one election. Individual votes are not loaded.
func (s *Service) ListByElection(ctx context.Context, electionType string) ([]models.Candidate, error) {
	if electionType == "" {
		return nil, ErrInvalidElectionType
	}
	et, err := normalizeElectionType(electionType)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.ListCandidates(ctx, et)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	return candidates, nil
}

// ListCandidates returns every candidate in registration order.
func (s *Service) ListCandidates(ctx context.Context) ([]models.CandidateSummary, error) {
	candidates, err := s.store.ListCandidates(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	summaries := make([]models.CandidateSummary, 0, len(candidates))
	for _, c := range candidates {
		summaries = append(summaries, models.CandidateSummary{
			ID:           c.ID,
			Name:         c.Name,
			Party:        c.Party,
			ElectionType: c.ElectionType,
		})
	}
	return summaries, nil
}

func normalizeElectionType(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	et, ok := models.ParseElectionType(s)
	if !ok {
		return "", ErrInvalidElectionType
	}
	return et, nil
}
