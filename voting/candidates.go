// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Pushkar-sharma02/e-Vote-Backend/auth"
	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store"
)

var (
	ErrInvalidCandidate = errors.New("invalid candidate")
	ErrPartyTaken       = errors.New("party already has a candidate")
)

// CreateCandidate registers a candidate on behalf of actorID, who must be
// the admin.
func (s *Service) CreateCandidate(ctx context.Context, actorID string, req models.CandidateRequest) (models.Candidate, error) {
	if err := s.RequireAdmin(ctx, actorID); err != nil {
		return models.Candidate{}, err
	}

	c := models.Candidate{
		Name:  strings.TrimSpace(req.Name),
		Party: strings.TrimSpace(req.Party),
		Age:   req.Age,
	}
	switch {
	case c.Name == "":
		return models.Candidate{}, fmt.Errorf("%w: name is required", ErrInvalidCandidate)
	case c.Party == "":
		return models.Candidate{}, fmt.Errorf("%w: party is required", ErrInvalidCandidate)
	case c.Age <= 0:
		return models.Candidate{}, fmt.Errorf("%w: age must be positive", ErrInvalidCandidate)
	}
	et, ok := models.ParseElectionType(req.ElectionType)
	if !ok {
		return models.Candidate{}, ErrInvalidElectionType
	}
	c.ElectionType = et

	id, err := auth.GenerateID()
	if err != nil {
		return models.Candidate{}, err
	}
	c.ID = id
	c.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	if err := s.store.CreateCandidate(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.Candidate{}, ErrPartyTaken
		}
		return models.Candidate{}, fmt.Errorf("creating candidate: %w", err)
	}

	slog.Info("candidate created", "candidate_id", c.ID, "party", c.Party, "election_type", c.ElectionType)
	return c, nil
}

// UpdateCandidate applies the non-zero fields of req. The vote record and
// count cannot be changed this way.
func (s *Service) UpdateCandidate(ctx context.Context, actorID, candidateID string, req models.CandidateRequest) (models.Candidate, error) {
	if err := s.RequireAdmin(ctx, actorID); err != nil {
		return models.Candidate{}, err
	}

	c, err := s.store.GetCandidate(ctx, candidateID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Candidate{}, ErrCandidateNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("loading candidate: %w", err)
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		c.Name = name
	}
	if party := strings.TrimSpace(req.Party); party != "" {
		c.Party = party
	}
	if req.Age < 0 {
		return models.Candidate{}, fmt.Errorf("%w: age must be positive", ErrInvalidCandidate)
	}
	if req.Age > 0 {
		c.Age = req.Age
	}
	if req.ElectionType != "" {
		et, ok := models.ParseElectionType(req.ElectionType)
		if !ok {
			return models.Candidate{}, ErrInvalidElectionType
		}
		c.ElectionType = et
	}

	err = s.store.UpdateCandidate(ctx, c)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return models.Candidate{}, ErrPartyTaken
	case errors.Is(err, store.ErrNotFound):
		return models.Candidate{}, ErrCandidateNotFound
	case err != nil:
		return models.Candidate{}, fmt.Errorf("updating candidate: %w", err)
	}

	slog.Info("candidate updated", "candidate_id", c.ID)
	return c, nil
}

// DeleteCandidate removes a candidate and its vote record. Voters who chose
// it stay marked as having voted.
func (s *Service) DeleteCandidate(ctx context.Context, actorID, candidateID string) (models.Candidate, error) {
	if err := s.RequireAdmin(ctx, actorID); err != nil {
		return models.Candidate{}, err
	}

	c, err := s.store.DeleteCandidate(ctx, candidateID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Candidate{}, ErrCandidateNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("deleting candidate: %w", err)
	}

	slog.Info("candidate deleted", "candidate_id", c.ID, "vote_count", c.VoteCount)
	return c, nil
}

// GetCandidate returns a candidate with its full vote record.
func (s *Service) GetCandidate(ctx context.Context, candidateID string) (models.Candidate, error) {
	c, err := s.store.GetCandidate(ctx, candidateID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Candidate{}, ErrCandidateNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("loading candidate: %w", err)
	}

	votes, err := s.store.CandidateVotes(ctx, candidateID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Candidate{}, ErrCandidateNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("loading votes: %w", err)
	}
	c.Votes = votes
	return c, nil
}
