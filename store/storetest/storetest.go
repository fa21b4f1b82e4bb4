// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package storetest holds behavior tests every store.Store implementation
// must pass. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store"
)

// Factory returns an empty store. The suite closes it.
type Factory func(t *testing.T) store.Store

// Run executes the suite, one fresh store per subtest.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"Users", testUsers},
		{"SingleAdmin", testSingleAdmin},
		{"Candidates", testCandidates},
		{"DeleteCandidate", testDeleteCandidate},
		{"RecordVote", testRecordVote},
		{"RecordVoteRejections", testRecordVoteRejections},
		{"ConcurrentRecordVote", testConcurrentRecordVote},
		{"Tally", testTally},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { s.Close() })
			tt.fn(t, s)
		})
	}
}

var base = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func user(id, aadhar, role string) models.User {
	return models.User{
		ID:               id,
		Name:             "User " + id,
		Age:              30,
		Address:          "1 Main Road",
		AadharCardNumber: aadhar,
		PasswordHash:     "hash",
		Role:             role,
		CreatedAt:        base,
	}
}

func candidate(id, party, electionType string) models.Candidate {
	return models.Candidate{
		ID:           id,
		Name:         "Candidate " + id,
		Party:        party,
		Age:          45,
		ElectionType: electionType,
		CreatedAt:    base,
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	u := user("u1", "111111111111", models.RoleVoter)
	u.Email = "u1@example.com"
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, u.Email, got.Email)
	assert.Empty(t, got.Mobile)
	assert.Equal(t, models.RoleVoter, got.Role)
	assert.False(t, got.IsVoted)
	assert.WithinDuration(t, base, got.CreatedAt, time.Second)

	byAadhar, err := s.GetUserByAadhar(ctx, "111111111111")
	require.NoError(t, err)
	assert.Equal(t, "u1", byAadhar.ID)

	err = s.CreateUser(ctx, user("u2", "111111111111", models.RoleVoter))
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetUserByAadhar(ctx, "000000000000")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.UpdatePassword(ctx, "u1", "new-hash"))
	got, err = s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	assert.ErrorIs(t, s.UpdatePassword(ctx, "missing", "x"), store.ErrNotFound)
}

func testSingleAdmin(t *testing.T, s store.Store) {
	ctx := context.Background()

	has, err := s.HasAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.CreateUser(ctx, user("a1", "100000000001", models.RoleAdmin)))

	has, err = s.HasAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	err = s.CreateUser(ctx, user("a2", "100000000002", models.RoleAdmin))
	assert.ErrorIs(t, err, store.ErrAdminExists)

	// Voters are unaffected by the admin constraint
	require.NoError(t, s.CreateUser(ctx, user("v1", "100000000003", models.RoleVoter)))
	require.NoError(t, s.CreateUser(ctx, user("v2", "100000000004", models.RoleVoter)))
}

func testCandidates(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateCandidate(ctx, candidate("c1", "Alpha", models.ElectionLokSabha)))
	require.NoError(t, s.CreateCandidate(ctx, candidate("c2", "Beta", models.ElectionStateAssembly)))

	err := s.CreateCandidate(ctx, candidate("c3", "Alpha", models.ElectionStateAssembly))
	assert.ErrorIs(t, err, store.ErrDuplicate, "party is unique across election types")

	got, err := s.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Party)
	assert.Equal(t, 0, got.VoteCount)
	assert.Empty(t, got.Votes)

	_, err = s.GetCandidate(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	all, err := s.ListCandidates(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	lok, err := s.ListCandidates(ctx, models.ElectionLokSabha)
	require.NoError(t, err)
	require.Len(t, lok, 1)
	assert.Equal(t, "c1", lok[0].ID)

	got.Name = "Renamed"
	got.Party = "Gamma"
	got.Age = 50
	got.ElectionType = models.ElectionStateAssembly
	require.NoError(t, s.UpdateCandidate(ctx, got))

	updated, err := s.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Gamma", updated.Party)
	assert.Equal(t, 50, updated.Age)
	assert.Equal(t, models.ElectionStateAssembly, updated.ElectionType)

	updated.Party = "Beta"
	assert.ErrorIs(t, s.UpdateCandidate(ctx, updated), store.ErrDuplicate)

	assert.ErrorIs(t, s.UpdateCandidate(ctx, candidate("missing", "Delta", models.ElectionLokSabha)), store.ErrNotFound)

	_, err = s.CandidateVotes(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteCandidate(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, user("v1", "200000000001", models.RoleVoter)))
	require.NoError(t, s.CreateCandidate(ctx, candidate("c1", "Alpha", models.ElectionLokSabha)))
	require.NoError(t, s.RecordVote(ctx, "v1", "c1", base))

	deleted, err := s.DeleteCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", deleted.Party)
	assert.Equal(t, 1, deleted.VoteCount)

	_, err = s.GetCandidate(ctx, "c1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.DeleteCandidate(ctx, "c1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The party name is free again
	require.NoError(t, s.CreateCandidate(ctx, candidate("c2", "Alpha", models.ElectionLokSabha)))
}

func testRecordVote(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, user("v1", "300000000001", models.RoleVoter)))
	require.NoError(t, s.CreateUser(ctx, user("v2", "300000000002", models.RoleVoter)))
	require.NoError(t, s.CreateCandidate(ctx, candidate("c1", "Alpha", models.ElectionLokSabha)))

	require.NoError(t, s.RecordVote(ctx, "v1", "c1", base))
	require.NoError(t, s.RecordVote(ctx, "v2", "c1", base.Add(time.Minute)))

	u, err := s.GetUser(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, u.IsVoted)

	c, err := s.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.VoteCount)

	votes, err := s.CandidateVotes(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, votes, c.VoteCount)
	assert.Equal(t, "v1", votes[0].VoterID)
	assert.Equal(t, "v2", votes[1].VoterID)
	assert.WithinDuration(t, base, votes[0].VotedAt, time.Millisecond)
}

func testRecordVoteRejections(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, user("v1", "400000000001", models.RoleVoter)))
	require.NoError(t, s.CreateUser(ctx, user("a1", "400000000002", models.RoleAdmin)))
	require.NoError(t, s.CreateCandidate(ctx, candidate("c1", "Alpha", models.ElectionLokSabha)))
	require.NoError(t, s.CreateCandidate(ctx, candidate("c2", "Beta", models.ElectionLokSabha)))

	// Missing candidate leaves the voter untouched
	err := s.RecordVote(ctx, "v1", "missing", base)
	assert.ErrorIs(t, err, store.ErrNotFound)
	u, err := s.GetUser(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, u.IsVoted, "failed vote must not mark the voter")

	assert.ErrorIs(t, s.RecordVote(ctx, "a1", "c1", base), store.ErrAlreadyVoted)
	assert.ErrorIs(t, s.RecordVote(ctx, "missing", "c1", base), store.ErrAlreadyVoted)

	require.NoError(t, s.RecordVote(ctx, "v1", "c1", base))
	assert.ErrorIs(t, s.RecordVote(ctx, "v1", "c2", base), store.ErrAlreadyVoted)
	assert.ErrorIs(t, s.RecordVote(ctx, "v1", "c1", base), store.ErrAlreadyVoted)

	for _, id := range []string{"c1", "c2"} {
		c, err := s.GetCandidate(ctx, id)
		require.NoError(t, err)
		votes, err := s.CandidateVotes(ctx, id)
		require.NoError(t, err)
		assert.Len(t, votes, c.VoteCount, "count matches record for %s", id)
	}
}

func testConcurrentRecordVote(t *testing.T, s store.Store) {
	ctx := context.Background()
	const attempts = 10

	require.NoError(t, s.CreateUser(ctx, user("v1", "500000000001", models.RoleVoter)))
	for i := 0; i < attempts; i++ {
		require.NoError(t, s.CreateCandidate(ctx, candidate(fmt.Sprintf("c%d", i), fmt.Sprintf("Party %d", i), models.ElectionLokSabha)))
	}

	var wg sync.WaitGroup
	var successes, rejected atomic.Int32
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.RecordVote(ctx, "v1", fmt.Sprintf("c%d", i), base)
			switch {
			case err == nil:
				successes.Add(1)
			case assert.ErrorIs(t, err, store.ErrAlreadyVoted):
				rejected.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load(), "exactly one vote commits")
	assert.Equal(t, int32(attempts-1), rejected.Load())

	tally, err := s.Tally(ctx, "")
	require.NoError(t, err)
	total := 0
	for _, c := range tally {
		total += c.VoteCount
	}
	assert.Equal(t, 1, total)
}

func testTally(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateCandidate(ctx, candidate("b", "Beta", models.ElectionLokSabha)))
	require.NoError(t, s.CreateCandidate(ctx, candidate("a", "Alpha", models.ElectionLokSabha)))
	require.NoError(t, s.CreateCandidate(ctx, candidate("c", "Gamma", models.ElectionStateAssembly)))

	// All zero: ordered by id
	tally, err := s.Tally(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(tally))

	for i, cid := range []string{"c", "c", "b"} {
		vid := fmt.Sprintf("v%d", i)
		require.NoError(t, s.CreateUser(ctx, user(vid, fmt.Sprintf("60000000000%d", i), models.RoleVoter)))
		require.NoError(t, s.RecordVote(ctx, vid, cid, base))
	}

	tally, err = s.Tally(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(tally))
	assert.Equal(t, []int{2, 1, 0}, counts(tally))

	lok, err := s.Tally(ctx, models.ElectionLokSabha)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(lok))
}

func ids(cs []models.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func counts(cs []models.Candidate) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.VoteCount
	}
	return out
}
