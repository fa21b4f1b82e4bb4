// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting holds the election rules: who may vote, who may manage
candidates, and how counts are reported.

# Casting a Vote

	res, err := svc.CastVote(ctx, voterID, candidateID)

Checks, in order, with the first failure returned:

 1. candidate exists          → ErrCandidateNotFound
 2. user exists               → ErrUserNotFound
 3. user is not the admin     → ErrAdminCannotVote
 4. user has not yet voted    → ErrAlreadyVoted

The store then repeats check 4 atomically with the write (see package
store), so concurrent submissions by one voter produce exactly one vote.

# Administration

CreateCandidate, UpdateCandidate and DeleteCandidate take the acting user
ID and call RequireAdmin first. The role is read from the store on every
call, never from the token.

# Tallies

ListTally orders candidates by count descending, then by candidate ID, so
equal counts always list in the same order. Election types are matched
case-insensitively; an unknown type is ErrInvalidElectionType.
*/
package voting
