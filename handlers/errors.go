// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Pushkar-sharma02/e-Vote-Backend/middleware"
	"github.com/Pushkar-sharma02/e-Vote-Backend/voting"
)

// serviceError maps a voting error onto an HTTP status and message.
// Anything unrecognised is logged and reported as a 500.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, voting.ErrCandidateNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
	case errors.Is(err, voting.ErrUserNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
	case errors.Is(err, voting.ErrAdminCannotVote):
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin is not allowed to vote")
	case errors.Is(err, voting.ErrNotAdmin):
		middleware.ErrorResponse(w, http.StatusForbidden, "User does not have admin role")
	case errors.Is(err, voting.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusBadRequest, "You have already voted")
	case errors.Is(err, voting.ErrInvalidElectionType):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid election type")
	case errors.Is(err, voting.ErrInvalidCandidate):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, voting.ErrPartyTaken):
		middleware.ErrorResponse(w, http.StatusConflict, "Party already has a candidate")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// isVoteRejection reports whether err is a voting rule refusing the ballot,
// as opposed to a failure serviceError logs itself.
func isVoteRejection(err error) bool {
	for _, target := range []error{
		voting.ErrCandidateNotFound,
		voting.ErrUserNotFound,
		voting.ErrAdminCannotVote,
		voting.ErrAlreadyVoted,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
