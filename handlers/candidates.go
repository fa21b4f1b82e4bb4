// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Pushkar-sharma02/e-Vote-Backend/middleware"
	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
	"github.com/Pushkar-sharma02/e-Vote-Backend/voting"
)

type CandidateHandler struct {
	svc *voting.Service
}

func NewCandidateHandler(svc *voting.Service) *CandidateHandler {
	return &CandidateHandler{svc: svc}
}

// Vote handles GET|POST /candidates/vote/candidate/{candidateId}
func (h *CandidateHandler) Vote(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("candidateId")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidateId is required")
		return
	}

	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res, err := h.svc.CastVote(r.Context(), identity.ID, candidateID)
	if err != nil {
		if isVoteRejection(err) {
			slog.Warn("vote rejected", "candidate_id", candidateID, "voter_id", identity.ID, "remote", middleware.GetClientIP(r), "reason", err)
		}
		serviceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Message:     "Vote recorded successfully",
		CandidateID: res.CandidateID,
		VotedAt:     res.VotedAt,
	})
}

// Count handles GET /candidates/count
func (h *CandidateHandler) Count(w http.ResponseWriter, r *http.Request) {
	h.writeTally(w, r, "")
}

// CountByElection handles GET /candidates/count/{electionType}
func (h *CandidateHandler) CountByElection(w http.ResponseWriter, r *http.Request) {
	h.writeTally(w, r, r.PathValue("electionType"))
}

func (h *CandidateHandler) writeTally(w http.ResponseWriter, r *http.Request, electionType string) {
	tally, err := h.svc.ListTally(r.Context(), electionType)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tally)
}

// List handles GET /candidates
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.svc.ListCandidates(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// ListByElection handles GET /candidates/elections/{electionType}
func (h *CandidateHandler) ListByElection(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.svc.ListByElection(r.Context(), r.PathValue("electionType"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// Get handles GET /candidates/{candidateId}
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCandidate(r.Context(), r.PathValue("candidateId"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// Create handles POST /candidates (admin only)
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.svc.CreateCandidate(r.Context(), identity.ID, req)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, c)
}

// Update handles PUT /candidates/{candidateId} (admin only)
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.svc.UpdateCandidate(r.Context(), identity.ID, r.PathValue("candidateId"), req)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// Delete handles DELETE /candidates/{candidateId} (admin only)
func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	c, err := h.svc.DeleteCandidate(r.Context(), identity.ID, r.PathValue("candidateId"))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeleteCandidateResponse{
		Message:   "Candidate deleted",
		Candidate: c,
	})
}
