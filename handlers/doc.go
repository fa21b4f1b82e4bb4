// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the e-voting API.

# Handler Types

  - CandidateHandler: voting, counts, listings and admin candidate management
  - UserHandler: signup, login, profile and password changes

Handlers are created via constructor functions:

	candidates := handlers.NewCandidateHandler(voting.NewService(st, m))
	users := handlers.NewUserHandler(st, cfg)

# Authentication

Routes that need a user are wrapped with middleware.RequireAuth; handlers
read the caller with middleware.IdentityFrom. Admin rights are checked by
the voting service against the stored role.

# Voting

	GET|POST /candidates/vote/candidate/{candidateId} → Vote

Both methods are accepted for compatibility with existing clients.

# Counts and Listings (public)

	GET /candidates/count                     → Count
	GET /candidates/count/{electionType}      → CountByElection
	GET /candidates                           → List
	GET /candidates/elections/{electionType}  → ListByElection
	GET /candidates/{candidateId}             → Get (includes vote record)

Election types are matched case-insensitively.

# Candidate Management (admin)

	POST   /candidates                → Create
	PUT    /candidates/{candidateId}  → Update
	DELETE /candidates/{candidateId}  → Delete

# Users

	POST /users/signup            → Signup
	POST /users/login             → Login
	GET  /users/profile           → Profile
	PUT  /users/profile/password  → ChangePassword

# Error Mapping

	candidate or user not found   → 404
	admin voting, not admin       → 403
	already voted, bad input      → 400
	duplicate party or Aadhaar    → 409
	bad or missing token          → 401
	anything else                 → 500

Error bodies are {"error": <status text>, "message": <detail>}.
*/
package handlers
