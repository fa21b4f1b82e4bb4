// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the e-Vote API.

# Route Registration

NewRouter builds an http.ServeMux and wraps it with CORS and panic recovery:

	handler := router.NewRouter(st, cfg, metrics.New())

# Endpoints

Operational:

	GET /health  - 200 "OK", or 503 when the store does not answer a ping
	GET /metrics - Prometheus exposition (404 when metrics are disabled)
	GET /        - API banner

Users:

	POST /users/signup            - Register a voter or the single admin
	POST /users/login             - Exchange Aadhaar and password for a token
	GET  /users/profile           - Current user (Bearer token)
	PUT  /users/profile/password  - Change password (Bearer token)

Voting (Bearer token):

	GET|POST /candidates/vote/candidate/{candidateId} - Cast the caller's single vote

Results (public):

	GET /candidates/count                  - Tally across all elections
	GET /candidates/count/{electionType}   - Tally for LokSabha or StateAssembly
	GET /candidates/elections/{electionType} - Candidates standing in one election
	GET /candidates                        - All candidates, without counts
	GET /candidates/{candidateId}          - One candidate with its count

Candidate management (admin token):

	POST   /candidates                - Register candidate
	PUT    /candidates/{candidateId}  - Partial update
	DELETE /candidates/{candidateId}  - Remove candidate and its votes

Every route is logged with middleware.WithLogging and timed by
middleware.Instrument under its registered pattern.
*/
package router
