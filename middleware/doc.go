// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Metrics

Wrap handlers with request logging and latency metrics:

	mux.HandleFunc("GET /candidates", middleware.WithLogging(middleware.Instrument(m, handler)))

WithLogging logs completion with method, path, status and duration_ms.
Instrument observes latency labelled by the matched route pattern, so path
parameters do not explode label cardinality.

# Authentication

RequireAuth accepts "Authorization: Bearer <jwt>" and puts the verified
identity in the request context:

	mux.HandleFunc("GET /users/profile", middleware.RequireAuth(secret, handler))

	identity, ok := middleware.IdentityFrom(r.Context())

A missing, malformed, expired or badly signed token is answered with 401.

# Recovery and CORS

	server := http.Server{
		Handler: middleware.Recover(middleware.CORS(cfg.CORSOrigin, mux)),
	}

Recover converts panics into a JSON 500. CORS answers preflight requests
with 204 and allows GET, POST, PUT, DELETE, OPTIONS with Content-Type and
Authorization headers. An origin of "*" allows any caller without credentials.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (capped at MaxBodyBytes):

	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
