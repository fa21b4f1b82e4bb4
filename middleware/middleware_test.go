// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Pushkar-sharma02/e-Vote-Backend/auth"
	"github.com/Pushkar-sharma02/e-Vote-Backend/metrics"
	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
)

func TestWithLogging_PreservesResponse(t *testing.T) {
	// Test that logging doesn't interfere with various response codes
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"Created", http.StatusCreated, `{"id":"123"}`},
		{"NotFound", http.StatusNotFound, "not found"},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			})

			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest("POST", "/candidates", nil))

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestStatusRecorder(t *testing.T) {
	t.Run("implicit 200 on write", func(t *testing.T) {
		rec := record(httptest.NewRecorder())
		rec.Write([]byte("x"))
		if rec.code() != http.StatusOK {
			t.Errorf("Expected 200, got %d", rec.code())
		}
	})

	t.Run("first header wins", func(t *testing.T) {
		rec := record(httptest.NewRecorder())
		rec.WriteHeader(http.StatusTeapot)
		rec.WriteHeader(http.StatusOK)
		if rec.code() != http.StatusTeapot {
			t.Errorf("Expected 418, got %d", rec.code())
		}
	})

	t.Run("reused when nested", func(t *testing.T) {
		outer := record(httptest.NewRecorder())
		if record(outer) != outer {
			t.Error("Expected nested record to reuse the outer recorder")
		}
	})
}

func TestInstrument(t *testing.T) {
	m := metrics.New()
	handler := WithLogging(Instrument(m, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/candidates", nil))
	if w.Code != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", w.Code)
	}

	mw := httptest.NewRecorder()
	m.Handler().ServeHTTP(mw, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(mw.Body.String(), `evote_http_request_duration_seconds_count{code="202",method="GET",route="unmatched"} 1`) {
		t.Errorf("Expected request to be observed, metrics:\n%s", mw.Body.String())
	}
}

func TestRecover(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "Internal Server Error" {
		t.Errorf("Expected error 'Internal Server Error', got '%s'", resp.Error)
	}
}

func TestRequireAuth(t *testing.T) {
	secret := []byte("mw-secret")
	valid, _ := auth.GenerateToken(auth.Identity{ID: "user-1", Role: models.RoleVoter}, secret, time.Hour, time.Now())
	expired, _ := auth.GenerateToken(auth.Identity{ID: "user-1", Role: models.RoleVoter}, secret, time.Minute, time.Now().Add(-time.Hour))

	var seen auth.Identity
	handler := RequireAuth(secret, func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			t.Error("Expected identity in context")
		}
		seen = id
		w.WriteHeader(http.StatusOK)
	})

	testCases := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"bare token", valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seen = auth.Identity{}
			req := httptest.NewRequest("GET", "/users/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tc.expectedStatus, w.Code, w.Body.String())
			}
			if tc.expectedStatus == http.StatusOK && seen.ID != "user-1" {
				t.Errorf("Expected identity user-1, got %+v", seen)
			}
		})
	}
}

func TestIdentityFrom_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := IdentityFrom(req.Context()); ok {
		t.Error("Expected no identity on a bare context")
	}
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		data       interface{}
		expected   string
	}{
		{
			name:       "message",
			statusCode: http.StatusOK,
			data:       models.MessageResponse{Message: "Vote recorded successfully"},
			expected:   `{"message":"Vote recorded successfully"}`,
		},
		{
			name:       "tally entry",
			statusCode: http.StatusOK,
			data:       []models.TallyEntry{{Name: "A", Party: "P", ElectionType: "LokSabha", Count: 3}},
			expected:   `[{"name":"A","party":"P","electionType":"LokSabha","count":3}]`,
		},
		{
			name:       "user hides password hash",
			statusCode: http.StatusCreated,
			data:       models.User{ID: "u", Name: "N", Address: "A", AadharCardNumber: "1", PasswordHash: "secret", Role: "voter"},
			expected:   `{"id":"u","name":"N","age":0,"address":"A","aadharCardNumber":"1","role":"voter","isVoted":false,"createdAt":"0001-01-01T00:00:00Z"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSONResponse(w, tc.statusCode, tc.data)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if contentType := w.Header().Get("Content-Type"); contentType != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", contentType)
			}

			// Check body (trim newline added by Encode)
			body := strings.TrimSpace(w.Body.String())
			if body != tc.expected {
				t.Errorf("Expected body '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		statusCode    int
		message       string
		expectedError string
	}{
		{http.StatusBadRequest, "You have already voted", "Bad Request"},
		{http.StatusUnauthorized, "Invalid token", "Unauthorized"},
		{http.StatusForbidden, "Admin is not allowed to vote", "Forbidden"},
		{http.StatusNotFound, "Candidate not found", "Not Found"},
		{http.StatusConflict, "Party already has a candidate", "Conflict"},
	}

	for _, tc := range testCases {
		t.Run(tc.expectedError, func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error != tc.expectedError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectedError, resp.Error)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		body := `{"aadharCardNumber":"123456789012","password":"pw","extra":"ignored"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.AadharCardNumber != "123456789012" || parsed.Password != "pw" {
			t.Errorf("Unexpected parse result %+v", parsed)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{invalid json}`))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for empty body")
		}
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"password":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for body over the limit")
		}
	})
}

func TestCORS(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("handled"))
	})

	t.Run("preflight with fixed origin", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/candidates", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		CORS("http://localhost:3000", nextHandler).ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
		if w.Body.String() != "" {
			t.Errorf("Expected empty body for preflight, got '%s'", w.Body.String())
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
			t.Error("Expected configured Access-Control-Allow-Origin")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
			t.Error("Expected Authorization in allowed headers")
		}
		for _, method := range []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"} {
			if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), method) {
				t.Errorf("Expected %s in allowed methods", method)
			}
		}
	})

	t.Run("fixed origin ignores caller", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/candidates", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()

		CORS("http://localhost:3000", nextHandler).ServeHTTP(w, req)

		if w.Body.String() != "handled" {
			t.Error("Expected next handler to be called")
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
			t.Error("Expected configured origin regardless of caller")
		}
	})

	t.Run("fixed origin allows credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		CORS("http://localhost:3000", nextHandler).ServeHTTP(w, httptest.NewRequest("GET", "/candidates", nil))

		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected credentials to be allowed for a fixed origin")
		}
	})

	t.Run("wildcard does not reflect origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/candidates", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()

		CORS("*", nextHandler).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Expected Access-Control-Allow-Origin '*', got %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
			t.Errorf("Expected no credentials header with wildcard origin, got %q", got)
		}
	})

	t.Run("wildcard preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/candidates", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()

		CORS("*", nextHandler).ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "" {
			t.Error("Expected no credentials header on wildcard preflight")
		}
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expectedIP string
	}{
		{"X-Forwarded-For single IP", map[string]string{"X-Forwarded-For": "192.168.1.100"}, "10.0.0.1:12345", "192.168.1.100"},
		{"X-Forwarded-For chain", map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"}, "127.0.0.1:12345", "203.0.113.195"},
		{"X-Real-IP", map[string]string{"X-Real-IP": "203.0.113.50"}, "10.0.0.1:12345", "203.0.113.50"},
		{"X-Forwarded-For over X-Real-IP", map[string]string{"X-Forwarded-For": "192.168.1.100", "X-Real-IP": "203.0.113.50"}, "10.0.0.1:12345", "192.168.1.100"},
		{"RemoteAddr with port", nil, "192.168.1.50:54321", "192.168.1.50"},
		{"RemoteAddr without port", nil, "192.168.1.50", "192.168.1.50"},
		{"IPv6 RemoteAddr with port", nil, "[::1]:12345", "::1"},
		{"IPv6 in X-Forwarded-For", map[string]string{"X-Forwarded-For": "2001:db8::1"}, "127.0.0.1:12345", "2001:db8::1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if result := GetClientIP(req); result != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, result)
			}
		})
	}
}
