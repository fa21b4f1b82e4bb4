// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Pushkar-sharma02/e-Vote-Backend/auth"
	"github.com/Pushkar-sharma02/e-Vote-Backend/cliparse"
	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store/sqlstore"
)

// TestPassword is the plain password of every fixture user
const TestPassword = "password123"

var aadharSeq atomic.Int64

// SetupTestDB opens a fresh SQLite store in a temp dir, closed on cleanup
func SetupTestDB(t *testing.T) *sqlstore.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "evote.db") + "?_pragma=foreign_keys(1)"
	st, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         5000,
		DatabaseURL:  "file::memory:",
		DatabaseType: cliparse.DatabaseSQLite,
		JWTSecret:    "test-jwt-secret",
		TokenTTL:     time.Hour,
		CORSOrigin:   cliparse.DefaultCORSOrigin,
	}
}

// NextAadhar returns a fresh 12-digit Aadhaar number
func NextAadhar() string {
	return fmt.Sprintf("%012d", 100000000000+aadharSeq.Add(1))
}

// CreateTestUser inserts a user with the given role and TestPassword
func CreateTestUser(t *testing.T, st *sqlstore.Store, role string) models.User {
	t.Helper()

	id, _ := auth.GenerateID()
	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	u := models.User{
		ID:               id,
		Name:             "Test " + role,
		Age:              30,
		Address:          "12 Test Street",
		AadharCardNumber: NextAadhar(),
		PasswordHash:     hash,
		Role:             role,
		CreatedAt:        time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return u
}

// CreateTestCandidate inserts a candidate with zero votes
func CreateTestCandidate(t *testing.T, st *sqlstore.Store, party, electionType string) models.Candidate {
	t.Helper()

	id, _ := auth.GenerateID()
	c := models.Candidate{
		ID:           id,
		Name:         party + " Candidate",
		Party:        party,
		Age:          45,
		ElectionType: electionType,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := st.CreateCandidate(context.Background(), c); err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return c
}

// CastTestVote records a vote straight through the store
func CastTestVote(t *testing.T, st *sqlstore.Store, voterID, candidateID string) {
	t.Helper()

	if err := st.RecordVote(context.Background(), voterID, candidateID, time.Now().UTC()); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// AuthHeader returns an Authorization header carrying a valid token for u
func AuthHeader(t *testing.T, cfg cliparse.Config, u models.User) map[string]string {
	t.Helper()

	token, err := auth.GenerateToken(auth.Identity{ID: u.ID, Role: u.Role}, []byte(cfg.JWTSecret), cfg.TokenTTL, time.Now())
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
