// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Pushkar-sharma02/e-Vote-Backend/auth"
	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store/sqlstore"
	"github.com/Pushkar-sharma02/e-Vote-Backend/testutil"
)

func setupUserHandler(t *testing.T) (*sqlstore.Store, *UserHandler) {
	t.Helper()
	st := testutil.SetupTestDB(t)
	return st, NewUserHandler(st, testutil.GetTestConfig())
}

func signupRequest(aadhar, role string) models.SignupRequest {
	return models.SignupRequest{
		Name:             "Meera",
		Age:              34,
		Email:            "meera@example.com",
		Address:          "4 Lake View",
		AadharCardNumber: aadhar,
		Password:         "secret1",
		Role:             role,
	}
}

func TestSignup(t *testing.T) {
	st, handler := setupUserHandler(t)
	cfg := testutil.GetTestConfig()

	first := testutil.NextAadhar()
	admin := testutil.NextAadhar()

	badAge := signupRequest(testutil.NextAadhar(), "")
	badAge.Age = 0
	shortPw := signupRequest(testutil.NextAadhar(), "")
	shortPw.Password = "abc"
	longPw := signupRequest(testutil.NextAadhar(), "")
	longPw.Password = strings.Repeat("p", 80)
	maxPw := signupRequest(testutil.NextAadhar(), "")
	maxPw.Password = strings.Repeat("p", auth.MaxPasswordBytes)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"valid voter", signupRequest(first, ""), http.StatusCreated},
		{"duplicate aadhar", signupRequest(first, models.RoleVoter), http.StatusConflict},
		{"first admin", signupRequest(admin, models.RoleAdmin), http.StatusCreated},
		{"second admin", signupRequest(testutil.NextAadhar(), models.RoleAdmin), http.StatusBadRequest},
		{"unknown role", signupRequest(testutil.NextAadhar(), "superuser"), http.StatusBadRequest},
		{"short aadhar", signupRequest("12345", ""), http.StatusBadRequest},
		{"non-digit aadhar", signupRequest("12345678901x", ""), http.StatusBadRequest},
		{"zero age", badAge, http.StatusBadRequest},
		{"short password", shortPw, http.StatusBadRequest},
		{"password over bcrypt limit", longPw, http.StatusBadRequest},
		{"password at bcrypt limit", maxPw, http.StatusCreated},
		{"invalid JSON", "{", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Signup(w, testutil.MakeRequest("POST", "/users/signup", tt.body, nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var resp models.SignupResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.User.ID == "" || resp.User.IsVoted {
				t.Errorf("Unexpected user %+v", resp.User)
			}
			identity, err := auth.ParseToken(resp.Token, []byte(cfg.JWTSecret))
			if err != nil {
				t.Fatalf("Returned token does not verify: %v", err)
			}
			if identity.ID != resp.User.ID || identity.Role != resp.User.Role {
				t.Errorf("Token identity %+v does not match user %+v", identity, resp.User)
			}
		})
	}

	stored, err := st.GetUserByAadhar(context.Background(), first)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Role != models.RoleVoter {
		t.Errorf("Expected default role voter, got %s", stored.Role)
	}
	if stored.PasswordHash == "secret1" {
		t.Error("Password stored in plain text")
	}
}

func TestLogin(t *testing.T) {
	st, handler := setupUserHandler(t)
	user := testutil.CreateTestUser(t, st, models.RoleVoter)

	tests := []struct {
		name           string
		body           models.LoginRequest
		expectedStatus int
	}{
		{"valid", models.LoginRequest{AadharCardNumber: user.AadharCardNumber, Password: testutil.TestPassword}, http.StatusOK},
		{"wrong password", models.LoginRequest{AadharCardNumber: user.AadharCardNumber, Password: "nope-nope"}, http.StatusUnauthorized},
		{"unknown aadhar", models.LoginRequest{AadharCardNumber: "999999999999", Password: testutil.TestPassword}, http.StatusUnauthorized},
		{"missing fields", models.LoginRequest{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Login(w, testutil.MakeRequest("POST", "/users/login", tt.body, nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var resp models.LoginResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Token == "" {
					t.Error("Expected non-empty token")
				}
			}
		})
	}
}

func TestProfile(t *testing.T) {
	st, handler := setupUserHandler(t)
	user := testutil.CreateTestUser(t, st, models.RoleVoter)

	w := httptest.NewRecorder()
	handler.Profile(w, asUser(httptest.NewRequest("GET", "/users/profile", nil), user))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp map[string]models.User
	testutil.AssertJSON(t, w, &resp)
	if resp["user"].ID != user.ID || resp["user"].AadharCardNumber != user.AadharCardNumber {
		t.Errorf("Unexpected profile %+v", resp["user"])
	}

	w = httptest.NewRecorder()
	handler.Profile(w, asUser(httptest.NewRequest("GET", "/users/profile", nil), models.User{ID: "gone"}))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	handler.Profile(w, httptest.NewRequest("GET", "/users/profile", nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestChangePassword(t *testing.T) {
	st, handler := setupUserHandler(t)
	user := testutil.CreateTestUser(t, st, models.RoleVoter)

	change := func(body models.ChangePasswordRequest) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.ChangePassword(w, asUser(testutil.MakeRequest("PUT", "/users/profile/password", body, nil), user))
		return w
	}

	testutil.AssertStatus(t, change(models.ChangePasswordRequest{CurrentPassword: "wrong-one", NewPassword: "brand-new"}), http.StatusUnauthorized)
	testutil.AssertStatus(t, change(models.ChangePasswordRequest{CurrentPassword: testutil.TestPassword}), http.StatusBadRequest)
	testutil.AssertStatus(t, change(models.ChangePasswordRequest{CurrentPassword: testutil.TestPassword, NewPassword: "tiny"}), http.StatusBadRequest)
	testutil.AssertStatus(t, change(models.ChangePasswordRequest{CurrentPassword: testutil.TestPassword, NewPassword: strings.Repeat("p", 80)}), http.StatusBadRequest)
	testutil.AssertStatus(t, change(models.ChangePasswordRequest{CurrentPassword: testutil.TestPassword, NewPassword: "brand-new"}), http.StatusOK)

	stored, err := st.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := auth.CheckPassword(stored.PasswordHash, "brand-new"); err != nil {
		t.Error("New password was not stored")
	}
}
