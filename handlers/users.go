// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Pushkar-sharma02/e-Vote-Backend/auth"
	"github.com/Pushkar-sharma02/e-Vote-Backend/cliparse"
	"github.com/Pushkar-sharma02/e-Vote-Backend/middleware"
	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store"
)

const minPasswordLen = 6

type UserHandler struct {
	users store.Users
	cfg   cliparse.Config
}

func NewUserHandler(users store.Users, cfg cliparse.Config) *UserHandler {
	return &UserHandler{users: users, cfg: cfg}
}

// Signup handles POST /users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.AadharCardNumber = strings.TrimSpace(req.AadharCardNumber)
	if req.Role == "" {
		req.Role = models.RoleVoter
	}
	switch {
	case req.Name == "":
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	case req.Age <= 0:
		middleware.ErrorResponse(w, http.StatusBadRequest, "age must be positive")
		return
	case req.Address == "":
		middleware.ErrorResponse(w, http.StatusBadRequest, "address is required")
		return
	case !validAadhar(req.AadharCardNumber):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Aadhar Card Number must be exactly 12 digits")
		return
	case len(req.Password) < minPasswordLen:
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	case len(req.Password) > auth.MaxPasswordBytes:
		middleware.ErrorResponse(w, http.StatusBadRequest, auth.ErrPasswordTooLong.Error())
		return
	case req.Role != models.RoleVoter && req.Role != models.RoleAdmin:
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be voter or admin")
		return
	}

	if req.Role == models.RoleAdmin {
		hasAdmin, err := h.users.HasAdmin(r.Context())
		if err != nil {
			slog.Error("failed to check admin", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if hasAdmin {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Admin user already exists")
			return
		}
	}

	id, err := auth.GenerateID()
	if err != nil {
		slog.Error("failed to generate user ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := models.User{
		ID:               id,
		Name:             req.Name,
		Age:              req.Age,
		Email:            strings.TrimSpace(req.Email),
		Mobile:           strings.TrimSpace(req.Mobile),
		Address:          req.Address,
		AadharCardNumber: req.AadharCardNumber,
		PasswordHash:     hash,
		Role:             req.Role,
		CreatedAt:        time.Now().UTC().Truncate(time.Millisecond),
	}

	err = h.users.CreateUser(r.Context(), user)
	switch {
	case errors.Is(err, store.ErrAdminExists):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Admin user already exists")
		return
	case errors.Is(err, store.ErrDuplicate):
		middleware.ErrorResponse(w, http.StatusConflict, "User with the same Aadhar Card Number already exists")
		return
	case err != nil:
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)

	middleware.JSONResponse(w, http.StatusCreated, models.SignupResponse{
		User:  user,
		Token: token,
	})
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.AadharCardNumber == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Aadhar Card Number and password are required")
		return
	}

	user, err := h.users.GetUserByAadhar(r.Context(), strings.TrimSpace(req.AadharCardNumber))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to load user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err != nil || auth.CheckPassword(user.PasswordHash, req.Password) != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid Aadhar Card Number or Password")
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{Token: token})
}

// Profile handles GET /users/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.GetUser(r.Context(), identity.ID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to load user", "error", err, "user_id", identity.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]models.User{"user": user})
}

// ChangePassword handles PUT /users/profile/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Both currentPassword and newPassword are required")
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	if len(req.NewPassword) > auth.MaxPasswordBytes {
		middleware.ErrorResponse(w, http.StatusBadRequest, auth.ErrPasswordTooLong.Error())
		return
	}

	user, err := h.users.GetUser(r.Context(), identity.ID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to load user", "error", err, "user_id", identity.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if auth.CheckPassword(user.PasswordHash, req.CurrentPassword) != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid current password")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update password")
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		slog.Error("failed to update password", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	slog.Info("password updated", "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Password updated"})
}

func (h *UserHandler) issueToken(u models.User) (string, error) {
	return auth.GenerateToken(auth.Identity{ID: u.ID, Role: u.Role}, []byte(h.cfg.JWTSecret), h.cfg.TokenTTL, time.Now())
}

func validAadhar(s string) bool {
	if len(s) != 12 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
