// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package api

import (
	"errors"
	"net/http"

	"github.com/devan815/hubforge/internal/auth"
	"github.com/devan815/hubforge/internal/logging"
	"github.com/devan815/hubforge/internal/models"
	"github.com/devan815/hubforge/internal/store"
)

// authPayload is the response body for signup and login.
type authPayload struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Signup creates an account and returns a fresh token. Duplicate
// username or email answers 400 with the matching message; the
// uniqueness check is transactional in the store, so two racing signups
// cannot both succeed.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req SignupRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Password hashing failed")
		rw.InternalError("Internal server error.")
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateUsername):
			rw.BadRequest("Username already exists!")
		case errors.Is(err, store.ErrDuplicateEmail):
			rw.BadRequest("Email already registered!")
		default:
			rw.StoreError(err)
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Token issuance failed")
		rw.InternalError("Internal server error.")
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User signed up")
	rw.Created(authPayload{User: user.Public(), Token: token})
}

// Login verifies email and password and returns a fresh token. A missing
// account and a wrong password produce the same response so that login
// does not reveal which emails are registered.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoginRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.BadRequest("Invalid credentials!")
			return
		}
		rw.StoreError(err)
		return
	}

	ok, err := h.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", user.ID).Msg("Password verification failed")
		rw.InternalError("Internal server error.")
		return
	}
	if !ok {
		rw.BadRequest("Invalid credentials!")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Token issuance failed")
		rw.InternalError("Internal server error.")
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", user.ID).Msg("User logged in")
	rw.Success(authPayload{User: user.Public(), Token: token})
}

// ListUsers returns all accounts without credentials. Public.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}

	public := make([]models.User, len(users))
	for i, u := range users {
		public[i] = u.Public()
	}
	rw.Success(public)
}

// GetProfile returns one account without credentials. Requires a valid
// token but not ownership; any authenticated user may view a profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	user, err := h.store.GetUserByID(r.Context(), pathID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found!")
			return
		}
		rw.StoreError(err)
		return
	}

	rw.Success(user.Public())
}

// UpdateProfile applies the provided fields to the caller's own account.
// The ownership check has already fetched the record and proven the
// caller owns it.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req UpdateProfileRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	var user models.User
	if !resourceInto(r.Context(), &user) {
		rw.InternalError("Internal server error.")
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.Password != nil {
		hash, err := h.hasher.Hash(*req.Password)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Password hashing failed")
			rw.InternalError("Internal server error.")
			return
		}
		user.PasswordHash = hash
	}

	if err := h.store.SaveUser(r.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			rw.BadRequest("Email already registered!")
			return
		}
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", user.ID).Msg("Profile updated")
	rw.Success(user.Public())
}

// DeleteProfile removes the caller's own account and its index entries.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication failed.")
		return
	}

	if err := h.store.DeleteUser(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found!")
			return
		}
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", claims.UserID).Msg("User deleted")
	rw.NoContent()
}
