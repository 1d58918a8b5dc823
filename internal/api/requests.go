// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/devan815/hubforge/internal/validation"
)

// SignupRequest creates a new account.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=39,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest changes profile fields. All fields are optional;
// only the ones present are applied.
type UpdateProfileRequest struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	Password       *string `json:"password" validate:"omitempty,min=6,max=72"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

// CreateRepositoryRequest creates a repository owned by the caller.
type CreateRepositoryRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Content     []string `json:"content"`
	Visibility  bool     `json:"visibility"`
}

// UpdateRepositoryRequest changes repository content or description.
// Content entries are appended, matching the commit-like append model of
// repository contents.
type UpdateRepositoryRequest struct {
	Content     []string `json:"content"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
}

// CreateIssueRequest opens an issue against a repository.
type CreateIssueRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"required"`
	Repository  string `json:"repository" validate:"required,uuid4"`
}

// UpdateIssueRequest changes an issue's fields or status.
type UpdateIssueRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=open closed"`
}

// decodeAndValidate decodes the JSON request body into dst and runs
// struct validation. On failure it writes the 400 response itself and
// returns false; handlers simply return.
func decodeAndValidate(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.BadRequest("Invalid JSON request body.")
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}

	return true
}
