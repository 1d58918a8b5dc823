// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devan815/hubforge/internal/auth"
	"github.com/devan815/hubforge/internal/logging"
	"github.com/devan815/hubforge/internal/models"
	"github.com/devan815/hubforge/internal/store"
)

// CreateRepository creates a repository owned by the caller.
func (h *Handler) CreateRepository(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication failed.")
		return
	}

	var req CreateRepositoryRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	repo := &models.Repository{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		Visibility:  req.Visibility,
		Owner:       claims.UserID,
	}
	if err := h.store.CreateRepository(r.Context(), repo); err != nil {
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("repository_id", repo.ID).
		Str("owner", repo.Owner).
		Msg("Repository created")
	rw.Created(repo)
}

// ListRepositories returns every repository. Public.
func (h *Handler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	repos, err := h.store.ListRepositories(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(repos)
}

// GetRepository returns one repository by id. Public.
func (h *Handler) GetRepository(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	repo, err := h.store.GetRepository(r.Context(), pathID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Repository not found!")
			return
		}
		rw.StoreError(err)
		return
	}
	rw.Success(repo)
}

// GetRepositoryByName returns one repository by name. Public.
func (h *Handler) GetRepositoryByName(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	repo, err := h.store.GetRepositoryByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Repository not found!")
			return
		}
		rw.StoreError(err)
		return
	}
	rw.Success(repo)
}

// ListUserRepositories returns the repositories owned by one user.
// Requires a valid token but not ownership.
func (h *Handler) ListUserRepositories(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	repos, err := h.store.ListRepositoriesByOwner(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(repos)
}

// UpdateRepository appends content and updates the description. Only the
// owner reaches this handler.
func (h *Handler) UpdateRepository(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req UpdateRepositoryRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	var repo models.Repository
	if !resourceInto(r.Context(), &repo) {
		rw.InternalError("Internal server error.")
		return
	}

	repo.Content = append(repo.Content, req.Content...)
	if req.Description != nil {
		repo.Description = *req.Description
	}

	if err := h.store.SaveRepository(r.Context(), &repo); err != nil {
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("repository_id", repo.ID).Msg("Repository updated")
	rw.Success(repo)
}

// ToggleRepositoryVisibility flips a repository between public and
// private. Only the owner reaches this handler.
func (h *Handler) ToggleRepositoryVisibility(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var repo models.Repository
	if !resourceInto(r.Context(), &repo) {
		rw.InternalError("Internal server error.")
		return
	}

	repo.Visibility = !repo.Visibility

	if err := h.store.SaveRepository(r.Context(), &repo); err != nil {
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("repository_id", repo.ID).
		Bool("visibility", repo.Visibility).
		Msg("Repository visibility toggled")
	rw.Success(repo)
}

// DeleteRepository removes a repository. Only the owner reaches this
// handler.
func (h *Handler) DeleteRepository(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.store.DeleteRepository(r.Context(), pathID(r)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Repository not found!")
			return
		}
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("repository_id", pathID(r)).Msg("Repository deleted")
	rw.NoContent()
}
