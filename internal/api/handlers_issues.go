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

// CreateIssue opens an issue against a repository. The issue is owned by
// the caller, not the repository owner.
func (h *Handler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		rw.Unauthorized("Authentication failed.")
		return
	}

	var req CreateIssueRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	if _, err := h.store.GetRepository(r.Context(), req.Repository); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Repository not found!")
			return
		}
		rw.StoreError(err)
		return
	}

	issue := &models.Issue{
		Title:       req.Title,
		Description: req.Description,
		Repository:  req.Repository,
		UserID:      claims.UserID,
	}
	if err := h.store.CreateIssue(r.Context(), issue); err != nil {
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("issue_id", issue.ID).
		Str("repository_id", issue.Repository).
		Msg("Issue created")
	rw.Created(issue)
}

// ListIssues returns every issue. Public.
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	issues, err := h.store.ListIssues(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(issues)
}

// GetIssue returns one issue by id. Public.
func (h *Handler) GetIssue(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	issue, err := h.store.GetIssue(r.Context(), pathID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Issue not found!")
			return
		}
		rw.StoreError(err)
		return
	}
	rw.Success(issue)
}

// UpdateIssue applies the provided fields. Only the issue author reaches
// this handler.
func (h *Handler) UpdateIssue(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req UpdateIssueRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	var issue models.Issue
	if !resourceInto(r.Context(), &issue) {
		rw.InternalError("Internal server error.")
		return
	}

	if req.Title != nil {
		issue.Title = *req.Title
	}
	if req.Description != nil {
		issue.Description = *req.Description
	}
	if req.Status != nil {
		issue.Status = *req.Status
	}

	if err := h.store.SaveIssue(r.Context(), &issue); err != nil {
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("issue_id", issue.ID).Msg("Issue updated")
	rw.Success(issue)
}

// DeleteIssue removes an issue. Only the issue author reaches this
// handler.
func (h *Handler) DeleteIssue(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.store.DeleteIssue(r.Context(), pathID(r)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Issue not found!")
			return
		}
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("issue_id", pathID(r)).Msg("Issue deleted")
	rw.NoContent()
}
