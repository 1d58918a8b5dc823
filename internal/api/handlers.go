// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/devan815/hubforge/internal/auth"
	"github.com/devan815/hubforge/internal/authz"
	"github.com/devan815/hubforge/internal/store"
)

// Handler holds the dependencies shared by all business handlers. All
// fields are constructed once in main and injected; handlers never
// initialize global state.
type Handler struct {
	store  *store.Store
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
}

// NewHandler creates the handler set.
func NewHandler(s *store.Store, hasher *auth.PasswordHasher, tokens *auth.TokenManager) *Handler {
	return &Handler{
		store:  s,
		hasher: hasher,
		tokens: tokens,
	}
}

// resourceInto decodes the document attached by the ownership check into
// a typed model, sparing handlers a second store round-trip. Returns
// false when no ownership check ran for this request.
func resourceInto(ctx context.Context, dst interface{}) bool {
	doc := authz.ResourceFromContext(ctx)
	if doc == nil {
		return false
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// pathID reads the id path parameter.
func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
