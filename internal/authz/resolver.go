// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

// Package authz implements the second stage of the authorization
// pipeline: resolving whether the authenticated principal owns the
// resource addressed by the request path. It runs strictly after the
// authentication gate and is the only middleware that consults the
// store.
package authz

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/devan815/hubforge/internal/auth"
	"github.com/devan815/hubforge/internal/logging"
	"github.com/devan815/hubforge/internal/metrics"
	"github.com/devan815/hubforge/internal/store"
)

// Rule declares which collection a protected route addresses and which
// document fields name its owner. Routes bind a Rule explicitly; the
// resolver never infers the collection from the request path.
type Rule struct {
	// Collection is the store collection the id path parameter refers to.
	Collection string

	// OwnerFields lists the document fields whose values identify the
	// owner. Resource kinds name their owner reference differently, so
	// the grant check takes the union over all listed fields.
	OwnerFields []string

	// SelfOwned marks collections whose documents are owned by the
	// principal they describe. The document's own id then joins the
	// owner-candidate set.
	SelfOwned bool
}

// Route rules for the three resource kinds.
var (
	RepositoryRule  = Rule{Collection: store.CollectionRepositories, OwnerFields: []string{"owner"}}
	IssueRule       = Rule{Collection: store.CollectionIssues, OwnerFields: []string{"userId"}}
	UserProfileRule = Rule{Collection: store.CollectionUsers, SelfOwned: true}
)

// DocumentFinder is the single store capability the resolver needs.
type DocumentFinder interface {
	FindByID(ctx context.Context, collection, id string) (map[string]any, error)
}

// Resolver decides resource ownership for protected routes.
type Resolver struct {
	store DocumentFinder
}

// NewResolver creates an ownership resolver backed by the given store.
func NewResolver(s DocumentFinder) *Resolver {
	return &Resolver{store: s}
}

type resourceKey struct{}

// RequireOwnership returns middleware that grants the request only when
// the authenticated principal owns the document addressed by the `id`
// path parameter. On grant the fetched document is attached to the
// request context so handlers do not fetch it again. Every failure is
// terminal and fails closed; store errors reject, never allow.
func (r *Resolver) RequireOwnership(rule Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()

			// Defensive re-check. The router always places the gate
			// first, but ownership must not depend on route wiring.
			claims := auth.ClaimsFromContext(ctx)
			if claims == nil || claims.UserID == "" {
				metrics.RecordAuthDecision("ownership", "unauthenticated")
				writeRejection(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication failed.")
				return
			}

			id := chi.URLParam(req, "id")
			if id == "" {
				metrics.RecordAuthDecision("ownership", "missing_id")
				writeRejection(w, http.StatusBadRequest, "BAD_REQUEST", "Resource ID is required.")
				return
			}
			if !store.ValidID(id) {
				metrics.RecordAuthDecision("ownership", "invalid_id")
				writeRejection(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid resource ID.")
				return
			}

			doc, err := r.store.FindByID(ctx, rule.Collection, id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					metrics.RecordAuthDecision("ownership", "not_found")
					writeRejection(w, http.StatusNotFound, "NOT_FOUND", "Resource not found.")
					return
				}
				metrics.RecordAuthDecision("ownership", "error")
				logging.Ctx(ctx).Error().Err(err).
					Str("collection", rule.Collection).
					Str("resource_id", id).
					Msg("Ownership lookup failed")
				writeRejection(w, http.StatusInternalServerError, "INTERNAL", "Internal server error.")
				return
			}

			if !ownerCandidates(doc, rule)[claims.UserID] {
				metrics.RecordAuthDecision("ownership", "denied")
				logging.Ctx(ctx).Warn().
					Str("collection", rule.Collection).
					Str("resource_id", id).
					Str("principal_id", claims.UserID).
					Msg("Ownership denied")
				writeRejection(w, http.StatusForbidden, "FORBIDDEN", "You are not authorized to perform this action.")
				return
			}

			metrics.RecordAuthDecision("ownership", "granted")
			next.ServeHTTP(w, req.WithContext(context.WithValue(ctx, resourceKey{}, doc)))
		})
	}
}

// ownerCandidates builds the set of principal ids considered owners of
// the document under the given rule.
func ownerCandidates(doc map[string]any, rule Rule) map[string]bool {
	candidates := make(map[string]bool, len(rule.OwnerFields)+1)
	if rule.SelfOwned {
		if id, ok := doc["_id"].(string); ok && id != "" {
			candidates[id] = true
		}
	}
	for _, field := range rule.OwnerFields {
		if v, ok := doc[field].(string); ok && v != "" {
			candidates[v] = true
		}
	}
	return candidates
}

// ResourceFromContext retrieves the document attached by a successful
// ownership check. Returns nil when no check ran for this request.
func ResourceFromContext(ctx context.Context) map[string]any {
	doc, _ := ctx.Value(resourceKey{}).(map[string]any)
	return doc
}

// rejectionBody matches the API error envelope without importing the
// api package (which imports this one).
type rejectionBody struct {
	Success bool           `json:"success"`
	Error   rejectionError `json:"error"`
}

type rejectionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeRejection(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(rejectionBody{
		Error: rejectionError{Code: code, Message: message},
	}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode rejection response")
	}
}
