// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package authz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/devan815/hubforge/internal/auth"
	"github.com/devan815/hubforge/internal/store"
)

// fakeFinder serves canned documents keyed by collection/id.
type fakeFinder struct {
	docs map[string]map[string]any
	err  error
}

func (f *fakeFinder) FindByID(_ context.Context, collection, id string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[collection+"/"+id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return doc, nil
}

func ownershipRequest(t *testing.T, resolver *Resolver, rule Rule, path, userID string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var attached map[string]any
	router := chi.NewRouter()
	router.With(resolver.RequireOwnership(rule)).Delete("/resources/{id}", func(w http.ResponseWriter, r *http.Request) {
		attached = ResourceFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	router.With(resolver.RequireOwnership(rule)).Delete("/resources", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodDelete, path, nil)
	if userID != "" {
		req = req.WithContext(auth.ContextWithClaims(req.Context(), &auth.Claims{UserID: userID}))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec, attached
}

func decodeRejection(t *testing.T, rec *httptest.ResponseRecorder) rejectionError {
	t.Helper()
	var body rejectionBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode rejection body: %v", err)
	}
	if body.Success {
		t.Error("rejection body has success = true")
	}
	return body.Error
}

func TestRequireOwnershipGrantsOwner(t *testing.T) {
	repoID := store.NewID()
	finder := &fakeFinder{docs: map[string]map[string]any{
		store.CollectionRepositories + "/" + repoID: {
			"_id":   repoID,
			"name":  "hello-world",
			"owner": "user-1",
		},
	}}
	resolver := NewResolver(finder)

	rec, attached := ownershipRequest(t, resolver, RepositoryRule, "/resources/"+repoID, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if attached == nil {
		t.Fatal("resource not attached to context")
	}
	if attached["name"] != "hello-world" {
		t.Errorf("attached resource = %+v", attached)
	}
}

func TestRequireOwnershipGrantsSelfOwnedProfile(t *testing.T) {
	userID := store.NewID()
	finder := &fakeFinder{docs: map[string]map[string]any{
		store.CollectionUsers + "/" + userID: {
			"_id":      userID,
			"username": "alice",
		},
	}}
	resolver := NewResolver(finder)

	rec, _ := ownershipRequest(t, resolver, UserProfileRule, "/resources/"+userID, userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireOwnershipDeniesNonOwner(t *testing.T) {
	issueID := store.NewID()
	finder := &fakeFinder{docs: map[string]map[string]any{
		store.CollectionIssues + "/" + issueID: {
			"_id":    issueID,
			"title":  "bug",
			"userId": "user-1",
		},
	}}
	resolver := NewResolver(finder)

	rec, attached := ownershipRequest(t, resolver, IssueRule, "/resources/"+issueID, "user-2")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if got := decodeRejection(t, rec).Message; got != "You are not authorized to perform this action." {
		t.Errorf("message = %q", got)
	}
	if attached != nil {
		t.Error("handler ran despite denial")
	}
}

func TestRequireOwnershipFailureOrder(t *testing.T) {
	repoID := store.NewID()
	finder := &fakeFinder{docs: map[string]map[string]any{}}
	resolver := NewResolver(finder)

	tests := []struct {
		name        string
		path        string
		userID      string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing claims",
			path:        "/resources/" + repoID,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Authentication failed.",
		},
		{
			name:        "missing id",
			path:        "/resources",
			userID:      "user-1",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Resource ID is required.",
		},
		{
			name:        "invalid id",
			path:        "/resources/not-a-uuid",
			userID:      "user-1",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid resource ID.",
		},
		{
			name:        "absent resource",
			path:        "/resources/" + repoID,
			userID:      "user-1",
			wantStatus:  http.StatusNotFound,
			wantMessage: "Resource not found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := ownershipRequest(t, resolver, RepositoryRule, tt.path, tt.userID)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decodeRejection(t, rec).Message; got != tt.wantMessage {
				t.Errorf("message = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestRequireOwnershipStoreErrorRejects(t *testing.T) {
	finder := &fakeFinder{err: errors.New("disk on fire")}
	resolver := NewResolver(finder)

	rec, _ := ownershipRequest(t, resolver, RepositoryRule, "/resources/"+store.NewID(), "user-1")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeRejection(t, rec).Message; got != "Internal server error." {
		t.Errorf("message = %q", got)
	}
}

func TestOwnerCandidates(t *testing.T) {
	doc := map[string]any{
		"_id":    "doc-1",
		"owner":  "user-1",
		"userId": "user-2",
		"count":  float64(3),
	}

	got := ownerCandidates(doc, Rule{OwnerFields: []string{"owner", "userId"}, SelfOwned: true})
	for _, want := range []string{"doc-1", "user-1", "user-2"} {
		if !got[want] {
			t.Errorf("ownerCandidates() missing %q", want)
		}
	}
	if len(got) != 3 {
		t.Errorf("ownerCandidates() size = %d, want 3", len(got))
	}

	got = ownerCandidates(doc, RepositoryRule)
	if !got["user-1"] || len(got) != 1 {
		t.Errorf("ownerCandidates(RepositoryRule) = %v", got)
	}
}
