// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/devan815/hubforge/internal/logging"
	"github.com/devan815/hubforge/internal/metrics"
)

type contextKey string

// claimsContextKey carries the verified claims through the request.
const claimsContextKey contextKey = "claims"

// Middleware enforces bearer-token authentication. It is the first stage
// of the authorization pipeline: stateless, never touching the store.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware creates the authentication middleware. The token manager
// has already validated its configuration, so there is no per-request
// configuration check here.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate extracts and verifies the bearer token, attaching claims
// to the request context on success. Every failure terminates the request
// with 401; downstream stages may trust the claims unconditionally.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			metrics.RecordAuthDecision("authenticate", "missing")
			logging.Ctx(r.Context()).Warn().Msg("Authentication failed: no token in Authorization header")
			writeUnauthorized(w, "No token provided. Authorization denied.")
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			m.rejectToken(w, r, err)
			return
		}

		metrics.RecordAuthDecision("authenticate", "granted")
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rejectToken writes the 401 matching the verification failure kind.
func (m *Middleware) rejectToken(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Warn().Err(err).Msg("Token verification failed")

	switch {
	case errors.Is(err, ErrTokenExpired):
		metrics.RecordAuthDecision("authenticate", "expired")
		writeUnauthorized(w, "Token has expired.")
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenMalformed):
		metrics.RecordAuthDecision("authenticate", "invalid")
		writeUnauthorized(w, "Invalid token.")
	default:
		metrics.RecordAuthDecision("authenticate", "error")
		writeUnauthorized(w, "Authentication failed.")
	}
}

// bearerToken reads the token from the Authorization header. The header
// must have a scheme and a token segment; a bare value is rejected.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ClaimsFromContext retrieves the verified claims attached by
// Authenticate. Returns nil when the request did not pass the gate.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}

// ContextWithClaims attaches claims to a context. Exported for tests that
// exercise downstream stages without running the full gate.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// unauthorizedBody matches the API error envelope without importing the
// api package (which imports this one).
type unauthorizedBody struct {
	Success bool              `json:"success"`
	Error   unauthorizedError `json:"error"`
}

type unauthorizedError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(unauthorizedBody{
		Error: unauthorizedError{Code: "UNAUTHORIZED", Message: message},
	}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode rejection response")
	}
}
