// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devan815/hubforge/internal/auth"
	"github.com/devan815/hubforge/internal/authz"
	"github.com/devan815/hubforge/internal/config"
	"github.com/devan815/hubforge/internal/middleware"
)

// Router wires handlers, the authorization pipeline and the ambient
// middleware into the HTTP route table.
type Router struct {
	handler  *Handler
	authMW   *auth.Middleware
	resolver *authz.Resolver
	security *config.SecurityConfig
}

// NewRouter creates the router from its injected dependencies.
func NewRouter(h *Handler, authMW *auth.Middleware, resolver *authz.Resolver, security *config.SecurityConfig) *Router {
	return &Router{
		handler:  h,
		authMW:   authMW,
		resolver: resolver,
		security: security,
	}
}

// Setup builds the route table. Protected routes apply the pipeline in
// fixed order: Authenticate first, then RequireOwnership where the route
// addresses an owned resource.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", router.handler.Health)
	r.Get("/health/live", router.handler.HealthLive)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.rateLimit())

		// Credential endpoints get the strictest rate limit to slow
		// brute-force attempts.
		r.Route("/auth", func(r chi.Router) {
			r.Use(router.rateLimitAuth())
			r.Post("/signup", router.handler.Signup)
			r.Post("/login", router.handler.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", router.handler.ListUsers)

			r.Group(func(r chi.Router) {
				r.Use(router.authMW.Authenticate)
				r.Get("/{id}", router.handler.GetProfile)
				r.With(router.resolver.RequireOwnership(authz.UserProfileRule)).
					Put("/{id}", router.handler.UpdateProfile)
				r.With(router.resolver.RequireOwnership(authz.UserProfileRule)).
					Delete("/{id}", router.handler.DeleteProfile)
			})
		})

		r.Route("/repositories", func(r chi.Router) {
			r.Get("/", router.handler.ListRepositories)
			r.Get("/search", router.handler.GetRepositoryByName)
			r.Get("/{id}", router.handler.GetRepository)

			r.Group(func(r chi.Router) {
				r.Use(router.authMW.Authenticate)
				r.Get("/user/{userID}", router.handler.ListUserRepositories)
				r.Post("/", router.handler.CreateRepository)

				owned := router.resolver.RequireOwnership(authz.RepositoryRule)
				r.With(owned).Put("/{id}", router.handler.UpdateRepository)
				r.With(owned).Patch("/{id}/visibility", router.handler.ToggleRepositoryVisibility)
				r.With(owned).Delete("/{id}", router.handler.DeleteRepository)
			})
		})

		r.Route("/issues", func(r chi.Router) {
			r.Get("/", router.handler.ListIssues)
			r.Get("/{id}", router.handler.GetIssue)

			r.Group(func(r chi.Router) {
				r.Use(router.authMW.Authenticate)
				r.Post("/", router.handler.CreateIssue)

				owned := router.resolver.RequireOwnership(authz.IssueRule)
				r.With(owned).Put("/{id}", router.handler.UpdateIssue)
				r.With(owned).Delete("/{id}", router.handler.DeleteIssue)
			})
		})
	})

	return r
}

// rateLimit is the general API limit.
func (router *Router) rateLimit() func(http.Handler) http.Handler {
	if router.security.RateLimitDisabled {
		return passthrough
	}
	return httprate.LimitByIP(router.security.RateLimitReqs, router.security.RateLimitWindow)
}

// rateLimitAuth is the stricter limit for signup and login.
func (router *Router) rateLimitAuth() func(http.Handler) http.Handler {
	if router.security.RateLimitDisabled {
		return passthrough
	}
	return httprate.LimitByIP(10, time.Minute)
}

func passthrough(next http.Handler) http.Handler {
	return next
}
