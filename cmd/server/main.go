// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

// Package main is the entry point for the Hubforge server.
//
// Hubforge is a collaborative code hosting API: accounts, repositories
// and issues behind a two-stage authorization pipeline (bearer token
// verification, then per-resource ownership resolution).
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, config file and environment (Koanf v2)
//  2. Logging: global zerolog logger
//  3. Store: BadgerDB document store with a background GC loop
//  4. Credentials: bcrypt hasher and JWT token manager (fatal on a bad secret)
//  5. HTTP Server: Chi route table with the authorization pipeline wired in
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (JWT_SECRET, HTTP_PORT, LOG_LEVEL, HUBFORGE_*)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// JWT_SECRET (32+ characters) is required; the process refuses to boot
// without it rather than failing requests one at a time.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Closes the store, flushing Badger's value log
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devan815/hubforge/internal/api"
	"github.com/devan815/hubforge/internal/auth"
	"github.com/devan815/hubforge/internal/authz"
	"github.com/devan815/hubforge/internal/config"
	"github.com/devan815/hubforge/internal/logging"
	"github.com/devan815/hubforge/internal/store"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("data_path", cfg.Database.Path).
		Msg("Starting Hubforge")

	s, err := store.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			logging.Error().Err(err).Msg("Store close failed")
		}
	}()

	gcCtx, stopGC := context.WithCancel(context.Background())
	defer stopGC()
	go s.RunGC(gcCtx, cfg.Database.GCInterval)

	hasher, err := auth.NewPasswordHasher(cfg.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}
	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	handler := api.NewHandler(s, hasher, tokens)
	router := api.NewRouter(handler, auth.NewMiddleware(tokens), authz.NewResolver(s), &cfg.Security)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}
