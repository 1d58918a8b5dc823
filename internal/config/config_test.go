// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = "this_is_a_very_long_secret_key_with_32_plus_characters"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "" },
			wantErr: "jwt_secret is required",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "too_short" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "negative token ttl",
			mutate:  func(c *Config) { c.Security.TokenTTL = -time.Hour },
			wantErr: "token_ttl",
		},
		{
			name:    "bcrypt cost too low",
			mutate:  func(c *Config) { c.Security.BcryptCost = 2 },
			wantErr: "bcrypt_cost",
		},
		{
			name:    "bcrypt cost too high",
			mutate:  func(c *Config) { c.Security.BcryptCost = 40 },
			wantErr: "bcrypt_cost",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Security.TokenTTL != 7*24*time.Hour {
		t.Errorf("default token TTL = %s, want 168h", cfg.Security.TokenTTL)
	}
	if cfg.Security.BcryptCost != 10 {
		t.Errorf("default bcrypt cost = %d, want 10", cfg.Security.BcryptCost)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("default port = %d, want 3000", cfg.Server.Port)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"JWT_SECRET", "security.jwt_secret"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"HUBFORGE_DATA_PATH", "database.path"},
		{"HUBFORGE_SERVER_HOST", "server.host"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "env_provided_secret_that_is_long_enough_123456")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Security.JWTSecret != "env_provided_secret_that_is_long_enough_123456" {
		t.Errorf("jwt secret not taken from env")
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v, want two trimmed entries", cfg.Security.CORSOrigins)
	}
}

func TestLoadFailsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error when JWT_SECRET is unset, got nil")
	}
}
