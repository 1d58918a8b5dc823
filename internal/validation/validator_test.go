// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package validation

import (
	"strings"
	"testing"
)

type signupShape struct {
	Username string `validate:"required,min=3,max=39,username"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		input       signupShape
		wantErr     bool
		wantMessage string
	}{
		{
			name:  "valid input",
			input: signupShape{Username: "alice", Email: "a@x.com", Password: "secret1"},
		},
		{
			name:  "username with hyphen and digits",
			input: signupShape{Username: "dev-815_a", Email: "a@x.com", Password: "secret1"},
		},
		{
			name:        "missing username",
			input:       signupShape{Email: "a@x.com", Password: "secret1"},
			wantErr:     true,
			wantMessage: "Username is required",
		},
		{
			name:        "username too short",
			input:       signupShape{Username: "al", Email: "a@x.com", Password: "secret1"},
			wantErr:     true,
			wantMessage: "Username must be at least 3 characters",
		},
		{
			name:        "username with spaces",
			input:       signupShape{Username: "alice smith", Email: "a@x.com", Password: "secret1"},
			wantErr:     true,
			wantMessage: "Username may only contain letters, digits, underscores and hyphens",
		},
		{
			name:        "bad email",
			input:       signupShape{Username: "alice", Email: "not-an-email", Password: "secret1"},
			wantErr:     true,
			wantMessage: "Email must be a valid email address",
		},
		{
			name:        "short password",
			input:       signupShape{Username: "alice", Email: "a@x.com", Password: "abc"},
			wantErr:     true,
			wantMessage: "Password must be at least 6 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMessage) {
				t.Errorf("ValidateStruct() error = %q, want containing %q", err.Error(), tt.wantMessage)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	err := ValidateStruct(&signupShape{})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if len(err.Errors()) != 3 {
		t.Errorf("Errors() count = %d, want 3", len(err.Errors()))
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Errorf("Details fields = %v", apiErr.Details)
	}
}

func TestToAPIErrorSingleField(t *testing.T) {
	err := ValidateStruct(&signupShape{Username: "alice", Email: "bad", Password: "secret1"})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Message != "Email must be a valid email address" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Email" {
		t.Errorf("Details field = %v", apiErr.Details["field"])
	}
}
