// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package auth

import "testing"

func TestNewPasswordHasher(t *testing.T) {
	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{"minimum cost", 4, false},
		{"default cost", 10, false},
		{"too low", 2, true},
		{"too high", 40, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPasswordHasher(tt.cost)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPasswordHasher(%d) error = %v, wantErr %v", tt.cost, err, tt.wantErr)
			}
		})
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher, err := NewPasswordHasher(4) // min cost keeps the test fast
	if err != nil {
		t.Fatalf("NewPasswordHasher() error = %v", err)
	}

	plaintexts := []string{"secret1", "correct horse battery staple", "päss wörd"}
	for _, plain := range plaintexts {
		hash, err := hasher.Hash(plain)
		if err != nil {
			t.Fatalf("Hash(%q) error = %v", plain, err)
		}
		if hash == plain {
			t.Error("Hash() returned the plaintext")
		}

		ok, err := hasher.Verify(plain, hash)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !ok {
			t.Errorf("Verify(%q, hash) = false, want true", plain)
		}

		ok, err = hasher.Verify(plain+"x", hash)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if ok {
			t.Error("Verify() accepted a wrong password")
		}
	}
}

func TestHashIsSalted(t *testing.T) {
	hasher, err := NewPasswordHasher(4)
	if err != nil {
		t.Fatalf("NewPasswordHasher() error = %v", err)
	}

	h1, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same plaintext are equal; salt missing")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	hasher, err := NewPasswordHasher(4)
	if err != nil {
		t.Fatalf("NewPasswordHasher() error = %v", err)
	}

	if _, err := hasher.Verify("secret1", "not-a-bcrypt-hash"); err == nil {
		t.Error("Verify() with malformed hash expected error, got nil")
	}
}
