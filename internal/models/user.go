// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

// Package models defines the document shapes stored by Hubforge.
package models

import "time"

// User is a principal record. The ID is assigned at signup and never
// changes; username and email are unique across the store.
type User struct {
	ID             string    `json:"_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"password,omitempty"`
	ProfilePicture string    `json:"profilePicture"`
	Repositories   []string  `json:"repositories"`
	FollowedUsers  []string  `json:"followedUsers"`
	StarRepos      []string  `json:"starRepos"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Public returns a copy safe for serialization outside the credential
// boundary: the password hash is stripped.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
