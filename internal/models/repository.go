// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package models

import "time"

// Repository is an owned resource. Owner is set at creation and does not
// transfer.
type Repository struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Content     []string  `json:"content"`
	Visibility  bool      `json:"visibility"`
	Owner       string    `json:"owner"`
	Issues      []string  `json:"issues"`
	CreatedAt   time.Time `json:"createdAt"`
}
