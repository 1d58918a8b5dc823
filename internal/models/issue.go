// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package models

import "time"

// Issue statuses.
const (
	IssueStatusOpen   = "open"
	IssueStatusClosed = "closed"
)

// Issue is an owned resource attached to a repository. The owner reference
// is carried in UserID (resource kinds name their owner field differently;
// the authorization layer is configured per kind).
type Issue struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Repository  string    `json:"repository"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}
