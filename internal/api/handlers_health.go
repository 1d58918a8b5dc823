// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package api

import (
	"net/http"
	"time"
)

var startTime = time.Now()

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{
		"status": "alive",
	})
}

// Health reports service health and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":         "healthy",
		"uptime_seconds": int64(time.Since(startTime).Seconds()),
	})
}
