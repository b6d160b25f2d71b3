// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"inkwell/internal/apperr"
)

// Recoverer catches panics in downstream handlers, logs the stack trace,
// and returns a 500 Internal Server Error instead of crashing the server.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeJSONError(w, http.StatusInternalServerError, apperr.CodeInternal, "an unexpected error occurred")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
