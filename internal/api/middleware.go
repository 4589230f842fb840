package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/waveline/questadmin/internal/config"
)

// extractBearerToken extracts the token from Authorization header.
// Returns empty string for missing/malformed headers.
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Must start with "Bearer " (case-sensitive per RFC 6750)
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}

// constantTimeEqual compares two strings using constant-time comparison
// to prevent timing attacks.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// resolveRole maps a bearer token to its role. Empty keys disable their
// role entirely. Returns RoleNone for an unrecognized token.
func resolveRole(auth config.AuthConfig, token string) Role {
	if token == "" {
		return RoleNone
	}
	switch {
	case auth.AdminKey != "" && constantTimeEqual(token, auth.AdminKey):
		return RoleAdmin
	case auth.ModeratorKey != "" && constantTimeEqual(token, auth.ModeratorKey):
		return RoleModerator
	case auth.SupportKey != "" && constantTimeEqual(token, auth.SupportKey):
		return RoleSupport
	default:
		return RoleNone
	}
}

// AuthMiddleware validates the Bearer token against the configured role
// keys and attaches the resolved role to the request context.
// Returns 401 RFC 7807 Problem Details on auth failure.
// MUST NOT include expected API keys in logs or responses.
func AuthMiddleware(auth config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := resolveRole(auth, extractBearerToken(r))
			if role == RoleNone {
				slog.Warn("auth failure",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_ip", r.RemoteAddr,
				)
				WriteProblem(w, r, http.StatusUnauthorized, "Missing or invalid API key")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithRole(r.Context(), role)))
		})
	}
}

// RequireRole rejects requests whose authenticated role is below the
// required level with a 403 Problem Details response.
func RequireRole(required Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if !role.Allows(required) {
				slog.Warn("insufficient role",
					"path", r.URL.Path,
					"method", r.Method,
					"role", role.String(),
					"required", required.String(),
				)
				WriteProblem(w, r, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
