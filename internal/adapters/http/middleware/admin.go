package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AdminUser is the Basic-auth user name for admin pages.
const AdminUser = "admin"

type contextKey string

const adminContextKey contextKey = "admin"

// RequireAdmin gates admin routes behind HTTP Basic auth against a bcrypt hash.
// An empty hash leaves the routes open, but still marks requests as admin so
// audit events carry an actor.
func RequireAdmin(passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminContextKey, "anonymous")))
				return
			}
			user, pass, ok := r.BasicAuth()
			if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(AdminUser)) != 1 ||
				bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) != nil {
				if ok {
					slog.Warn("admin_auth_failed", "ip", ClientIP(r), "path", r.URL.Path)
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="radioclub admin", charset="UTF-8"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminContextKey, user)))
		})
	}
}

// AdminFromContext returns the admin name set by RequireAdmin.
func AdminFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(adminContextKey).(string)
	return name, ok
}

