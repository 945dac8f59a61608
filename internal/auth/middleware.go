package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Middleware adapts the evaluator to chi-style HTTP middleware.
type Middleware struct {
	evaluator *Evaluator
}

func NewMiddleware(evaluator *Evaluator) *Middleware {
	return &Middleware{evaluator: evaluator}
}

// Authenticate rejects requests without a valid, unrevoked bearer token for
// an active identity, and attaches the resolved identity to the context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		user, err := m.evaluator.ResolveIdentity(r.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				writeError(w, http.StatusUnauthorized, err.Error())
			} else {
				writeError(w, http.StatusInternalServerError, "could not validate credentials")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user)))
	})
}

// RoleRequired guards a route with RequireAnyRole. It must be mounted after
// Authenticate; authorization is never checked before authentication.
func RoleRequired(codes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := IdentityFromContext(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "no identity in context")
				return
			}
			if err := RequireAnyRole(user, codes...); err != nil {
				writeError(w, http.StatusForbidden, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PermissionRequired guards a route with RequirePermission.
func PermissionRequired(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := IdentityFromContext(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "no identity in context")
				return
			}
			if err := RequirePermission(user, key); err != nil {
				writeError(w, http.StatusForbidden, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
