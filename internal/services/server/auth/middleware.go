package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hireloop/hireloop/internal/domain/user"
	"github.com/hireloop/hireloop/internal/services/server/httpx"
)

type ctxKey struct{}

// UserFrom returns the authenticated user placed in the context by RequireAuth.
func UserFrom(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*user.User)
	return u, ok
}

// RequireAuth guards a handler with bearer access-token authentication.
func (c *Controller) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearer(r)
		if raw == "" {
			httpx.Error(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		u, err := c.uc.Authenticate(r.Context(), raw)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				httpx.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

// bearer extracts the token from an "Authorization: Bearer <token>" header.
// Any other scheme is rejected, not passed through as a token.
func bearer(r *http.Request) string {
	v := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(v), "bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return ""
}
