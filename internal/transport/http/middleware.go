package http

import (
	"context"
	"net/http"
	"strings"

	"techlingo-service/internal/domain"
)

type contextKey struct{ name string }

var userContextKey = &contextKey{"user"}

// requireAuth resolves the bearer token on every request and stores the
// authenticated user in the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, domain.ErrUnauthenticated)
			return
		}
		user, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}
