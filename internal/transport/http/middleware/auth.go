package middleware

import (
	"context"
	"net/http"

	"github.com/learnhub/backend/internal/domain"
	"github.com/learnhub/backend/pkg/httputil"
)

type contextKey string

const userContextKey contextKey = "user"

// SessionResolver resolves a session token to the associated user.
type SessionResolver interface {
	UserByToken(token string) (*domain.User, error)
}

// RequireSession wraps the next handler and rejects requests without a
// valid sessionID cookie. The resolved user is placed in the request
// context.
func RequireSession(next http.HandlerFunc, sessions SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := httputil.GetSessionTokenFromCookie(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := sessions.UserByToken(token)
		if err != nil {
			httputil.ClearSessionCookie(w)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	}
}

// ContextWithUser stores the user the way RequireSession does.
func ContextWithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the user RequireSession stored in the context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}
