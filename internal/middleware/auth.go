package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/ctxkeys"
	"github.com/templui/jobtracker/internal/model"
	"github.com/templui/jobtracker/internal/render"
)

const AuthCookieName = "auth_token"

var errLoginRequired = apperr.Unauthorized("authentication required")

// Authenticator is the part of the auth service the middleware needs.
type Authenticator interface {
	VerifyJWT(token string) (string, error)
	User(ctx context.Context, id string) (*model.User, error)
}

// AuthMiddleware resolves a bearer token or auth cookie to a user id and adds it
// to the context. Requests without valid credentials continue anonymously.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := auth.VerifyJWT(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			// Tokens outlive deleted accounts.
			_, err = auth.User(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	cookie, err := r.Cookie(AuthCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.UserID(r.Context()) == "" {
			render.Error(w, r, errLoginRequired)
			return
		}

		next.ServeHTTP(w, r)
	}
}
