package middleware

import (
	"net/http"

	"github.com/templui/jobtracker/internal/config"
	"github.com/templui/jobtracker/internal/ctxkeys"
)

// Config middleware adds the sanitized app configuration to the request context.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	clean := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), clean)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
