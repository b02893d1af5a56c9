// Package render writes JSON responses and translates errors into them.
package render

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/ctxkeys"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Issues  []apperr.Issue `json:"issues,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps err to its kind's status and writes the error body. Internal
// errors are logged and their details are only returned when the request's
// config allows it.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	detail := errorDetail{Kind: kind.String()}

	e, ok := apperr.As(err)
	if ok && kind != apperr.KindInternal {
		detail.Message = e.Message
		detail.Issues = e.Issues
	} else {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"user_id", ctxkeys.UserID(r.Context()),
			"request_id", ctxkeys.RequestID(r.Context()),
			"error", err,
		)
		detail.Message = "internal server error"
		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.ExposeErrors {
			detail.Message = err.Error()
		}
	}

	JSON(w, kind.Status(), errorBody{Error: detail})
}
