package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/templui/jobtracker/internal/apperr"
)

const maxJSONBody = 1 << 20

// decodeJSON reads exactly one JSON object into v. Unknown members are
// rejected so a typo in a patch never silently becomes a no-op.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil {
		return decodeError(err)
	}

	if dec.More() {
		return apperr.BadRequest("request body must contain a single JSON object")
	}

	return nil
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return apperr.BadRequest("request body is required")
	case errors.As(err, &maxErr):
		return apperr.BadRequest(fmt.Sprintf("request body must not exceed %d bytes", maxErr.Limit))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.BadRequest("malformed JSON")
	case errors.As(err, &typeErr):
		return apperr.BadRequest(fmt.Sprintf("field %q must be a %s", typeErr.Field, typeErr.Type))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return apperr.BadRequest("unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field "))
	default:
		return apperr.BadRequest("invalid request body")
	}
}
