package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	sentinel := NotFound("note not found")

	assert.Equal(t, KindNotFound, KindOf(sentinel))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("load note: %w", sentinel)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", sentinel), sentinel))
}

func TestStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInternal, http.StatusInternalServerError},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindBadRequest, http.StatusBadRequest},
		{KindValidation, http.StatusUnprocessableEntity},
		{KindConflict, http.StatusConflict},
		{Kind(99), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestErrorString(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Conflict("email already exists", cause)

	assert.Equal(t, "conflict: email already exists: duplicate key", err.Error())
	assert.ErrorIs(t, err, cause)

	v := Validation(Issue{Field: "text", Message: "is required"})
	assert.Equal(t, KindValidation, v.Kind)
	assert.Len(t, v.Issues, 1)
}
