// Package patch turns sparse update input into the minimal set of columns to write.
//
// Every patch endpoint applies the same rule: an absent field or an empty string
// leaves the column unchanged, JSON null clears a nullable column, and any other
// value is validated and written.
package patch

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/model"
	"github.com/templui/jobtracker/internal/validation"
)

// ErrEmpty is returned when nothing is left to write after normalization.
var ErrEmpty = apperr.BadRequest("no fields to update")

// Field records whether a JSON member was present, null, or carried a value.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Of returns a present field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// Null returns a present field holding JSON null.
func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// Change is one column assignment. Value nil writes SQL NULL.
type Change struct {
	Column string
	Value  any
}

type Builder struct {
	changes []Change
	issues  []apperr.Issue
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Text normalizes a string field. rules are validator tags applied to the trimmed value.
func (b *Builder) Text(field, column string, f Field[string], rules string, nullable bool) {
	if !b.accept(field, column, f.Present, f.Null, nullable) {
		return
	}

	value := strings.TrimSpace(f.Value)
	if value == "" {
		return
	}

	if rules != "" {
		issue := validation.Var(field, value, rules)
		if issue != nil {
			b.issues = append(b.issues, *issue)
			return
		}
	}

	b.changes = append(b.changes, Change{Column: column, Value: value})
}

// Date normalizes a YYYY-MM-DD field into a model.Date.
func (b *Builder) Date(field, column string, f Field[string], nullable bool) {
	if !b.accept(field, column, f.Present, f.Null, nullable) {
		return
	}

	value := strings.TrimSpace(f.Value)
	if value == "" {
		return
	}

	date, err := model.ParseDate(value)
	if err != nil {
		b.issues = append(b.issues, apperr.Issue{Field: field, Message: "must be a date in YYYY-MM-DD format"})
		return
	}

	b.changes = append(b.changes, Change{Column: column, Value: date})
}

// accept handles absence and null. It reports whether the value still needs processing.
func (b *Builder) accept(field, column string, present, null, nullable bool) bool {
	if !present {
		return false
	}
	if null {
		if !nullable {
			b.issues = append(b.issues, apperr.Issue{Field: field, Message: "cannot be null"})
			return false
		}
		b.changes = append(b.changes, Change{Column: column, Value: nil})
		return false
	}
	return true
}

// Result returns the normalized changes, a validation error if any field was
// rejected, or ErrEmpty if nothing remains to write.
func (b *Builder) Result() ([]Change, error) {
	if len(b.issues) > 0 {
		return nil, apperr.Validation(b.issues...)
	}
	if len(b.changes) == 0 {
		return nil, ErrEmpty
	}
	return b.changes, nil
}
