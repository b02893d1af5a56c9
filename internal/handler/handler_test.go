package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/service"
)

func TestContentDisposition(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii", "cv.pdf", `attachment; filename="cv.pdf"; filename*=UTF-8''cv.pdf`},
		{"accents folded", "Lebenslauf Müller.pdf", `attachment; filename="Lebenslauf Muller.pdf"; filename*=UTF-8''Lebenslauf%20M%C3%BCller.pdf`},
		{"quotes replaced", `say "hi".txt`, `attachment; filename="say _hi_.txt"; filename*=UTF-8''say%20%22hi%22.txt`},
		{"ligature decomposed", "ﬁle.txt", `attachment; filename="file.txt"; filename*=UTF-8''%EF%AC%81le.txt`},
		{"cjk with extension", "履歴書.pdf", `attachment; filename="___.pdf"; filename*=UTF-8''%E5%B1%A5%E6%AD%B4%E6%9B%B8.pdf`},
		{"nothing representable", "履歴書", `attachment; filename="download"; filename*=UTF-8''%E5%B1%A5%E6%AD%B4%E6%9B%B8`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentDisposition(tt.in))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty body", ``, "request body is required"},
		{"malformed", `{"job_title": `, "malformed JSON"},
		{"wrong type", `{"job_title": 42}`, `field "job_title" must be a string`},
		{"unknown field", `{"jobtitle": "x"}`, `unknown field "jobtitle"`},
		{"trailing data", `{"job_title": "x"} {}`, "request body must contain a single JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(tt.body))
			var in service.CreateApplicationInput
			err := decodeJSON(httptest.NewRecorder(), req, &in)

			e, ok := apperr.As(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, apperr.KindBadRequest, e.Kind)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

func TestDecodeJSONPatchPresence(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/applications/x", strings.NewReader(`{"salary": null, "status": "offer"}`))
	var p service.ApplicationPatch
	require.NoError(t, decodeJSON(httptest.NewRecorder(), req, &p))

	assert.True(t, p.Salary.Present)
	assert.True(t, p.Salary.Null)
	assert.Equal(t, "offer", p.Status.Value)
	assert.False(t, p.JobTitle.Present)
}

func TestDecodeJSONTooLarge(t *testing.T) {
	body := `{"job_title": "` + strings.Repeat("x", maxJSONBody) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(body))
	var in service.CreateApplicationInput
	err := decodeJSON(httptest.NewRecorder(), req, &in)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}
