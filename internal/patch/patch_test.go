package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/model"
)

type notePatch struct {
	Date Field[string] `json:"date"`
	Text Field[string] `json:"text"`
	URL  Field[string] `json:"job_url"`
}

func decode(t *testing.T, body string) notePatch {
	t.Helper()
	var p notePatch
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestFieldPresence(t *testing.T) {
	p := decode(t, `{"text": "hello", "job_url": null}`)

	assert.False(t, p.Date.Present)
	assert.True(t, p.Text.Present)
	assert.False(t, p.Text.Null)
	assert.Equal(t, "hello", p.Text.Value)
	assert.True(t, p.URL.Present)
	assert.True(t, p.URL.Null)
}

func TestFieldRejectsWrongType(t *testing.T) {
	var p notePatch
	err := json.Unmarshal([]byte(`{"text": 12}`), &p)
	assert.Error(t, err)
}

func TestBuilder(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []Change
		wantErr apperr.Kind
	}{
		{
			name:    "all absent",
			body:    `{}`,
			wantErr: apperr.KindBadRequest,
		},
		{
			name:    "empty strings are ignored",
			body:    `{"date": "", "text": "   ", "job_url": ""}`,
			wantErr: apperr.KindBadRequest,
		},
		{
			name: "value is trimmed",
			body: `{"text": "  Called the recruiter  "}`,
			want: []Change{{Column: "text", Value: "Called the recruiter"}},
		},
		{
			name: "null clears nullable column",
			body: `{"job_url": null}`,
			want: []Change{{Column: "job_url", Value: nil}},
		},
		{
			name:    "null on required column",
			body:    `{"text": null}`,
			wantErr: apperr.KindValidation,
		},
		{
			name: "date is parsed",
			body: `{"date": "2025-02-03", "text": ""}`,
			want: []Change{{Column: "date", Value: mustDate(t, "2025-02-03")}},
		},
		{
			name:    "malformed date",
			body:    `{"date": "03/02/2025"}`,
			wantErr: apperr.KindValidation,
		},
		{
			name:    "rules apply",
			body:    `{"job_url": "nope"}`,
			wantErr: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := decode(t, tt.body)

			b := NewBuilder()
			b.Date("date", "date", p.Date, false)
			b.Text("text", "text", p.Text, "max=100", false)
			b.Text("job_url", "job_url", p.URL, "url", true)

			changes, err := b.Result()
			if tt.want == nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, apperr.KindOf(err))
				assert.Nil(t, changes)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, changes)
		})
	}
}

func TestEmptyPatchIsBadRequest(t *testing.T) {
	_, err := NewBuilder().Result()
	assert.ErrorIs(t, err, ErrEmpty)
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}
