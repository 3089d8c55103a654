package intake

import (
	"encoding/json"
	"testing"

	apperrors "github.com/NomadCrew/feedback-intake/errors"
	"github.com/NomadCrew/feedback-intake/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBody(t *testing.T) {
	want := map[string]any{"name": "Ada", "email": "ada@x.com", "message": "Hi"}

	tests := []struct {
		name string
		body any
		want map[string]any
	}{
		{name: "nil", body: nil, want: map[string]any{}},
		{name: "json string", body: `{"name":"Ada","email":"ada@x.com","message":"Hi"}`, want: want},
		{name: "json bytes", body: []byte(`{"name":"Ada","email":"ada@x.com","message":"Hi"}`), want: want},
		{name: "raw message", body: json.RawMessage(`{"name":"Ada","email":"ada@x.com","message":"Hi"}`), want: want},
		{name: "decoded map", body: map[string]any{"name": "Ada", "email": "ada@x.com", "message": "Hi"}, want: want},
		{name: "string map", body: map[string]string{"name": "Ada", "email": "ada@x.com", "message": "Hi"}, want: want},
		{name: "submission", body: types.FeedbackSubmission{Name: "Ada", Email: "ada@x.com", Message: "Hi"}, want: want},
		{name: "submission pointer", body: &types.FeedbackSubmission{Name: "Ada", Email: "ada@x.com", Message: "Hi"}, want: want},
		{name: "nil submission pointer", body: (*types.FeedbackSubmission)(nil), want: map[string]any{}},
		{name: "blank string", body: "   ", want: map[string]any{}},
		{name: "json null", body: "null", want: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBody(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBody_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "malformed json", body: "{not json"},
		{name: "json array", body: `["a","b"]`},
		{name: "json number", body: "42"},
		{name: "json string literal", body: `"hello"`},
		{name: "unsupported type", body: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeBody(tt.body)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.InvalidInputError))
			assert.Equal(t, apperrors.MsgInvalidJSON, apperrors.As(err).Message)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("trims every field", func(t *testing.T) {
		sub, err := validate(map[string]any{
			"name":    "  Ada ",
			"email":   "\tada@x.com\n",
			"message": " Hi ",
			"extra":   "ignored",
		})
		require.NoError(t, err)
		assert.Equal(t, types.FeedbackSubmission{Name: "Ada", Email: "ada@x.com", Message: "Hi"}, sub)
	})

	failing := []struct {
		name   string
		fields map[string]any
	}{
		{name: "empty", fields: map[string]any{}},
		{name: "blank name", fields: map[string]any{"name": "   ", "email": "a@b.c", "message": "m"}},
		{name: "missing email", fields: map[string]any{"name": "n", "message": "m"}},
		{name: "numeric message", fields: map[string]any{"name": "n", "email": "a@b.c", "message": 7.0}},
		{name: "null name", fields: map[string]any{"name": nil, "email": "a@b.c", "message": "m"}},
	}

	for _, tt := range failing {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate(tt.fields)
			require.Error(t, err)
			appErr := apperrors.As(err)
			assert.Equal(t, apperrors.ValidationError, appErr.Type)
			assert.Equal(t, apperrors.MsgMissingFields, appErr.Message)
		})
	}
}

func TestFormatMessage(t *testing.T) {
	msg := FormatMessage(types.FeedbackRecord{
		ID:        "0b5e",
		Name:      "Ada",
		Email:     "ada@x.com",
		Message:   "Great site",
		CreatedAt: "2025-03-01T12:00:00.000000+00:00",
	})

	assert.Equal(t,
		"New feedback received:\n\nName: Ada\nEmail: ada@x.com\nMessage: Great site\nTime: 2025-03-01T12:00:00.000000+00:00\nID: 0b5e",
		msg)
}
