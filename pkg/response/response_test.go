package response

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestSuccessResponse(t *testing.T) {
	tests := []struct {
		name string
		data []any
		want Response
	}{
		{
			name: "without data",
			want: Response{Status: StatusSuccess},
		},
		{
			name: "with data",
			data: []any{map[string]any{"id": 1}},
			want: Response{Status: StatusSuccess, Data: map[string]any{"id": 1}},
		},
		{
			name: "with multiple data",
			data: []any{map[string]any{"id": 1}, map[string]any{"id": 2}},
			want: Response{Status: StatusSuccess, Data: map[string]any{"id": 1}},
		},
		{
			name: "with data containing nil",
			data: []any{nil},
			want: Response{Status: StatusSuccess},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuccessResponse(tt.data...))
		})
	}
}

func TestErrorResponse(t *testing.T) {
	got := ErrorResponse("url not found")

	assert.Equal(t, Response{Status: StatusError, Message: "url not found"}, got)
	assert.Equal(t, StatusError, ServerErrorResponse.Status)
}

func TestValidationErrorResponse(t *testing.T) {
	type req struct {
		URL  string `json:"url" validate:"required,url"`
		Code string `json:"code,omitempty" validate:"omitempty,alphanum,max=8"`
		Skip string `json:"-" validate:"required"`
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(JSONTagName)

	tests := []struct {
		name string
		req  req
		want []FieldError
	}{
		{
			name: "valid",
			req:  req{URL: "https://example.com", Skip: "x"},
		},
		{
			name: "missing url",
			req:  req{Skip: "x"},
			want: []FieldError{{Field: "url", Message: "this field is required"}},
		},
		{
			name: "two errors",
			req:  req{URL: "not url", Code: "bad-code", Skip: "x"},
			want: []FieldError{
				{Field: "url", Message: "invalid url"},
				{Field: "code", Message: "only letters and digits are allowed"},
			},
		},
		{
			name: "too long",
			req:  req{URL: "https://example.com", Code: "abcdefghijk", Skip: "x"},
			want: []FieldError{{Field: "code", Message: "value is too long"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			got := ValidationErrorResponse(err)

			assert.Equal(t, StatusError, got.Status)
			assert.Equal(t, tt.want, got.Errors)
		})
	}

	t.Run("not validation error", func(t *testing.T) {
		assert.Nil(t, ValidationErrorResponse(errors.New("boom")).Errors)
	})
}
