// Package response defines the JSON envelopes returned by the HTTP API.
package response

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Response struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Data    any          `json:"data,omitempty"`
}

var ServerErrorResponse = ErrorResponse("server error occurred")

// SuccessResponse wraps data in a success envelope. Only the first value is used.
func SuccessResponse(data ...any) Response {
	resp := Response{Status: StatusSuccess}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	return resp
}

func ErrorResponse(msg string, errs ...FieldError) Response {
	return Response{
		Status:  StatusError,
		Message: msg,
		Errors:  errs,
	}
}

// ValidationErrorResponse describes every failed validator rule of err.
func ValidationErrorResponse(err error) Response {
	return ErrorResponse("validation error", getValidationErrors(err)...)
}

// JSONTagName makes validator report fields by their json names.
func JSONTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url", "http_url":
		return "invalid url"
	case "alphanum":
		return "only letters and digits are allowed"
	case "max":
		return "value is too long"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fieldErrs := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrs = append(fieldErrs, FieldError{
			Field:   e.Field(),
			Message: messageForTag(e.Tag()),
		})
	}

	return fieldErrs
}
