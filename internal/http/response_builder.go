// Package http provides the JSON API server and its handlers.
//
// This file implements the builder used for every JSON response, including
// the error envelope and the mapping from domain errors to status codes.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"odolog/internal/core"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	payload    any
}

// ErrorBody is the error envelope: {"error": {...}}.
type ErrorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Data sets the value encoded as the response body.
func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.payload = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.payload)
}

// OK is a 200 response carrying v.
func OK(v any) *JSONResponseBuilder {
	return NewJSONResponse().Data(v)
}

// Created is a 201 response carrying v.
func Created(v any) *JSONResponseBuilder {
	return NewJSONResponse().Status(http.StatusCreated).Data(v)
}

// NoContent is an empty 204 response.
func NoContent() *JSONResponseBuilder {
	return NewJSONResponse().Status(http.StatusNoContent)
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, code, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Data(map[string]ErrorBody{"error": {Code: code, Message: message}})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, "bad_request", message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "internal", message)
}

// ValidationErrorResponse creates a 422 response naming the offending field.
func ValidationErrorResponse(ve *core.ValidationError) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(http.StatusUnprocessableEntity).
		Data(map[string]ErrorBody{"error": {
			Code:       "validation",
			Message:    ve.Error(),
			Field:      ve.Field,
			Suggestion: ve.Suggestion,
		}})
}

// FromError maps a domain error to its response: validation 422, unknown
// record 404, tracker state 409, anything else 500.
func FromError(err error) *JSONResponseBuilder {
	var ve *core.ValidationError
	var nf *core.NotFoundError
	switch {
	case errors.As(err, &ve):
		return ValidationErrorResponse(ve)
	case errors.As(err, &nf):
		return ErrorResponse(http.StatusNotFound, "not_found", nf.Error())
	case errors.Is(err, core.ErrTrackingActive):
		return ErrorResponse(http.StatusConflict, "tracking_active", "Pelacakan sudah berjalan.")
	case errors.Is(err, core.ErrNotTracking):
		return ErrorResponse(http.StatusConflict, "not_tracking", "Pelacakan belum dimulai.")
	default:
		return InternalServerError("Terjadi kesalahan internal.")
	}
}
