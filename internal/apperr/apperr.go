// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the stores and the
// HTTP layer. Every domain outcome that is not a success is an *AppError
// carrying a machine-readable code and the HTTP status it maps to. The
// package-level sentinels match any AppError with the same code through
// errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeDuplicateKey = "DUPLICATE_KEY"
	CodeAccessDenied = "ACCESS_DENIED"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHENTICATED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the canonical domain error.
type AppError struct {
	// Code is a machine-readable identifier, one of the Code* constants.
	Code string `json:"code"`
	// Message is safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the response status the request layer should use.
	HTTPStatus int `json:"-"`
	// Cause is for server-side logging only.
	Cause error `json:"-"`
}

// Sentinels for errors.Is matching.
var (
	ErrNotFound     = &AppError{Code: CodeNotFound, Message: "not found", HTTPStatus: http.StatusNotFound}
	ErrDuplicateKey = &AppError{Code: CodeDuplicateKey, Message: "already exists", HTTPStatus: http.StatusConflict}
	ErrAccessDenied = &AppError{Code: CodeAccessDenied, Message: "access denied", HTTPStatus: http.StatusForbidden}
	ErrValidation   = &AppError{Code: CodeValidation, Message: "invalid input", HTTPStatus: http.StatusBadRequest}
	ErrUnauthorized = &AppError{Code: CodeUnauthorized, Message: "authentication required", HTTPStatus: http.StatusUnauthorized}
)

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NotFound creates a 404 error for a named resource.
//
//	apperr.NotFound("category") // "category not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// DuplicateKey creates a 409 error for a unique constraint violation.
func DuplicateKey(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeDuplicateKey,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
		Cause:      cause,
	}
}

// AccessDenied creates a 403 error.
func AccessDenied(msg string) *AppError {
	return &AppError{
		Code:       CodeAccessDenied,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Unauthorized creates a 401 error for missing or bad credentials.
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Validation creates a 400 error. The message is formatted like fmt.Sprintf.
func Validation(format string, args ...any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal wraps an unexpected error. The cause is never sent to clients.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// As extracts the *AppError from err's chain, converting anything else into
// an Internal error.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}
