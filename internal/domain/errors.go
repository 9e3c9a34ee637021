package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the short code-like string reported in the "error" field of
// failure responses.
type Kind string

const (
	KindNoFileProvided   Kind = "NoFileProvided"
	KindNoUrlProvided    Kind = "NoUrlProvided"
	KindNoKeyProvided    Kind = "NoKeyProvided"
	KindUnsupportedType  Kind = "UnsupportedType"
	KindFileTooLarge     Kind = "FileTooLarge"
	KindFetchFailed      Kind = "FetchFailed"
	KindProcessingFailed Kind = "ProcessingFailed"
	KindServerError      Kind = "ServerError"
)

// AppError carries a failure kind, the HTTP status it maps to, and a
// human-readable message. It wraps the underlying cause when there is one.
type AppError struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func ErrNoFileProvided() *AppError {
	return &AppError{
		Kind:    KindNoFileProvided,
		Status:  http.StatusBadRequest,
		Message: "no image file provided in the 'image' field",
	}
}

func ErrNoUrlProvided() *AppError {
	return &AppError{
		Kind:    KindNoUrlProvided,
		Status:  http.StatusBadRequest,
		Message: "no imageUrl provided in the request body",
	}
}

func ErrNoKeyProvided() *AppError {
	return &AppError{
		Kind:    KindNoKeyProvided,
		Status:  http.StatusBadRequest,
		Message: "no object key provided in the request body",
	}
}

func ErrUnsupportedType(contentType string) *AppError {
	return &AppError{
		Kind:    KindUnsupportedType,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("unsupported content type %q, only images are accepted", contentType),
	}
}

func ErrFileTooLarge(size, limit int64) *AppError {
	return &AppError{
		Kind:    KindFileTooLarge,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("file size %d exceeds the limit of %d bytes", size, limit),
	}
}

func ErrFetchFailed(detail string, cause error) *AppError {
	return &AppError{
		Kind:    KindFetchFailed,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("failed to fetch image: %s", detail),
		cause:   cause,
	}
}

// ErrProcessingFailed forwards the decoder message verbatim.
func ErrProcessingFailed(cause error) *AppError {
	return &AppError{
		Kind:    KindProcessingFailed,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("failed to process image: %v", cause),
		cause:   cause,
	}
}

func ErrServerError() *AppError {
	return &AppError{
		Kind:    KindServerError,
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
	}
}

// AsAppError extracts an AppError from an error chain, falling back to
// ServerError so every failure still produces a structured response.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrServerError()
}
