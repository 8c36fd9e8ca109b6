package lodestone

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the upstream contract.
var (
	// ErrNotFound indicates the requested entity does not exist upstream.
	ErrNotFound = errors.New("not found on lodestone")

	// ErrPrivate indicates the requested section is private.
	ErrPrivate = errors.New("section is private")

	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")
)

// ErrorClass represents a classification of upstream errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// ResponseError represents an upstream error with its HTTP status context.
type ResponseError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lodestone %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("lodestone %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ResponseError) Unwrap() error {
	return e.Err
}

// classifyStatus categorizes an HTTP status code.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == 429:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// statusError builds the error for a non-2xx upstream status. 404 and 403
// wrap the sentinels so callers can branch with errors.Is.
func statusError(status int, message string) error {
	e := &ResponseError{
		StatusCode: status,
		Class:      classifyStatus(status),
		Message:    message,
	}
	switch status {
	case 404:
		e.Err = ErrNotFound
	case 403:
		e.Err = ErrPrivate
	}
	return e
}

// shouldRetry determines if an error class should be retried.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassClient:
		// 4xx responses are definitive, retrying cannot change them
		return false
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		return false
	}
}
