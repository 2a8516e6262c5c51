package sdk

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/birbparty/go-confluence/cql"
)

// Common errors returned by the SDK. These can be used with errors.Is()
// to check for specific error conditions.
//
// Example:
//
//	space, err := client.Space().Get(ctx, "DEV", nil)
//	if errors.Is(err, sdk.ErrNotFound) {
//	    // Space does not exist
//	} else if errors.Is(err, sdk.ErrUnauthorized) {
//	    // Credentials were rejected
//	} else if errors.Is(err, sdk.ErrCircuitOpen) {
//	    // Confluence is failing, fail fast
//	}
var (
	// ErrInvalidArgument is returned for rejected input such as an empty
	// expand list or a page direction without a link. It is the same
	// sentinel the cql package uses.
	ErrInvalidArgument = cql.ErrInvalidArgument

	// ErrInvalidConfig is returned when the configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound is returned when the requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned for 401 and 403 responses
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTimeout is returned when a request times out
	ErrTimeout = errors.New("request timeout")

	// ErrServerError is returned for 5xx server errors
	ErrServerError = errors.New("server error")

	// ErrInvalidResponse is returned when the server response cannot be parsed
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrUnexpectedStatus is returned when a 2xx status other than the one an
	// operation expects is received
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrCircuitOpen is returned when the circuit breaker is open
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrRateLimited is returned when the request is rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrClientClosed is returned for calls made after Close
	ErrClientClosed = errors.New("client is closed")
)

// ErrorType represents the type of error for categorization and handling.
// Different error types may have different retry behaviors.
type ErrorType int

const (
	// ErrorTypeUnknown represents an unknown or unclassified error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork represents network-related errors (connection refused, DNS, etc.)
	ErrorTypeNetwork
	// ErrorTypeTimeout represents timeout errors (request timeout, context deadline)
	ErrorTypeTimeout
	// ErrorTypeServer represents server errors (5xx HTTP status codes)
	ErrorTypeServer
	// ErrorTypeClient represents client errors (4xx HTTP status codes)
	ErrorTypeClient
	// ErrorTypeAuth represents rejected credentials (401, 403)
	ErrorTypeAuth
	// ErrorTypeCircuitOpen represents circuit breaker open state errors
	ErrorTypeCircuitOpen
	// ErrorTypeRateLimit represents rate limiting errors (429 Too Many Requests)
	ErrorTypeRateLimit
	// ErrorTypeValidation represents validation errors (invalid input, config, etc.)
	ErrorTypeValidation
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeServer:
		return "server"
	case ErrorTypeClient:
		return "client"
	case ErrorTypeAuth:
		return "auth"
	case ErrorTypeCircuitOpen:
		return "circuit_open"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error represents an enhanced error with additional context and metadata.
// It implements the error interface and supports errors.Is() and errors.As().
//
// Example:
//
//	var sdkErr *sdk.Error
//	if errors.As(err, &sdkErr) {
//	    fmt.Printf("Error Type: %s\n", sdkErr.Type)
//	    fmt.Printf("Retryable: %v\n", sdkErr.IsRetryable())
//	    fmt.Printf("Request ID: %s\n", sdkErr.RequestID)
//	}
type Error struct {
	// Type categorizes the error for handling decisions
	Type ErrorType `json:"type"`
	// Code is the reason phrase reported by Confluence, if any
	Code string `json:"code,omitempty"`
	// Message is a human-readable error description
	Message string `json:"message"`
	// Details contains additional error metadata
	Details map[string]interface{} `json:"details,omitempty"`
	// RequestID is the X-Request-ID sent with the failed request
	RequestID string `json:"request_id,omitempty"`
	// Timestamp is when the error occurred
	Timestamp time.Time `json:"timestamp"`
	// Retryable indicates if the operation can be retried
	Retryable bool `json:"retryable"`
	// Context provides additional context about the failed operation
	Context *ErrorContext `json:"context,omitempty"`
	// wrapped is the underlying error, if any
	wrapped error
}

// ErrorContext provides additional context about the operation that failed.
type ErrorContext struct {
	// URL is the full URL of the failed request
	URL string `json:"url,omitempty"`
	// Method is the HTTP method used (GET, POST, DELETE, etc.)
	Method string `json:"method,omitempty"`
	// Duration is how long the operation took before failing
	Duration time.Duration `json:"duration,omitempty"`
	// RetryCount is the number of retry attempts made
	RetryCount int `json:"retry_count,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Context != nil && e.Context.URL != "" {
		return fmt.Sprintf("%s error: %s (%s %s)", e.Type, e.Message, e.Context.Method, e.Context.URL)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Is implements errors.Is
func (e *Error) Is(target error) bool {
	switch e.Type {
	case ErrorTypeTimeout:
		return target == ErrTimeout
	case ErrorTypeServer:
		return target == ErrServerError
	case ErrorTypeAuth:
		return target == ErrUnauthorized
	case ErrorTypeCircuitOpen:
		return target == ErrCircuitOpen
	case ErrorTypeRateLimit:
		return target == ErrRateLimited
	case ErrorTypeClient:
		if target == ErrNotFound {
			var apiErr *APIError
			return errors.As(e.wrapped, &apiErr) && apiErr.IsNotFound()
		}
	}
	return false
}

// IsRetryable returns true if the error is retryable
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// WithContext adds error context
func (e *Error) WithContext(ctx *ErrorContext) *Error {
	e.Context = ctx
	return e
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewError creates a new enhanced error
func NewError(errType ErrorType, message string, wrapped error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Retryable: isRetryableType(errType),
		wrapped:   wrapped,
	}
}

// NewErrorWithCode creates a new enhanced error with a code
func NewErrorWithCode(errType ErrorType, code, message string, wrapped error) *Error {
	err := NewError(errType, message, wrapped)
	err.Code = code
	return err
}

func isRetryableType(errType ErrorType) bool {
	switch errType {
	case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeServer, ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}

// invalidArgument builds a validation error matching ErrInvalidArgument.
func invalidArgument(format string, args ...interface{}) *Error {
	return NewError(ErrorTypeValidation, fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// APIError is the error body Confluence returns for failed requests:
//
//	{"statusCode":404,"message":"No space with key : FOO","reason":"Not Found"}
type APIError struct {
	// StatusCode is the HTTP status code from the response
	StatusCode int `json:"statusCode"`
	// Message is the error message from the server
	Message string `json:"message"`
	// Reason is the HTTP reason phrase reported by the server
	Reason string `json:"reason,omitempty"`
	// Data carries validation details for 400 responses
	Data *APIErrorData `json:"data,omitempty"`
	// RetryAfter is parsed from the Retry-After header of 429 and 503 responses
	RetryAfter time.Duration `json:"-"`
}

// APIErrorData holds the validation section of an APIError.
type APIErrorData struct {
	Authorized bool `json:"authorized"`
	Valid      bool `json:"valid"`
	Successful bool `json:"successful"`
	Errors     []struct {
		Message struct {
			Key         string        `json:"key"`
			Args        []interface{} `json:"args"`
			Translation string        `json:"translation"`
		} `json:"message"`
	} `json:"errors"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("API error (status %d %s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a not found error
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsServerError returns true if the error is a server error
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// IsClientError returns true if the error is a client error
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsRetryable returns true if the error is retryable
func (e *APIError) IsRetryable() bool {
	if e.IsServerError() {
		return true
	}
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	}
	return false
}

// ToError converts APIError to the enhanced Error type
func (e *APIError) ToError() *Error {
	errType := ErrorTypeClient
	switch {
	case e.IsServerError():
		errType = ErrorTypeServer
	case e.StatusCode == http.StatusTooManyRequests:
		errType = ErrorTypeRateLimit
	case e.StatusCode == http.StatusRequestTimeout:
		errType = ErrorTypeTimeout
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		errType = ErrorTypeAuth
	}

	err := NewErrorWithCode(errType, e.Reason, e.Message, e)
	if e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == http.StatusGatewayTimeout {
		err.Retryable = true
	}
	err.WithDetail("status_code", e.StatusCode)
	return err
}

// NetworkError represents a network-related error such as connection
// refused, DNS resolution failure, or connection timeout.
type NetworkError struct {
	// Op is the operation that failed (e.g., "GET space/DEV")
	Op string
	// Err is the underlying network error
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ToError converts NetworkError to the enhanced Error type
func (e *NetworkError) ToError() *Error {
	err := NewError(ErrorTypeNetwork, e.Error(), e)
	err.WithDetail("operation", e.Op)
	return err
}

// TimeoutError represents an operation that exceeded its time limit.
type TimeoutError struct {
	// Op is the operation that timed out
	Op string
	// Err is the context or client error
	Err error
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout during %s", e.Op)
}

// Unwrap returns the underlying error
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// ToError converts TimeoutError to the enhanced Error type
func (e *TimeoutError) ToError() *Error {
	err := NewError(ErrorTypeTimeout, e.Error(), e)
	err.WithDetail("operation", e.Op)
	return err
}

// IsNotFound checks if the error represents a "not found" condition.
//
// Example:
//
//	space, err := client.Space().Get(ctx, key, nil)
//	if sdk.IsNotFound(err) {
//	    space, err = client.Space().Create(ctx, key, name, "")
//	}
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsNotFound()
	}
	return false
}

// IsRetryable checks if an error is retryable.
// Retryable errors include network errors, timeouts, 5xx responses and 429.
// Client errors, validation errors and an open circuit are not retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var enhancedErr *Error
	if errors.As(err, &enhancedErr) {
		return enhancedErr.IsRetryable()
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return true
	}

	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrServerError) || errors.Is(err, ErrRateLimited)
}

// WrapError wraps an error with additional context and type information.
// If the error is already an enhanced Error, it updates the message.
func WrapError(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var enhancedErr *Error
	if errors.As(err, &enhancedErr) {
		enhancedErr.Message = message
		return enhancedErr
	}

	return NewError(errType, message, err)
}
