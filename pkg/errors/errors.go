// Package errors defines the closed error taxonomy returned by the Instagram API wrapper.
//
// Every error produced by the SDK is one of the types below, and each reports its
// Kind. Callers branch on the kind to decide how to react:
//
//	switch errors.KindOf(err) {
//	case errors.KindCancelled:
//		// user backed out of the login page
//	case errors.KindInvalidRequest:
//		// server rejected the call, token may have expired
//	}
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies an SDK failure.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate in the SDK.
	KindUnknown Kind = iota
	// KindMissingClientConfig means the client id or redirect URI is absent.
	KindMissingClientConfig
	// KindCancelled means the login flow was dismissed before it finished.
	KindCancelled
	// KindInvalidRequest means the server reported an error for the call.
	KindInvalidRequest
	// KindDecoding means the response body did not match the envelope contract.
	KindDecoding
	// KindKeychain means the credential store could not be written or cleared.
	KindKeychain
	// KindTransport means the network call could not complete.
	KindTransport
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindMissingClientConfig: "missingClientConfig",
	KindCancelled:           "cancelled",
	KindInvalidRequest:      "invalidRequest",
	KindDecoding:            "decoding",
	KindKeychain:            "keychainError",
	KindTransport:           "transport",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinded is implemented by every error type in this package.
type Kinded interface {
	error
	Kind() Kind
}

// KindOf returns the Kind of the first SDK error found in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var k Kinded
	if stderrors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// joinParts joins error message parts with the specified separator.
func joinParts(parts []string, sep string) string {
	return strings.Join(parts, sep)
}

// ConfigError indicates the client configuration is incomplete or invalid.
type ConfigError struct {
	// Field contains the name of the configuration field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Kind returns KindMissingClientConfig.
func (e *ConfigError) Kind() Kind { return KindMissingClientConfig }

// CancelledError indicates the login flow ended before a token or a failure was observed.
type CancelledError struct {
	// Reason describes who ended the flow, e.g. "surface dismissed".
	Reason string
	// Err is the context error when the flow ended because of a deadline or cancellation.
	Err error
}

func (e *CancelledError) Error() string {
	msg := "login cancelled"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

// Kind returns KindCancelled.
func (e *CancelledError) Kind() Kind { return KindCancelled }

func (e *CancelledError) Unwrap() error {
	return e.Err
}

// APIError represents an error reported by the API, either in the envelope's
// meta block or as an HTTP 400 during the authorization redirect.
type APIError struct {
	// StatusCode is the HTTP status code, zero when unknown
	StatusCode int
	// Code is meta.code from the envelope
	Code int
	// ErrorType is meta.error_type from the envelope (if available)
	ErrorType string
	// Message is meta.error_message from the envelope
	Message string
}

func (e *APIError) Error() string {
	var parts []string
	parts = append(parts, "instagram API error")

	if e.Code != 0 {
		parts = append(parts, fmt.Sprintf("code %d", e.Code))
	} else if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.StatusCode))
	}
	if e.ErrorType != "" {
		parts = append(parts, e.ErrorType)
	}

	head := parts[0]
	if len(parts) > 1 {
		head += " (" + joinParts(parts[1:], ", ") + ")"
	}
	if e.Message == "" {
		return head
	}
	return head + ": " + e.Message
}

// Kind returns KindInvalidRequest.
func (e *APIError) Kind() Kind { return KindInvalidRequest }

// ParseError indicates the response body did not decode into the expected envelope.
type ParseError struct {
	// Operation is the name of the API operation where parsing failed
	Operation string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *ParseError) Error() string {
	// Use Message if available, otherwise use Err.Error()
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Operation != "" {
		return fmt.Sprintf("parse error during %s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("parse error: %s", msg)
}

// Kind returns KindDecoding.
func (e *ParseError) Kind() Kind { return KindDecoding }

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StorageError indicates the credential store could not persist or remove the token.
type StorageError struct {
	// Operation is "store" or "delete"
	Operation string
	// Code is the backend status code, see credstore.Status*
	Code int
	// Err contains the underlying error if available
	Err error
}

func (e *StorageError) Error() string {
	msg := "keychain error"
	if e.Operation != "" {
		msg += " during " + e.Operation
	}
	msg += fmt.Sprintf(" (code %d)", e.Code)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Kind returns KindKeychain.
func (e *StorageError) Kind() Kind { return KindKeychain }

func (e *StorageError) Unwrap() error {
	return e.Err
}

// RequestError indicates the HTTP call could not be built or completed.
type RequestError struct {
	// Operation is the name of the API operation that failed
	Operation string
	// URL is the URL that was being accessed, without the access token
	URL string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *RequestError) Error() string {
	// Use Message if available, otherwise use Err.Error()
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Operation != "" && e.URL != "" {
		return fmt.Sprintf("request error during %s to %s: %s", e.Operation, e.URL, msg)
	} else if e.Operation != "" {
		return fmt.Sprintf("request error during %s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("request error: %s", msg)
}

// Kind returns KindTransport.
func (e *RequestError) Kind() Kind { return KindTransport }

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ValidationError indicates a call was rejected before it was sent because an
// argument cannot be expressed as a valid request.
type ValidationError struct {
	// Field is the argument that failed validation
	Field string
	// Message describes the violated rule
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
	}
	return "validation error: " + e.Message
}

// Kind returns KindInvalidRequest.
func (e *ValidationError) Kind() Kind { return KindInvalidRequest }
