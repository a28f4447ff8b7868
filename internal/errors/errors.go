// Package errors provides standardized error handling for albumview.
// It defines the error kinds the client can run into, typed errors that
// carry request or configuration context, and helpers for creating,
// wrapping and inspecting them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Batch error kinds
	NothingSelected
	NotConfirmed
	OperationInFlight
	// Backend error kinds
	TransportFailed
	BackendStatus
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Path error kinds
	InvalidPath
)

var kindNames = map[ErrorKind]string{
	Unknown:           "unknown",
	NothingSelected:   "nothing_selected",
	NotConfirmed:      "not_confirmed",
	OperationInFlight: "operation_in_flight",
	TransportFailed:   "transport_failed",
	BackendStatus:     "backend_status",
	InvalidConfig:     "invalid_config",
	ConfigNotFound:    "config_not_found",
	InvalidPath:       "invalid_path",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Common error constants for frequently occurring errors
var (
	ErrNothingSelected   = NewOperationError("no files selected", "", NothingSelected)
	ErrNotConfirmed      = NewOperationError("operation not confirmed", "", NotConfirmed)
	ErrOperationInFlight = NewOperationError("operation already in progress", "", OperationInFlight)
	ErrInvalidConfig     = NewConfigError("invalid configuration", "", InvalidConfig, nil)
	ErrInvalidPath       = &ApplicationError{msg: "invalid path", kind: InvalidPath}
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// OperationError is returned when a batch operation is refused before any
// request is issued.
type OperationError struct {
	ApplicationError
	operation string
}

// NewOperationError creates a new operation error
func NewOperationError(msg, operation string, kind ErrorKind) *OperationError {
	return &OperationError{
		ApplicationError: ApplicationError{msg: msg, kind: kind},
		operation:        operation,
	}
}

// WithOperation returns a copy of the error naming the refused operation.
// The copy still matches the original with Is.
func (e *OperationError) WithOperation(operation string) *OperationError {
	return &OperationError{
		ApplicationError: ApplicationError{msg: e.msg, err: e, kind: e.kind},
		operation:        operation,
	}
}

// Error returns the operation error message
func (e *OperationError) Error() string {
	if e.operation != "" {
		return fmt.Sprintf("%s: %s", e.operation, e.msg)
	}
	return e.msg
}

// Operation returns the name of the refused operation
func (e *OperationError) Operation() string {
	return e.operation
}

// RequestError represents a failed call to the album backend. A zero
// status means the request never produced a response.
type RequestError struct {
	ApplicationError
	method string
	url    string
	status int
}

// NewTransportError creates an error for a request that got no response.
func NewTransportError(method, url string, err error) *RequestError {
	return &RequestError{
		ApplicationError: ApplicationError{msg: "request failed", err: err, kind: TransportFailed},
		method:           method,
		url:              url,
	}
}

// NewStatusError creates an error for a non-2xx response.
func NewStatusError(method, url string, status int, body string) *RequestError {
	msg := fmt.Sprintf("unexpected status %d", status)
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return &RequestError{
		ApplicationError: ApplicationError{msg: msg, kind: BackendStatus},
		method:           method,
		url:              url,
		status:           status,
	}
}

// Error returns the request error message
func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.method, e.url, e.ApplicationError.Error())
}

// Status returns the HTTP status code, or 0 for transport failures.
func (e *RequestError) Status() int {
	return e.status
}

// URL returns the requested URL
func (e *RequestError) URL() string {
	return e.url
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first error in err's chain that has a
// kind other than Unknown.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

func hasKind(err error, kind ErrorKind) bool {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNothingSelected checks if a batch was refused because the selection was empty
func IsNothingSelected(err error) bool {
	return hasKind(err, NothingSelected)
}

// IsNotConfirmed checks if a batch was refused by the confirmation prompt
func IsNotConfirmed(err error) bool {
	return hasKind(err, NotConfirmed)
}

// IsInFlight checks if a batch was refused because the same operation is running
func IsInFlight(err error) bool {
	return hasKind(err, OperationInFlight)
}

// IsTransport checks if the error is a request that never got a response
func IsTransport(err error) bool {
	return hasKind(err, TransportFailed)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsInvalidPath checks if the error is an invalid path error
func IsInvalidPath(err error) bool {
	return hasKind(err, InvalidPath)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status()
	}
	return 0
}

// IsForbidden checks if the backend refused access, as it does for locked
// albums the session is not authorized for.
func IsForbidden(err error) bool {
	return StatusOf(err) == 403
}

// IsIncorrectPassword checks if the backend rejected an album password.
func IsIncorrectPassword(err error) bool {
	return StatusOf(err) == 406
}
