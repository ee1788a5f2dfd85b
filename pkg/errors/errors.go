package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeInternal   ErrorType = "internal"

	// Supervision errors
	ErrorTypeSpawn            ErrorType = "spawn"
	ErrorTypeProcessQuery     ErrorType = "process_query"
	ErrorTypeProcessKill      ErrorType = "process_kill"
	ErrorTypeEventDecode      ErrorType = "event_decode"
	ErrorTypeLogDirectoryOpen ErrorType = "log_directory_open"
	ErrorTypeNotification     ErrorType = "notification"
)

// DomainError represents a structured error with type and context
type DomainError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *DomainError) Is(target error) bool {
	if other, ok := target.(*DomainError); ok {
		return e.Type == other.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errorType ErrorType, message string, cause error) *DomainError {
	return &DomainError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

func NewValidationError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, cause)
}

func NewPermissionError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypePermission, message, cause)
}

func NewIOError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeIO, message, cause)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeInternal, message, cause)
}

// NewSpawnError reports that the child process could not be started or its
// output could not be redirected.
func NewSpawnError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeSpawn, message, cause)
}

func NewProcessQueryError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeProcessQuery, message, cause)
}

func NewProcessKillError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeProcessKill, message, cause)
}

// NewEventDecodeError reports a tray menu identifier outside the known set.
func NewEventDecodeError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeEventDecode, message, cause)
}

func NewLogDirectoryOpenError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeLogDirectoryOpen, message, cause)
}

func NewNotificationError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeNotification, message, cause)
}

// Error checking helpers

// isType matches any DomainError in the chain, so a spawn error wrapping a
// validation error satisfies both checks
func isType(err error, errorType ErrorType) bool {
	return errors.Is(err, &DomainError{Type: errorType})
}

func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

func IsPermissionError(err error) bool {
	return isType(err, ErrorTypePermission)
}

func IsIOError(err error) bool {
	return isType(err, ErrorTypeIO)
}

func IsInternalError(err error) bool {
	return isType(err, ErrorTypeInternal)
}

func IsSpawnError(err error) bool {
	return isType(err, ErrorTypeSpawn)
}

func IsProcessQueryError(err error) bool {
	return isType(err, ErrorTypeProcessQuery)
}

func IsProcessKillError(err error) bool {
	return isType(err, ErrorTypeProcessKill)
}

func IsEventDecodeError(err error) bool {
	return isType(err, ErrorTypeEventDecode)
}

func IsLogDirectoryOpenError(err error) bool {
	return isType(err, ErrorTypeLogDirectoryOpen)
}

func IsNotificationError(err error) bool {
	return isType(err, ErrorTypeNotification)
}

// ErrorCollection aggregates errors from cleanup steps that must all run
type ErrorCollection struct {
	Errors []error
}

func (e *ErrorCollection) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred: %v", len(e.Errors), e.Errors[0])
}

func (e *ErrorCollection) Unwrap() []error {
	return e.Errors
}

func (e *ErrorCollection) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *ErrorCollection) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ErrorCollection) ToError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// NewErrorCollection creates a new error collection
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		Errors: make([]error, 0),
	}
}
