package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Persisted state errors
	ErrCodeStateCorrupted   ErrorCode = "STATE_CORRUPTED"
	ErrCodeMigrationFailed  ErrorCode = "MIGRATION_FAILED"
	ErrCodePersistenceRead  ErrorCode = "PERSISTENCE_READ"
	ErrCodePersistenceWrite ErrorCode = "PERSISTENCE_WRITE"

	// Domain errors
	ErrCodeEntityNotFound ErrorCode = "ENTITY_NOT_FOUND"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// DeckError represents a structured error with context
type DeckError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *DeckError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DeckError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *DeckError) WithDetail(key string, value interface{}) *DeckError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *DeckError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new DeckError
func New(code ErrorCode, message string) *DeckError {
	return &DeckError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a DeckError
func Wrap(err error, code ErrorCode, message string) *DeckError {
	return &DeckError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the first DeckError in err's chain.
func As(err error) (*DeckError, bool) {
	for err != nil {
		if deckErr, ok := err.(*DeckError); ok {
			return deckErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Is checks if an error is a specific DeckError code
func Is(err error, code ErrorCode) bool {
	deckErr, ok := As(err)
	return ok && deckErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if deckErr, ok := As(err); ok {
		return deckErr.Code
	}
	return ""
}
