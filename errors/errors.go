package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// InvalidTransition creates an AppError for advancing a unit out of state.
func InvalidTransition(id, state string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("unit %s cannot advance from terminal state %s", id, state),
		Details: map[string]any{"unit": id, "state": state},
	}
}

// AlreadyStarted creates an AppError for a repeated Start.
func AlreadyStarted(name string) *AppError {
	return &AppError{
		Code:    ErrCodeAlreadyStarted,
		Message: fmt.Sprintf("%s is already started", name),
		Details: map[string]any{"name": name},
	}
}

// NotStarted creates an AppError for waiting on something never started.
func NotStarted(name string) *AppError {
	return &AppError{
		Code:    ErrCodeNotStarted,
		Message: fmt.Sprintf("%s was never started", name),
		Details: map[string]any{"name": name},
	}
}

// HandoffClosed creates an AppError for a closed handoff slot.
func HandoffClosed() *AppError {
	return &AppError{Code: ErrCodeHandoffClosed, Message: "handoff slot is closed"}
}

// Canceled creates an AppError for a blocking operation released by ctx.
func Canceled(operation string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeCanceled,
		Message: fmt.Sprintf("%s canceled", operation),
		Details: map[string]any{"operation": operation},
		Cause:   cause,
	}
}

// StopCanceled creates an AppError for an interrupted wait on stage workers.
func StopCanceled(name string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeStopCanceled,
		Message: fmt.Sprintf("%s stop malfunction", name),
		Details: map[string]any{"name": name},
		Cause:   cause,
	}
}

// Validation creates an AppError for invalid configuration.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// Internal creates an AppError wrapping an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: "unexpected pipeline failure", Cause: cause}
}

// --- Inspection ---

// IsAppError returns true if err is or wraps an *AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError extracts the first *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode returns true if err's chain contains an *AppError with code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// IsCanceled returns true for CANCELED and STOP_CANCELED errors.
func IsCanceled(err error) bool {
	return HasCode(err, ErrCodeCanceled) || HasCode(err, ErrCodeStopCanceled)
}

// IsShutdown returns true if err describes a shutdown rather than a failure.
func IsShutdown(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && IsShutdownCode(appErr.Code)
}

// Wrap returns err as an *AppError, wrapping plain errors as INTERNAL_ERROR.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
