package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline invariant errors. These indicate a programming error, not a
// condition to recover from.
const (
	// ErrCodeInvalidTransition indicates a unit was advanced past its terminal state.
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	// ErrCodeAlreadyStarted indicates Start was called on a running line or plant.
	ErrCodeAlreadyStarted ErrorCode = "ALREADY_STARTED"
	// ErrCodeNotStarted indicates a wait on a line or plant that never started.
	ErrCodeNotStarted ErrorCode = "NOT_STARTED"
)

// Shutdown errors
const (
	// ErrCodeHandoffClosed indicates the handoff slot was closed by its producer.
	ErrCodeHandoffClosed ErrorCode = "HANDOFF_CLOSED"
	// ErrCodeCanceled indicates a blocking operation was released by its context.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeStopCanceled indicates the wait for workers to stop was itself canceled.
	ErrCodeStopCanceled ErrorCode = "STOP_CANCELED"
)

// Configuration errors
const (
	// ErrCodeValidation indicates invalid configuration or input.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure inside a stage worker.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var shutdownCodes = map[ErrorCode]bool{
	ErrCodeHandoffClosed: true,
	ErrCodeCanceled:      true,
	ErrCodeStopCanceled:  true,
}

// IsShutdownCode returns true if the code describes an orderly or forced
// shutdown rather than a failure.
func IsShutdownCode(code ErrorCode) bool {
	return shutdownCodes[code]
}
