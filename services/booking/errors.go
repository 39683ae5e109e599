package booking

import (
	"fmt"

	"reserva/models"
)

// Error codes for the reservation engine. Availability and validation
// failures are returned as typed values so callers can branch on the code;
// transition and refund errors are invariants and abort the operation.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeNoProfile         = "NO_PROFILE"
	CodeDayUnavailable    = "NOT_AVAILABLE_DAY"
	CodeDateException     = "DATE_EXCEPTION"
	CodePastSlot          = "PAST_SLOT"
	CodeNotInSlot         = "NOT_IN_SLOT"
	CodeSlotConflict      = "SLOT_CONFLICT"
	CodeLockTimeout       = "LOCK_TIMEOUT"
	CodeInvalidTransition = "INVALID_STATE_TRANSITION"
	CodeStaleVersion      = "STALE_VERSION"
	CodeRefundCalculation = "REFUND_CALCULATION_ERROR"
)

// Error is the typed failure returned by the reservation engine.
type Error struct {
	Code    string
	Message string
	// Alternatives carries suggested "HH:MM" start times on availability
	// failures.
	Alternatives []string
	// CurrentStatus is set on invalid-transition errors so the caller can
	// refresh its view.
	CurrentStatus models.BookingStatus
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Retryable reports whether re-querying availability and retrying may
// succeed. Slot conflicts and lock timeouts are the only retryable codes;
// everything else needs corrected input or a state refresh.
func (e *Error) Retryable() bool {
	return e.Code == CodeSlotConflict || e.Code == CodeLockTimeout
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(what string) *Error {
	return &Error{Code: CodeNotFound, Message: what + " not found"}
}

func NewAvailabilityError(code, message string, alternatives []string) *Error {
	return &Error{Code: code, Message: message, Alternatives: alternatives}
}

func NewSlotConflictError() *Error {
	return &Error{Code: CodeSlotConflict, Message: "requested window overlaps an existing booking"}
}

func NewLockTimeoutError() *Error {
	return &Error{Code: CodeLockTimeout, Message: "could not acquire the reservation lock in time; retry"}
}

func NewInvalidTransitionError(current, target models.BookingStatus) *Error {
	return &Error{
		Code:          CodeInvalidTransition,
		Message:       fmt.Sprintf("cannot transition from %s to %s", current, target),
		CurrentStatus: current,
	}
}

func NewStaleVersionError() *Error {
	return &Error{Code: CodeStaleVersion, Message: "booking was modified concurrently; reload and retry"}
}

func NewRefundCalculationError(format string, args ...any) *Error {
	return &Error{Code: CodeRefundCalculation, Message: fmt.Sprintf(format, args...)}
}
