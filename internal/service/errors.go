package service

import "errors"

// Kind classifies a service error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindConflict
	KindForbidden
	KindExpired
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindExpired:
		return "expired"
	case KindInvalidState:
		return "invalid_state"
	}
	return "internal"
}

// Error is a user-facing failure. Code is stable and machine readable.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrSpaceNotFound       = newError(KindNotFound, "SPACE_NOT_FOUND", "space not found")
	ErrFloorNotFound       = newError(KindNotFound, "FLOOR_NOT_FOUND", "floor not found")
	ErrReservationNotFound = newError(KindNotFound, "RESERVATION_NOT_FOUND", "reservation not found")
	ErrTokenNotFound       = newError(KindNotFound, "INVALID_TOKEN", "invalid invitation token")
	ErrParticipantNotFound = newError(KindNotFound, "PARTICIPANT_NOT_FOUND", "participant not found in this reservation")

	ErrInvalidTimeRange      = newError(KindInvalidInput, "INVALID_TIME_RANGE", "start time must be before end time")
	ErrGroupSizeRequired     = newError(KindInvalidInput, "VALIDATION_ERROR", "group size is required for group reservations")
	ErrInsufficientGroupSize = newError(KindInvalidInput, "INSUFFICIENT_GROUP_SIZE", "group is smaller than the room minimum")
	ErrExceedsMaxCapacity    = newError(KindInvalidInput, "EXCEEDS_MAX_CAPACITY", "group exceeds the room capacity")
	ErrInvalidKind           = newError(KindInvalidInput, "VALIDATION_ERROR", "reservation type must be individual or group")
	ErrNotGroupReservation   = newError(KindInvalidInput, "VALIDATION_ERROR", "this is not a group reservation")
	ErrInvalidDateFormat     = newError(KindInvalidInput, "INVALID_DATE_FORMAT", "invalid date format, use YYYY-MM-DD")
	ErrInvalidDatetime       = newError(KindInvalidInput, "INVALID_DATETIME", "invalid datetime")
	ErrInvalidFilter         = newError(KindInvalidInput, "VALIDATION_ERROR", "invalid filter")
	ErrInvalidSpace          = newError(KindInvalidInput, "VALIDATION_ERROR", "invalid space")
	ErrInvalidFloor          = newError(KindInvalidInput, "VALIDATION_ERROR", "invalid floor")
	ErrReasonRequired        = newError(KindInvalidInput, "VALIDATION_ERROR", "cancellation reason is required")

	ErrSeatsExhausted    = newError(KindConflict, "BOOKING_CONFLICT", "not enough seats available")
	ErrUserDoubleBooked  = newError(KindConflict, "BOOKING_CONFLICT", "you already have a reservation at this time")
	ErrAlreadyJoined     = newError(KindConflict, "ALREADY_JOINED", "you are already a participant in this reservation")
	ErrReservationFull   = newError(KindConflict, "FULL", "reservation is at full capacity")
	ErrAlreadyCancelled  = newError(KindConflict, "ALREADY_CANCELLED", "reservation is already cancelled")
	ErrBookingInProgress = newError(KindConflict, "BOOKING_BUSY", "another booking for this space or user is in progress, retry")

	ErrNotOwner     = newError(KindForbidden, "FORBIDDEN", "access denied")
	ErrNotOrganizer = newError(KindForbidden, "FORBIDDEN", "only the organizer can remove participants")

	ErrTokenExpired = newError(KindExpired, "EXPIRED", "invitation has expired")

	ErrReservationInactive   = newError(KindInvalidState, "INVALID_STATE", "reservation is not active")
	ErrCannotRemoveOrganizer = newError(KindInvalidState, "INVALID_STATE", "cannot remove the organizer from the reservation")
	ErrCannotCancelCompleted = newError(KindInvalidState, "CANNOT_CANCEL_COMPLETED", "cannot cancel a completed reservation")
	ErrOrganizerMissing      = newError(KindInvalidState, "INVALID_STATE", "reservation has no organizer")
)

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError unwraps the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
