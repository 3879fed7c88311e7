package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a Failure independently of its HTTP code so callers can branch on the
// domain outcome with errors.Is.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindAlreadyBooked     Kind = "already_booked"
	KindSlotUnavailable   Kind = "slot_unavailable"
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindStaleState        Kind = "stale_state"
	KindLimitExceeded     Kind = "limit_exceeded"
	KindForbidden         Kind = "forbidden"
	KindUnauthorized      Kind = "unauthorized"
	KindUnavailable       Kind = "unavailable"
	KindInternal          Kind = "internal"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`

	cause error
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have the required permissions"}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrInvalidInput      = &Failure{Kind: KindInvalidInput}
	ErrAlreadyBooked     = &Failure{Kind: KindAlreadyBooked}
	ErrSlotUnavailable   = &Failure{Kind: KindSlotUnavailable}
	ErrNotFound          = &Failure{Kind: KindNotFound}
	ErrInvalidTransition = &Failure{Kind: KindInvalidTransition}
	ErrStaleState        = &Failure{Kind: KindStaleState}
	ErrLimitExceeded     = &Failure{Kind: KindLimitExceeded}
	ErrForbidden         = &Failure{Kind: KindForbidden}
	ErrUnavailable       = &Failure{Kind: KindUnavailable}
)

// unavailableMessage is all a client learns about a storage fault.
const unavailableMessage = "service is temporarily unavailable, try again later"

func newFailure(code int, kind Kind, msg string) error {
	return &Failure{Code: code, Kind: kind, Message: msg}
}

func (e *Failure) Error() string {
	return e.Message
}

// Unwrap exposes the underlying fault to errors.Is and errors.As. It is never rendered.
func (e *Failure) Unwrap() error {
	return e.cause
}

// Is reports whether target is a Failure of the same Kind.
func (e *Failure) Is(target error) bool {
	var t *Failure
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind != "" && t.Kind == e.Kind
}

// BadRequest turns a decoding or validation error into an invalid-input Failure. Nil stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, KindInvalidInput, err.Error())
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, KindInvalidInput, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, KindUnauthorized, msg)
}

// NotFound takes a message naming what was missing.
func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, KindNotFound, msg)
}

// AlreadyBooked is returned when the caller already holds a live booking.
func AlreadyBooked(msg string) error {
	return newFailure(http.StatusConflict, KindAlreadyBooked, msg)
}

// SlotUnavailable is returned when the slot is missing, occupied or could not be locked in time.
// Callers may retry.
func SlotUnavailable(msg string) error {
	return newFailure(http.StatusConflict, KindSlotUnavailable, msg)
}

func InvalidTransition(msg string) error {
	return newFailure(http.StatusConflict, KindInvalidTransition, msg)
}

// StaleState is returned by compare-and-swap writes that lost a race.
func StaleState(msg string) error {
	return newFailure(http.StatusConflict, KindStaleState, msg)
}

func LimitExceeded(msg string) error {
	return newFailure(http.StatusUnprocessableEntity, KindLimitExceeded, msg)
}

// Unavailable wraps a storage or connectivity fault. It is never retried internally. The message
// is fixed; err stays reachable through Unwrap for logs only.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: http.StatusServiceUnavailable, Kind: KindUnavailable, Message: unavailableMessage, cause: err}
}

// GetCode returns the HTTP code carried by err, 500 for foreign errors.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) && fail.Code != 0 {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the Kind of an error interface, KindInternal for foreign errors.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) && fail.Kind != "" {
		return fail.Kind
	}

	return KindInternal
}
