package booking

import (
	"errors"
	"fmt"

	"github.com/BruksfildServices01/salon-booking/internal/httperr"
)

const (
	CodeMissingField         = "missing_field"
	CodeOutsideBusinessHours = "outside_business_hours"
	CodeSlotAlreadyBooked    = "slot_already_booked"
	CodeInvalidRequest       = "invalid_request"
	CodeStoreUnavailable     = "store_unavailable"
	CodeInvalidState         = "invalid_state"
	CodeBookingNotFound      = "booking_not_found"
	CodeForbidden            = "forbidden"
)

// Repository sentinels.
var (
	ErrNotFound     = errors.New("booking: record not found")
	ErrSlotConflict = errors.New("booking: stylist slot already taken")
	ErrStaleStatus  = errors.New("booking: status changed concurrently")
	ErrUnknownOwner = errors.New("booking: referenced user does not exist")
)

func ErrMissingField(field string) error {
	return httperr.ErrBusinessMsg(CodeMissingField, fmt.Sprintf("The field %q is required.", field))
}

func ErrInvalidRequest(message string) error {
	return httperr.ErrBusinessMsg(CodeInvalidRequest, message)
}

func ErrOutsideBusinessHours() error {
	return httperr.ErrBusinessMsg(CodeOutsideBusinessHours, "The salon is closed at the requested time.")
}

func ErrSlotAlreadyBooked() error {
	return httperr.Wrap(CodeSlotAlreadyBooked, "This slot is already booked.", ErrSlotConflict)
}

func ErrBookingNotFound() error {
	return httperr.Wrap(CodeBookingNotFound, "Booking not found.", ErrNotFound)
}

func ErrForbidden() error {
	return httperr.ErrBusinessMsg(CodeForbidden, "You are not allowed to change this booking.")
}

// ErrStoreUnavailable marks a persistence failure the caller may retry.
func ErrStoreUnavailable(cause error) error {
	return httperr.Wrap(CodeStoreUnavailable, "The booking service is temporarily unavailable, please try again.", cause)
}
