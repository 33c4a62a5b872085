package booking

import "github.com/BruksfildServices01/salon-booking/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func InitialStatus() Status {
	return StatusPending
}

// Active bookings hold their stylist's slot.
func (s Status) Active() bool {
	return s != StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanConfirm only allows pending -> confirmed.
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusinessMsg(CodeInvalidState, "Only pending bookings can be confirmed.")
	}
	return nil
}

// CanCancel allows pending or confirmed -> cancelled.
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusinessMsg(CodeInvalidState, "This booking is already cancelled.")
	}
	return nil
}
