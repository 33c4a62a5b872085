package booking

import (
	"time"

	"github.com/BruksfildServices01/salon-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(b *models.Booking, now time.Time) error {
	if err := CanConfirm(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusConfirmed)
	b.ConfirmedAt = &now
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

// DefaultServiceMinutes is used for services without a catalog duration.
const DefaultServiceMinutes = 45

// TotalDuration sums the catalog durations of services.
func TotalDuration(services []models.Service) int {
	total := 0
	for _, s := range services {
		if s.DurationMin > 0 {
			total += s.DurationMin
		} else {
			total += DefaultServiceMinutes
		}
	}
	if total == 0 {
		return DefaultServiceMinutes
	}
	return total
}
