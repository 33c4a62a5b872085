package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-booking/internal/models"
)

type Repository interface {
	// -------- Catalog --------
	GetStylist(
		ctx context.Context,
		id uint,
	) (*models.Stylist, error)

	ListServicesByIDs(
		ctx context.Context,
		ids []uint,
	) ([]models.Service, error)

	ListAdminIDs(
		ctx context.Context,
	) ([]uint, error)

	// -------- Booking (create / conflict) --------

	// InsertBooking must return ErrSlotConflict when another active booking
	// already holds (StylistID, DateTime). The check and the write are one
	// atomic operation.
	InsertBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	FindActiveBooking(
		ctx context.Context,
		stylistID uint,
		at time.Time,
	) (*models.Booking, error)

	// -------- Booking (state change) --------
	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	// UpdateBookingStatus persists b only if the stored status is still from,
	// returning ErrStaleStatus otherwise.
	UpdateBookingStatus(
		ctx context.Context,
		b *models.Booking,
		from Status,
	) error

	// -------- Availability / listings --------

	// ListBookingsForDay returns active bookings of every stylist in [start, end].
	ListBookingsForDay(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	ListBookingsForStylist(
		ctx context.Context,
		stylistID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	ListBookingsForUser(
		ctx context.Context,
		userID uint,
	) ([]models.Booking, error)

	ListBookingsForPeriod(
		ctx context.Context,
		start time.Time,
		end time.Time,
		status string,
	) ([]models.Booking, error)
}
