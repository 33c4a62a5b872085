package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/dto"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/timezone"
)

type ListBookings struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListBookings(repo domain.Repository, loc *time.Location) *ListBookings {
	return &ListBookings{repo: repo, loc: loc}
}

func (uc *ListBookings) ForUser(ctx context.Context, userID uint) ([]dto.BookingListDTO, error) {
	bookings, err := uc.repo.ListBookingsForUser(ctx, userID)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}
	return uc.toDTO(ctx, bookings)
}

// ForStylistDay lists one stylist's bookings on a YYYY-MM-DD day, cancelled included.
func (uc *ListBookings) ForStylistDay(ctx context.Context, stylistID uint, date string) ([]dto.BookingListDTO, error) {
	day, err := timezone.ParseDate(date, uc.loc)
	if err != nil {
		return nil, domain.ErrInvalidRequest("The date must use the YYYY-MM-DD format.")
	}

	start, end := timezone.DayBounds(day)
	bookings, err := uc.repo.ListBookingsForStylist(ctx, stylistID, start, end)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}
	return uc.toDTO(ctx, bookings)
}

// ForPeriod lists bookings between two YYYY-MM-DD days, both inclusive.
func (uc *ListBookings) ForPeriod(ctx context.Context, from, to, status string) ([]dto.BookingListDTO, error) {
	fromDay, err := timezone.ParseDate(from, uc.loc)
	if err != nil {
		return nil, domain.ErrInvalidRequest("Invalid from date.")
	}
	toDay, err := timezone.ParseDate(to, uc.loc)
	if err != nil {
		return nil, domain.ErrInvalidRequest("Invalid to date.")
	}
	if toDay.Before(fromDay) {
		return nil, domain.ErrInvalidRequest("The period ends before it starts.")
	}
	if status != "" {
		switch domain.Status(status) {
		case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled:
		default:
			return nil, domain.ErrInvalidRequest("Unknown status.")
		}
	}

	start, _ := timezone.DayBounds(fromDay)
	_, end := timezone.DayBounds(toDay)

	bookings, err := uc.repo.ListBookingsForPeriod(ctx, start, end, status)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}
	return uc.toDTO(ctx, bookings)
}

func (uc *ListBookings) toDTO(ctx context.Context, bookings []models.Booking) ([]dto.BookingListDTO, error) {
	seen := make(map[uint]struct{})
	var ids []uint
	for _, b := range bookings {
		for _, id := range b.ServiceIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	services, err := uc.repo.ListServicesByIDs(ctx, ids)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}
	names := make(map[uint]string, len(services))
	for _, s := range services {
		names[s.ID] = s.Name
	}

	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		item := dto.BookingListDTO{
			ID:           b.ID,
			DateTime:     b.DateTime.In(uc.loc),
			Slot:         domain.Label(b.DateTime, uc.loc),
			Status:       b.Status,
			LocationType: b.LocationType,
			Duration:     b.DurationMinutes,
			StylistID:    b.StylistID,
			Services:     make([]string, 0, len(b.ServiceIDs)),
		}
		if b.Stylist != nil {
			item.StylistName = b.Stylist.Name
		}
		if b.User != nil {
			item.ClientName = b.User.Name
		}
		for _, id := range b.ServiceIDs {
			item.Services = append(item.Services, names[id])
		}
		out = append(out, item)
	}

	return out, nil
}
