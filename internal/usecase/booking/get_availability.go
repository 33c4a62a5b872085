package booking

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	hours domain.BusinessHours
	loc   *time.Location
}

func NewGetAvailability(
	repo domain.Repository,
	hours domain.BusinessHours,
	loc *time.Location,
) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		hours: hours,
		loc:   loc,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

	dateStr := strings.TrimSpace(in.Date)
	if dateStr == "" {
		return nil, domain.ErrInvalidRequest("A date is required.")
	}

	date, err := timezone.ParseDate(dateStr, uc.loc)
	if err != nil {
		return nil, domain.ErrInvalidRequest("The date must use the YYYY-MM-DD format.")
	}

	start, end := timezone.DayBounds(date)

	bookings, err := uc.repo.ListBookingsForDay(ctx, start, end)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}

	booked := make(map[uint][]string)
	for _, b := range bookings {
		booked[b.StylistID] = append(booked[b.StylistID], domain.Label(b.DateTime, uc.loc))
	}

	all := uc.hours.Labels(date)

	taken := make(map[string]struct{}, len(booked[in.StylistID]))
	for _, label := range booked[in.StylistID] {
		taken[label] = struct{}{}
	}

	available := make([]string, 0, len(all))
	for _, label := range all {
		if _, ok := taken[label]; !ok {
			available = append(available, label)
		}
	}

	_, open := uc.hours.For(date.Weekday())

	return &domain.Availability{
		Date:                 date.Format("2006-01-02"),
		Closed:               !open,
		AllSlots:             all,
		BookedSlotsByStylist: booked,
		Available:            available,
	}, nil
}
