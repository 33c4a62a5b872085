package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID uint

	StylistID    uint
	ServiceIDs   []uint
	LocationType string
	DateTime     time.Time

	Address string
	Notes   string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	hours    domain.BusinessHours
	loc      *time.Location
	notifier notify.Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewCreateBooking(
	repo domain.Repository,
	hours domain.BusinessHours,
	loc *time.Location,
	notifier notify.Notifier,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		hours:    hours,
		loc:      loc,
		notifier: notifier,
		audit:    audit,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Required fields
	// --------------------------------------------------
	switch {
	case in.UserID == 0:
		return nil, domain.ErrMissingField("user_id")
	case len(in.ServiceIDs) == 0:
		return nil, domain.ErrMissingField("service_ids")
	case in.StylistID == 0:
		return nil, domain.ErrMissingField("stylist_id")
	case in.LocationType == "":
		return nil, domain.ErrMissingField("location_type")
	case in.DateTime.IsZero():
		return nil, domain.ErrMissingField("date_time")
	}

	location, ok := domain.ParseLocationType(in.LocationType)
	if !ok {
		return nil, domain.ErrInvalidRequest("The location type must be Home or Salon.")
	}

	at := in.DateTime.In(uc.loc)
	if !domain.OnTheHour(at) {
		return nil, domain.ErrInvalidRequest("Appointments start on the hour.")
	}

	// --------------------------------------------------
	// 2. Salon hours (home visits skip this)
	// --------------------------------------------------
	if location.BoundByBusinessHours() && !uc.hours.Contains(at) {
		return nil, domain.ErrOutsideBusinessHours()
	}

	// --------------------------------------------------
	// 3. Catalog
	// --------------------------------------------------
	stylist, err := uc.repo.GetStylist(ctx, in.StylistID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidRequest("Unknown stylist.")
		}
		return nil, domain.ErrStoreUnavailable(err)
	}
	if !stylist.Active {
		return nil, domain.ErrInvalidRequest("This stylist is not taking bookings.")
	}

	services, err := uc.resolveServices(ctx, in.ServiceIDs)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Atomic insert-if-absent on (stylist, date_time)
	// --------------------------------------------------
	b := &models.Booking{
		UserID:          in.UserID,
		StylistID:       stylist.ID,
		ServiceIDs:      datatypes.NewJSONSlice(append([]uint(nil), in.ServiceIDs...)),
		LocationType:    string(location),
		Address:         in.Address,
		DateTime:        at,
		Status:          string(domain.InitialStatus()),
		DurationMinutes: domain.TotalDuration(services),
		Notes:           in.Notes,
	}

	if err := uc.repo.InsertBooking(ctx, b); err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			uc.audit.Dispatch(audit.Event{
				UserID:   &in.UserID,
				Action:   "booking_conflict",
				Entity:   "booking",
				Metadata: map[string]any{"stylist_id": stylist.ID, "date_time": at},
			})
			return nil, domain.ErrSlotAlreadyBooked()
		}
		if errors.Is(err, domain.ErrUnknownOwner) {
			return nil, domain.ErrInvalidRequest("Your account no longer exists, sign in again.")
		}
		return nil, domain.ErrStoreUnavailable(err)
	}

	// --------------------------------------------------
	// 5. Audit + notifications (best effort)
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	uc.notifyCreated(ctx, b, stylist, services)

	return b, nil
}

// resolveServices keeps the caller's order and rejects unknown or inactive ids.
func (uc *CreateBooking) resolveServices(ctx context.Context, ids []uint) ([]models.Service, error) {
	found, err := uc.repo.ListServicesByIDs(ctx, ids)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}

	byID := make(map[uint]models.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok || !s.Active {
			return nil, domain.ErrInvalidRequest(fmt.Sprintf("Unknown service %d.", id))
		}
		out = append(out, s)
	}
	return out, nil
}

func (uc *CreateBooking) notifyCreated(
	ctx context.Context,
	b *models.Booking,
	stylist *models.Stylist,
	services []models.Service,
) {
	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Name)
	}

	when := b.DateTime.In(uc.loc).Format("2006-01-02 15:04")
	data := map[string]any{
		"booking_id":    b.ID,
		"stylist_id":    stylist.ID,
		"stylist_name":  stylist.Name,
		"services":      names,
		"location_type": b.LocationType,
		"date_time":     when,
	}

	msgs := []notify.Message{{
		Audience: notify.AudienceUser,
		UserID:   b.UserID,
		Event:    "booking_created",
		Subject:  "Your booking request was received",
		Body:     fmt.Sprintf("Your appointment with %s on %s is pending confirmation.", stylist.Name, when),
		Data:     data,
	}}

	if stylist.UserID != nil {
		msgs = append(msgs, notify.Message{
			Audience: notify.AudienceStylist,
			UserID:   *stylist.UserID,
			Event:    "booking_created",
			Subject:  "New booking request",
			Body:     fmt.Sprintf("You have a new booking request on %s.", when),
			Data:     data,
		})
	}

	admins, err := uc.repo.ListAdminIDs(ctx)
	if err != nil {
		uc.log.Warn("could not resolve admins for booking notification", zap.Uint("booking_id", b.ID), zap.Error(err))
	}
	for _, id := range admins {
		msgs = append(msgs, notify.Message{
			Audience: notify.AudienceAdmin,
			UserID:   id,
			Event:    "booking_created",
			Subject:  "New booking",
			Body:     fmt.Sprintf("%s was booked for %s.", stylist.Name, when),
			Data:     data,
		})
	}

	for _, msg := range msgs {
		if err := uc.notifier.Notify(msg); err != nil {
			uc.log.Warn("booking notification dropped",
				zap.Uint("booking_id", b.ID),
				zap.String("audience", string(msg.Audience)),
				zap.Error(err),
			)
		}
	}
}
