package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/notify"
)

// Actor is the authenticated caller of a status change.
type Actor struct {
	UserID uint
	Role   models.Role
}

// transition is one edge of the booking state machine.
type transition struct {
	action  string
	apply   func(*models.Booking, time.Time) error
	allowed func(Actor, *models.Booking, *models.Stylist) bool
	subject string
	body    string
}

func isBookedStylist(a Actor, s *models.Stylist) bool {
	return s != nil && s.UserID != nil && *s.UserID == a.UserID
}

var (
	confirmTransition = transition{
		action: "booking_confirmed",
		apply:  domain.Confirm,
		allowed: func(a Actor, _ *models.Booking, s *models.Stylist) bool {
			return a.Role == models.RoleAdmin || isBookedStylist(a, s)
		},
		subject: "Your booking is confirmed",
		body:    "Your appointment on %s is confirmed.",
	}

	cancelTransition = transition{
		action: "booking_cancelled",
		apply:  domain.Cancel,
		allowed: func(a Actor, b *models.Booking, s *models.Stylist) bool {
			return a.Role == models.RoleAdmin || b.UserID == a.UserID || isBookedStylist(a, s)
		},
		subject: "Your booking was cancelled",
		body:    "Your appointment on %s was cancelled.",
	}
)

type ChangeBookingStatus struct {
	repo     domain.Repository
	loc      *time.Location
	notifier notify.Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger
	now      func() time.Time
}

func NewChangeBookingStatus(
	repo domain.Repository,
	loc *time.Location,
	notifier notify.Notifier,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *ChangeBookingStatus {
	return &ChangeBookingStatus{
		repo:     repo,
		loc:      loc,
		notifier: notifier,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

func (uc *ChangeBookingStatus) Confirm(ctx context.Context, actor Actor, bookingID uint) (*models.Booking, error) {
	return uc.execute(ctx, actor, bookingID, confirmTransition)
}

func (uc *ChangeBookingStatus) Cancel(ctx context.Context, actor Actor, bookingID uint) (*models.Booking, error) {
	return uc.execute(ctx, actor, bookingID, cancelTransition)
}

func (uc *ChangeBookingStatus) execute(
	ctx context.Context,
	actor Actor,
	bookingID uint,
	tr transition,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBookingNotFound()
		}
		return nil, domain.ErrStoreUnavailable(err)
	}

	stylist, err := uc.repo.GetStylist(ctx, b.StylistID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrStoreUnavailable(err)
	}

	if !tr.allowed(actor, b, stylist) {
		return nil, domain.ErrForbidden()
	}

	from := domain.Status(b.Status)
	if err := tr.apply(b, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBookingStatus(ctx, b, from); err != nil {
		if errors.Is(err, domain.ErrStaleStatus) {
			return nil, domain.ErrInvalidRequest("The booking was changed by someone else, reload and try again.")
		}
		if errors.Is(err, domain.ErrSlotConflict) {
			return nil, domain.ErrSlotAlreadyBooked()
		}
		return nil, domain.ErrStoreUnavailable(err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   tr.action,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"from": from, "to": b.Status},
	})

	when := b.DateTime.In(uc.loc).Format("2006-01-02 15:04")
	if err := uc.notifier.Notify(notify.Message{
		Audience: notify.AudienceUser,
		UserID:   b.UserID,
		Event:    tr.action,
		Subject:  tr.subject,
		Body:     fmt.Sprintf(tr.body, when),
		Data:     map[string]any{"booking_id": b.ID, "status": b.Status},
	}); err != nil {
		uc.log.Warn("status notification dropped", zap.Uint("booking_id", b.ID), zap.Error(err))
	}

	return b, nil
}
