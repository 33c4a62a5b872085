package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/notify"
)

// memRepo enforces the (stylist, date_time) exclusivity under its mutex the
// same way the database index does.
type memRepo struct {
	mu       sync.Mutex
	nextID   uint
	bookings map[uint]*models.Booking
	stylists map[uint]*models.Stylist
	services map[uint]models.Service
	admins   []uint

	failReads bool
	insertErr error
	updateErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		bookings: map[uint]*models.Booking{},
		stylists: map[uint]*models.Stylist{},
		services: map[uint]models.Service{},
	}
}

var errDown = errors.New("connection refused")

func (r *memRepo) GetStylist(_ context.Context, id uint) (*models.Stylist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReads {
		return nil, errDown
	}
	s, ok := r.stylists[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) ListServicesByIDs(_ context.Context, ids []uint) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memRepo) ListAdminIDs(context.Context) ([]uint, error) {
	return r.admins, nil
}

func (r *memRepo) InsertBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, existing := range r.bookings {
		if existing.StylistID == b.StylistID &&
			existing.DateTime.Equal(b.DateTime) &&
			domain.Status(existing.Status).Active() {
			return domain.ErrSlotConflict
		}
	}
	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = time.Now()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) FindActiveBooking(_ context.Context, stylistID uint, at time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.StylistID == stylistID && b.DateTime.Equal(at) && domain.Status(b.Status).Active() {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) UpdateBookingStatus(_ context.Context, b *models.Booking, from domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.bookings[b.ID]
	if !ok || stored.Status != string(from) {
		return domain.ErrStaleStatus
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) ListBookingsForDay(_ context.Context, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReads {
		return nil, errDown
	}
	var out []models.Booking
	for _, b := range r.bookings {
		if domain.Status(b.Status).Active() && !b.DateTime.Before(start) && !b.DateTime.After(end) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) ListBookingsForStylist(_ context.Context, stylistID uint, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.StylistID == stylistID && !b.DateTime.Before(start) && !b.DateTime.After(end) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) ListBookingsForUser(_ context.Context, userID uint) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) ListBookingsForPeriod(_ context.Context, start, end time.Time, status string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if (status == "" || b.Status == status) && !b.DateTime.Before(start) && !b.DateTime.After(end) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type memNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (n *memNotifier) Notify(msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return n.err
}

var _ domain.Repository = (*memRepo)(nil)
