package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/models"
)

// BookingGormRepository stores timestamps in UTC so range and equality
// predicates behave the same on every dialect.
type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *BookingGormRepository) GetStylist(
	ctx context.Context,
	id uint,
) (*models.Stylist, error) {

	var stylist models.Stylist
	if err := r.db.WithContext(ctx).First(&stylist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stylist %d: %w", id, err)
	}
	return &stylist, nil
}

func (r *BookingGormRepository) ListServicesByIDs(
	ctx context.Context,
	ids []uint,
) ([]models.Service, error) {

	if len(ids) == 0 {
		return []models.Service{}, nil
	}

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (r *BookingGormRepository) ListAdminIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", string(models.RoleAdmin)).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return ids, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

func (r *BookingGormRepository) InsertBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	b.DateTime = b.DateTime.UTC()

	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlotConflict
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUnknownOwner
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingGormRepository) FindActiveBooking(
	ctx context.Context,
	stylistID uint,
	at time.Time,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"stylist_id = ? AND date_time = ? AND status <> ?",
			stylistID, at.UTC(), string(domain.StatusCancelled),
		).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &b, nil
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBookingStatus(
	ctx context.Context,
	b *models.Booking,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", b.ID, string(from)).
		Updates(map[string]any{
			"status":       b.Status,
			"confirmed_at": b.ConfirmedAt,
			"cancelled_at": b.CancelledAt,
		})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domain.ErrSlotConflict
		}
		return fmt.Errorf("update booking %d: %w", b.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleStatus
	}
	return nil
}

// --------------------------------------------------
// Availability / listings
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForDay(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Select("id", "stylist_id", "date_time", "status").
		Where(
			"status <> ? AND date_time >= ? AND date_time <= ?",
			string(domain.StatusCancelled), start.UTC(), end.UTC(),
		).
		Order("date_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings for day: %w", err)
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForStylist(
	ctx context.Context,
	stylistID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Stylist").
		Where(
			"stylist_id = ? AND date_time >= ? AND date_time <= ?",
			stylistID, start.UTC(), end.UTC(),
		).
		Order("date_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings for stylist: %w", err)
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForUser(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Stylist").
		Where("user_id = ?", userID).
		Order("date_time DESC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings for user: %w", err)
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	start time.Time,
	end time.Time,
	status string,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Stylist").
		Where("date_time >= ? AND date_time <= ?", start.UTC(), end.UTC())

	if status != "" {
		q = q.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := q.Order("date_time ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings for period: %w", err)
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
