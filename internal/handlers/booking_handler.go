package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
	"github.com/BruksfildServices01/salon-booking/internal/httperr"
	"github.com/BruksfildServices01/salon-booking/internal/httpresp"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/salon-booking/internal/usecase/booking"
)

type BookingHandler struct {
	db  *gorm.DB
	loc *time.Location

	availability *ucBooking.GetAvailability
	create       *ucBooking.CreateBooking
	changeStatus *ucBooking.ChangeBookingStatus
	list         *ucBooking.ListBookings
	audit        *audit.Dispatcher
}

func NewBookingHandler(
	db *gorm.DB,
	loc *time.Location,
	availability *ucBooking.GetAvailability,
	create *ucBooking.CreateBooking,
	changeStatus *ucBooking.ChangeBookingStatus,
	list *ucBooking.ListBookings,
	audit *audit.Dispatcher,
) *BookingHandler {
	return &BookingHandler{
		db:           db,
		loc:          loc,
		availability: availability,
		create:       create,
		changeStatus: changeStatus,
		list:         list,
		audit:        audit,
	}
}

// --------- Requests ---------

// CreateBookingRequest accepts either date_time (RFC3339) or date + time
// in the salon's time zone.
type CreateBookingRequest struct {
	StylistID    uint   `json:"stylist_id"`
	ServiceIDs   []uint `json:"service_ids"`
	LocationType string `json:"location_type"`

	DateTime string `json:"date_time"`
	Date     string `json:"date"`
	Time     string `json:"time"`

	Address string `json:"address"`
	Notes   string `json:"notes" binding:"max=255"`
}

// --------- Public ---------

func (h *BookingHandler) Availability(c *gin.Context) {
	stylistID, ok := uintQuery(c, "stylist_id")
	if !ok {
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		Date:      c.Query("date"),
		StylistID: stylistID,
	})
	if err != nil {
		httperr.FromError(c, err, "availability_failed", "Could not load availability.")
		return
	}
	httpresp.OK(c, out)
}

// --------- Customer ---------

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, domain.CodeInvalidRequest, err.Error())
		return
	}

	when, err := h.parseWhen(req)
	if err != nil {
		httperr.FromError(c, err, domain.CodeInvalidRequest, "Invalid date or time.")
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		UserID:       middleware.UserID(c),
		StylistID:    req.StylistID,
		ServiceIDs:   req.ServiceIDs,
		LocationType: req.LocationType,
		DateTime:     when,
		Address:      strings.TrimSpace(req.Address),
		Notes:        strings.TrimSpace(req.Notes),
	})
	if err != nil {
		httperr.FromError(c, err, "booking_failed", "Could not create the booking.")
		return
	}

	httpresp.Created(c, b)
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	out, err := h.list.ForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err, "booking_list_failed", "Could not list bookings.")
		return
	}
	httpresp.List(c, out)
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.changeStatus.Confirm)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.changeStatus.Cancel)
}

// --------- Stylist ---------

func (h *BookingHandler) ListForStylist(c *gin.Context) {
	var stylist models.Stylist
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", middleware.UserID(c)).
		First(&stylist).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "stylist_not_found", "Your account is not linked to a stylist.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not load the stylist.")
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().In(h.loc).Format("2006-01-02")
	}

	out, err := h.list.ForStylistDay(c.Request.Context(), stylist.ID, date)
	if err != nil {
		httperr.FromError(c, err, "booking_list_failed", "Could not list bookings.")
		return
	}
	httpresp.List(c, out)
}

// --------- Admin ---------

func (h *BookingHandler) ListForPeriod(c *gin.Context) {
	today := time.Now().In(h.loc).Format("2006-01-02")
	from := c.DefaultQuery("from", today)
	to := c.DefaultQuery("to", from)

	out, err := h.list.ForPeriod(c.Request.Context(), from, to, c.Query("status"))
	if err != nil {
		httperr.FromError(c, err, "booking_list_failed", "Could not list bookings.")
		return
	}
	httpresp.List(c, out)
}

// Delete removes the row outright. Regular flows cancel instead.
func (h *BookingHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Booking{}, id)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_booking", "Could not delete the booking.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, domain.CodeBookingNotFound, "Booking not found.")
		return
	}

	actor := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{UserID: &actor, Action: "booking_deleted", Entity: "booking", EntityID: &id})

	c.Status(http.StatusNoContent)
}

// --------- helpers ---------

func (h *BookingHandler) transition(
	c *gin.Context,
	fn func(context.Context, ucBooking.Actor, uint) (*models.Booking, error),
) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	actor := ucBooking.Actor{UserID: middleware.UserID(c), Role: middleware.UserRole(c)}

	b, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		httperr.FromError(c, err, "booking_update_failed", "Could not update the booking.")
		return
	}
	httpresp.OK(c, b)
}

// parseWhen returns the zero time when nothing was sent so the use case can
// report the missing field.
func (h *BookingHandler) parseWhen(req CreateBookingRequest) (time.Time, error) {
	if req.DateTime != "" {
		t, err := time.Parse(time.RFC3339, req.DateTime)
		if err != nil {
			return time.Time{}, domain.ErrInvalidRequest("date_time must be RFC3339, e.g. 2025-01-06T14:00:00-03:00.")
		}
		return t, nil
	}

	if req.Date == "" && req.Time == "" {
		return time.Time{}, nil
	}

	t, err := timezone.ParseDateTime(req.Date, req.Time, h.loc)
	if err != nil {
		return time.Time{}, domain.ErrInvalidRequest("date must be YYYY-MM-DD and time HH:MM.")
	}
	return t, nil
}
