// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"time"

	"hotel-management/middleware"
	"hotel-management/models"
	"hotel-management/services"
	"hotel-management/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type createBookingPayload struct {
	HotelID  uint   `json:"hotel_id" binding:"required"`
	CheckIn  string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" binding:"required,datetime=2006-01-02"`
}

type redatePayload struct {
	CheckIn  string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" binding:"required,datetime=2006-01-02"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
	Now        func() time.Time
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc, Now: time.Now}
}

func (ctrl *BookingController) today() time.Time {
	return models.Day(ctrl.Now().UTC())
}

func (ctrl *BookingController) respond(c *gin.Context, status int, b *models.Booking, err error) {
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, status, toBookingResponse(b, ctrl.today()))
}

// parseStay parses the two dates. Binding has already checked their format.
func parseStay(checkIn, checkOut string) (time.Time, time.Time) {
	in, _ := models.ParseDay(checkIn)
	out, _ := models.ParseDay(checkOut)
	return in, out
}

// GetBookings handles GET /api/bookings.
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	bookings, err := ctrl.BookingSvc.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	today := ctrl.today()
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i], today))
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// CreateBooking handles POST /api/bookings.
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	in, out := parseStay(payload.CheckIn, payload.CheckOut)
	b, err := ctrl.BookingSvc.Create(c.Request.Context(), middleware.CurrentUser(c), services.BookingInput{
		HotelID:  payload.HotelID,
		CheckIn:  in,
		CheckOut: out,
	})
	ctrl.respond(c, http.StatusCreated, b, err)
}

// GetBookingDetails handles GET /api/bookings/:id.
func (ctrl *BookingController) GetBookingDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := ctrl.BookingSvc.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	ctrl.respond(c, http.StatusOK, b, err)
}

// UpdateDates handles PATCH /api/bookings/:id.
func (ctrl *BookingController) UpdateDates(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload redatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	in, out := parseStay(payload.CheckIn, payload.CheckOut)
	b, err := ctrl.BookingSvc.UpdateDates(c.Request.Context(), middleware.CurrentUser(c), id, in, out)
	ctrl.respond(c, http.StatusOK, b, err)
}

// ConfirmBooking handles POST /api/bookings/:id/confirm.
func (ctrl *BookingController) ConfirmBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := ctrl.BookingSvc.Confirm(c.Request.Context(), middleware.CurrentUser(c), id)
	ctrl.respond(c, http.StatusOK, b, err)
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := ctrl.BookingSvc.Cancel(c.Request.Context(), middleware.CurrentUser(c), id)
	ctrl.respond(c, http.StatusOK, b, err)
}

// FreezePrice handles POST /api/bookings/:id/freeze-price.
func (ctrl *BookingController) FreezePrice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := ctrl.BookingSvc.FreezePrice(c.Request.Context(), middleware.CurrentUser(c), id)
	ctrl.respond(c, http.StatusOK, b, err)
}
