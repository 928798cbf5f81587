package bookings

import (
	"errors"
	"net/http"
	"strings"

	"classbook/internal/shared/middleware"
	"classbook/internal/shared/utils/response"
	"classbook/internal/slots"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: response.NewValidator()}
}

// ListBookings godoc
// @Summary The signed-in user's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "CONFIRMED or CANCELLED"
// @Success 200 {array} BookingResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /bookings [get]
func (c *Controller) ListBookings(ctx *gin.Context) {
	who, ok := identity(ctx)
	if !ok {
		return
	}

	status := Status(strings.ToUpper(strings.TrimSpace(ctx.Query("status"))))
	bookings, err := c.service.ListBookings(ctx.Request.Context(), who.UserID, status)
	if err != nil {
		c.handleError(ctx, err, "Failed to fetch bookings")
		return
	}
	response.JSON(ctx, http.StatusOK, bookings)
}

// CreateBooking godoc
// @Summary Book a class occurrence
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateBookingRequest true "slot and date"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /bookings [post]
func (c *Controller) CreateBooking(ctx *gin.Context) {
	who, ok := identity(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, response.ValidationMessage(err))
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), who, &req)
	if err != nil {
		c.handleError(ctx, err, "Failed to create booking")
		return
	}
	response.JSON(ctx, http.StatusCreated, booking)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "booking id"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /bookings/{id} [delete]
func (c *Controller) CancelBooking(ctx *gin.Context) {
	who, ok := identity(ctx)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	if err := c.service.CancelBooking(ctx.Request.Context(), who, bookingID); err != nil {
		c.handleError(ctx, err, "Failed to cancel booking")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Availability godoc
// @Summary Remaining places for one class occurrence
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param slot_id query string true "slot id"
// @Param class_date query string true "YYYY-MM-DD"
// @Success 200 {object} AvailabilityResponse
// @Router /bookings/availability [get]
func (c *Controller) Availability(ctx *gin.Context) {
	var query AvailabilityQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if err := c.validator.Struct(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, response.ValidationMessage(err))
		return
	}

	availability, err := c.service.Availability(ctx.Request.Context(), &query)
	if err != nil {
		c.handleError(ctx, err, "Failed to fetch availability")
		return
	}
	response.JSON(ctx, http.StatusOK, availability)
}

// Calendar godoc
// @Summary Confirmed bookings as an iCalendar feed
// @Tags bookings
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {string} string
// @Router /bookings/calendar.ics [get]
func (c *Controller) Calendar(ctx *gin.Context) {
	who, ok := identity(ctx)
	if !ok {
		return
	}

	body, err := c.service.Calendar(ctx.Request.Context(), who.UserID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to build calendar")
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="bookings.ics"`)
	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (c *Controller) handleError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, slots.ErrSlotNotFound):
		response.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSlotFull), errors.Is(err, ErrAlreadyBooked), errors.Is(err, ErrAlreadyCancelled):
		response.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, slots.ErrInvalidDate), errors.Is(err, slots.ErrWrongWeekday), errors.Is(err, ErrPastDate),
		errors.Is(err, ErrInvalidStatus):
		response.Error(ctx, http.StatusBadRequest, err.Error())
	default:
		response.Error(ctx, http.StatusInternalServerError, fallback)
	}
}

func identity(ctx *gin.Context) (Identity, bool) {
	id, ok := middleware.CurrentUserUUID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated")
		return Identity{}, false
	}
	return Identity{UserID: id, Email: middleware.CurrentUserEmail(ctx)}, true
}
