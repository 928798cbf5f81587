package slots

import (
	"errors"
	"net/http"

	"classbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: response.NewValidator(),
	}
}

// ListSlots godoc
// @Summary List all class slots
// @Tags slots
// @Produce json
// @Success 200 {array} Slot
// @Router /slots [get]
func (c *Controller) ListSlots(ctx *gin.Context) {
	slots, err := c.service.ListSlots(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to fetch slots")
		return
	}
	response.JSON(ctx, http.StatusOK, slots)
}

// SearchSlots godoc
// @Summary Filter slots by weekday and group type
// @Tags slots
// @Produce json
// @Param day query string false "weekday"
// @Param group query string false "group type"
// @Success 200 {array} Slot
// @Router /slots/search [get]
func (c *Controller) SearchSlots(ctx *gin.Context) {
	var query SearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	slots, err := c.service.SearchSlots(ctx.Request.Context(), query)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to search slots")
		return
	}
	response.JSON(ctx, http.StatusOK, slots)
}

// GetOccurrences godoc
// @Summary Dated occurrences of a weekly slot
// @Tags slots
// @Produce json
// @Param id path string true "slot id"
// @Param from query string false "first date, YYYY-MM-DD"
// @Param count query int false "number of occurrences"
// @Success 200 {object} OccurrencesResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /slots/{id}/occurrences [get]
func (c *Controller) GetOccurrences(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var query OccurrencesQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := c.service.GetOccurrences(ctx.Request.Context(), id, query)
	if err != nil {
		c.handleError(ctx, err, "Failed to expand slot")
		return
	}
	response.JSON(ctx, http.StatusOK, resp)
}

// CreateSlot godoc
// @Summary Create a slot
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSlotRequest true "slot"
// @Success 201 {object} Slot
// @Failure 400 {object} response.ErrorResponse
// @Router /slots [post]
func (c *Controller) CreateSlot(ctx *gin.Context) {
	var req CreateSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, response.ValidationMessage(err))
		return
	}

	slot, err := c.service.CreateSlot(ctx.Request.Context(), &req)
	if err != nil {
		c.handleError(ctx, err, "Failed to create slot")
		return
	}
	response.JSON(ctx, http.StatusCreated, slot)
}

// DeleteSlot godoc
// @Summary Delete a slot
// @Tags slots
// @Security BearerAuth
// @Param id path string true "slot id"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /slots/{id} [delete]
func (c *Controller) DeleteSlot(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.service.DeleteSlot(ctx.Request.Context(), id); err != nil {
		c.handleError(ctx, err, "Failed to delete slot")
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) handleError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSlotNotFound):
		response.Error(ctx, http.StatusNotFound, ErrSlotNotFound.Error())
	case errors.Is(err, ErrInvalidWeekday), errors.Is(err, ErrInvalidTime),
		errors.Is(err, ErrInvalidRange), errors.Is(err, ErrInvalidDate):
		response.Error(ctx, http.StatusBadRequest, err.Error())
	default:
		response.Error(ctx, http.StatusInternalServerError, fallback)
	}
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid slot ID")
		return uuid.Nil, false
	}
	return id, true
}
