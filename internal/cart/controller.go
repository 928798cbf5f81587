package cart

import (
	"errors"
	"net/http"

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

// ListItems godoc
// @Summary The signed-in user's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ItemResponse
// @Router /cart [get]
func (c *Controller) ListItems(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	items, err := c.service.ListItems(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	response.JSON(ctx, http.StatusOK, items)
}

// AddItem godoc
// @Summary Add a class occurrence to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddItemRequest true "slot and date"
// @Success 201 {object} ItemResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /cart [post]
func (c *Controller) AddItem(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, response.ValidationMessage(err))
		return
	}

	item, err := c.service.AddItem(ctx.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateItem):
			response.Error(ctx, http.StatusConflict, err.Error())
		case errors.Is(err, slots.ErrSlotNotFound):
			response.Error(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, slots.ErrInvalidDate), errors.Is(err, slots.ErrWrongWeekday), errors.Is(err, ErrPastDate):
			response.Error(ctx, http.StatusBadRequest, err.Error())
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to add to cart")
		}
		return
	}
	response.JSON(ctx, http.StatusCreated, item)
}

// RemoveItem godoc
// @Summary Remove a cart item
// @Tags cart
// @Security BearerAuth
// @Param id path string true "cart item id"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /cart/{id} [delete]
func (c *Controller) RemoveItem(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	if err := c.service.RemoveItem(ctx.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			response.Error(ctx, http.StatusNotFound, err.Error())
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to remove cart item")
		return
	}
	ctx.Status(http.StatusNoContent)
}

func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserUUID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated")
	}
	return id, ok
}
