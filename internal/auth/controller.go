package auth

import (
	"errors"
	"net/http"
	"strings"

	"classbook/internal/shared/middleware"
	"classbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
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

// bindCredentials reports false after writing a 400
func (c *Controller) bindCredentials(ctx *gin.Context) (*CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		response.Error(ctx, http.StatusBadRequest, ErrMissingCredentials.Error())
		return nil, false
	}
	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, response.ValidationMessage(err))
		return nil, false
	}
	return &req, true
}

// SignUp godoc
// @Summary Create an account
// @Tags users
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "credentials"
// @Success 201 {object} SignUpResponse
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /users/signup [post]
func (c *Controller) SignUp(ctx *gin.Context) {
	req, ok := c.bindCredentials(ctx)
	if !ok {
		return
	}

	result, err := c.service.SignUp(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredentials), errors.Is(err, ErrUserAlreadyExists):
			response.Error(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrConfirmationDelivery):
			response.Error(ctx, http.StatusBadGateway, ErrConfirmationDelivery.Error())
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to sign up")
		}
		return
	}

	if result.Pending || result.User == nil {
		response.Message(ctx, http.StatusOK, PendingSignupMessage)
		return
	}
	response.JSON(ctx, http.StatusCreated, SignUpResponse{User: *result.User})
}

// SignIn godoc
// @Summary Exchange credentials for an access token
// @Tags users
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "credentials"
// @Success 200 {object} SignInResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /users/signin [post]
func (c *Controller) SignIn(ctx *gin.Context) {
	req, ok := c.bindCredentials(ctx)
	if !ok {
		return
	}

	resp, err := c.service.SignIn(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrEmailNotConfirmed):
			response.Error(ctx, http.StatusUnauthorized, err.Error())
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to sign in")
		}
		return
	}

	response.JSON(ctx, http.StatusOK, resp)
}

// Confirm activates an account from the emailed link
func (c *Controller) Confirm(ctx *gin.Context) {
	err := c.service.Confirm(ctx.Request.Context(), ctx.Query("token"))
	if err != nil {
		if errors.Is(err, ErrInvalidConfirmation) {
			response.Error(ctx, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to confirm account")
		return
	}
	response.Message(ctx, http.StatusOK, "Email confirmed. You can now sign in.")
}

func (c *Controller) Me(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	me, err := c.service.Me(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(ctx, http.StatusNotFound, err.Error())
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to load user")
		return
	}
	response.JSON(ctx, http.StatusOK, me)
}
