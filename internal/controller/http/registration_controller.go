package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/service"
	"github.com/jrjohn/arcana-onboarding-go/internal/dto/request"
	"github.com/jrjohn/arcana-onboarding-go/internal/dto/response"
	"github.com/jrjohn/arcana-onboarding-go/internal/middleware"
	"github.com/jrjohn/arcana-onboarding-go/internal/notification"
	apperrors "github.com/jrjohn/arcana-onboarding-go/pkg/errors"
)

const (
	msgFormNotFound       = "registration form not found"
	msgUnknownField       = "unknown form field"
	msgSubmitInProgress   = "a submission is already in progress"
	msgValidationFailed   = "validation failed"
	msgFailedProcessForm  = "failed to process registration form"
	msgRegistrationFailed = "registration failed"
)

var errInvalidBody = apperrors.ErrBadRequest.WithMessage("invalid request body")

// RegistrationController handles the registration form JSON API
type RegistrationController struct {
	registrationService service.RegistrationService
	events              *notification.Handler
	rateLimiter         *middleware.RateLimiter
	logger              *zap.Logger
}

// NewRegistrationController creates a new RegistrationController instance
func NewRegistrationController(
	registrationService service.RegistrationService,
	events *notification.Handler,
	rateLimiter *middleware.RateLimiter,
	logger *zap.Logger,
) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		events:              events,
		rateLimiter:         rateLimiter,
		logger:              logger,
	}
}

// RegisterRoutes registers the registration routes
func (c *RegistrationController) RegisterRoutes(router *gin.RouterGroup) {
	registration := router.Group("/registration")
	{
		registration.POST("/forms", c.OpenForm)
		registration.GET("/forms/:id", c.GetForm)
		registration.PATCH("/forms/:id", c.UpdateFields)
		registration.POST("/forms/:id/validate", c.Validate)
		registration.POST("/forms/:id/visibility/:field", c.ToggleVisibility)
		registration.POST("/forms/:id/submit", c.rateLimiter.Handler(), c.Submit)
		registration.DELETE("/forms/:id", c.Discard)
		registration.GET("/forms/:id/events", c.Events)
		registration.POST("/register", c.rateLimiter.Handler(), c.Register)
	}
}

// OpenForm opens a new registration form
// @Summary Open a registration form
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body request.OpenFormRequest false "Open request"
// @Success 201 {object} response.ApiResponse[response.FormResponse]
// @Router /api/v1/registration/forms [post]
func (c *RegistrationController) OpenForm(ctx *gin.Context) {
	var req request.OpenFormRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			c.respond(ctx, errInvalidBody, err.Error())
			return
		}
	}

	locale := req.Locale
	if locale == "" {
		locale = middleware.GetLocale(ctx)
	}

	form, err := c.registrationService.OpenForm(ctx.Request.Context(), locale)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, response.NewSuccess(response.NewFormResponse(form), "registration form opened"))
}

// GetForm returns the current state of a form
// @Summary Get a registration form
// @Tags Registration
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.ApiResponse[response.FormResponse]
// @Router /api/v1/registration/forms/{id} [get]
func (c *RegistrationController) GetForm(ctx *gin.Context) {
	form, err := c.registrationService.GetForm(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewFormResponse(form)))
}

// UpdateFields applies field edits
// @Summary Update registration form fields
// @Tags Registration
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Param request body request.UpdateFieldsRequest true "Field edits"
// @Success 200 {object} response.ApiResponse[response.FormResponse]
// @Router /api/v1/registration/forms/{id} [patch]
func (c *RegistrationController) UpdateFields(ctx *gin.Context) {
	var req request.UpdateFieldsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.respond(ctx, errInvalidBody, err.Error())
		return
	}

	form, err := c.registrationService.UpdateFields(ctx.Request.Context(), ctx.Param("id"), req.Fields)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewFormResponse(form)))
}

// Validate re-runs validation
// @Summary Validate a registration form
// @Tags Registration
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.ApiResponse[response.FormResponse]
// @Router /api/v1/registration/forms/{id}/validate [post]
func (c *RegistrationController) Validate(ctx *gin.Context) {
	form, err := c.registrationService.Validate(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewFormResponse(form)))
}

// ToggleVisibility flips clear-text display of a password field
// @Summary Toggle password visibility
// @Tags Registration
// @Produce json
// @Param id path string true "Form ID"
// @Param field path string true "password or confirmPassword"
// @Success 200 {object} response.ApiResponse[response.FormResponse]
// @Router /api/v1/registration/forms/{id}/visibility/{field} [post]
func (c *RegistrationController) ToggleVisibility(ctx *gin.Context) {
	form, err := c.registrationService.ToggleVisibility(ctx.Request.Context(), ctx.Param("id"), ctx.Param("field"))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewFormResponse(form)))
}

// Submit submits a registration form
// @Summary Submit a registration form
// @Tags Registration
// @Produce json
// @Param id path string true "Form ID"
// @Success 201 {object} response.ApiResponse[response.SubmitResponse]
// @Failure 400 {object} response.ApiResponse[any]
// @Failure 409 {object} response.ApiResponse[any]
// @Failure 502 {object} response.ApiResponse[response.SubmitResponse]
// @Router /api/v1/registration/forms/{id}/submit [post]
func (c *RegistrationController) Submit(ctx *gin.Context) {
	result, err := c.registrationService.Submit(ctx.Request.Context(), ctx.Param("id"))
	c.writeSubmitResult(ctx, result, err)
}

// Discard drops a form
// @Summary Discard a registration form
// @Tags Registration
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} response.ApiResponse[any]
// @Router /api/v1/registration/forms/{id} [delete]
func (c *RegistrationController) Discard(ctx *gin.Context) {
	if err := c.registrationService.DiscardForm(ctx.Request.Context(), ctx.Param("id")); err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewSuccess[any](nil, "registration form discarded"))
}

// Events streams notification and navigation events of a form over WebSocket
// @Summary Form event stream
// @Tags Registration
// @Param id path string true "Form ID"
// @Router /api/v1/registration/forms/{id}/events [get]
func (c *RegistrationController) Events(ctx *gin.Context) {
	formID := ctx.Param("id")
	if _, err := c.registrationService.GetForm(ctx.Request.Context(), formID); err != nil {
		c.writeError(ctx, err)
		return
	}

	c.events.Serve(ctx, formID)
}

// Register validates and submits a complete form in one request
// @Summary One-shot registration
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body request.RegisterRequest true "Field values keyed by field name"
// @Success 201 {object} response.ApiResponse[response.SubmitResponse]
// @Router /api/v1/registration/register [post]
func (c *RegistrationController) Register(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.respond(ctx, errInvalidBody, err.Error())
		return
	}

	input, err := req.ToInput()
	if err != nil {
		c.respond(ctx, apperrors.ErrUnprocessable.WithMessage(msgUnknownField), err.Error())
		return
	}

	result, err := c.registrationService.Register(ctx.Request.Context(), middleware.GetLocale(ctx), input)
	c.writeSubmitResult(ctx, result, err)
}

func (c *RegistrationController) writeSubmitResult(ctx *gin.Context, result *service.SubmitResult, err error) {
	switch {
	case err == nil:
		ctx.JSON(http.StatusCreated, response.NewSuccess(response.NewSubmitResponse(result), result.Notification.Message))

	case errors.Is(err, service.ErrValidationFailed) && result != nil:
		appErr := toAppError(err)
		ctx.JSON(appErr.Status, response.NewErrorWithDetails[*response.FormResponse](appErr, result.Form.Errors).
			WithData(response.NewFormResponse(result.Form)).
			WithRequestID(middleware.GetRequestID(ctx)))

	case errors.Is(err, service.ErrRegistrationFailed) && result != nil:
		// the localized notification is the only failure detail a client sees
		appErr := apperrors.ErrBadGateway.WithMessage(result.Notification.Message)
		ctx.JSON(appErr.Status, response.NewError[*response.SubmitResponse](appErr).
			WithData(response.NewSubmitResponse(result)).
			WithRequestID(middleware.GetRequestID(ctx)))

	default:
		c.writeError(ctx, err)
	}
}

func (c *RegistrationController) writeError(ctx *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		c.logger.Error("Registration request failed",
			zap.String("path", ctx.FullPath()),
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Error(err),
		)
	}
	c.respond(ctx, appErr, nil)
}

func (c *RegistrationController) respond(ctx *gin.Context, appErr *apperrors.AppError, details any) {
	ctx.JSON(appErr.Status, response.NewErrorWithDetails[any](appErr, details).WithRequestID(middleware.GetRequestID(ctx)))
}

// toAppError maps service errors onto HTTP-aware application errors
func toAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		return apperrors.Wrap(err, apperrors.ErrNotFound.WithMessage(msgFormNotFound))
	case errors.Is(err, service.ErrUnknownField):
		return apperrors.Wrap(err, apperrors.ErrUnprocessable.WithMessage(msgUnknownField))
	case errors.Is(err, service.ErrSubmissionInProgress):
		return apperrors.Wrap(err, apperrors.ErrConflict.WithMessage(msgSubmitInProgress))
	case errors.Is(err, service.ErrValidationFailed):
		return apperrors.Wrap(err, apperrors.ErrValidation.WithMessage(msgValidationFailed))
	case errors.Is(err, service.ErrRegistrationFailed):
		return apperrors.Wrap(err, apperrors.ErrBadGateway.WithMessage(msgRegistrationFailed))
	default:
		if appErr := apperrors.From(err); appErr.Code != apperrors.CodeInternalError {
			return appErr
		}
		return apperrors.Wrap(err, apperrors.ErrInternalError.WithMessage(msgFailedProcessForm))
	}
}
