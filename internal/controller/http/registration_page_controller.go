package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/service"
	"github.com/jrjohn/arcana-onboarding-go/internal/dto/request"
	"github.com/jrjohn/arcana-onboarding-go/internal/i18n"
	"github.com/jrjohn/arcana-onboarding-go/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	registerTemplate = "register.html"
	registerPath     = "/register"
)

// Templates parses the embedded view templates
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// RegistrationPageController serves the server-rendered registration form
type RegistrationPageController struct {
	registrationService service.RegistrationService
	bundle              *i18n.Bundle
	config              *config.RegistrationConfig
	rateLimiter         *middleware.RateLimiter
	logger              *zap.Logger
}

// NewRegistrationPageController creates a new RegistrationPageController instance
func NewRegistrationPageController(
	registrationService service.RegistrationService,
	bundle *i18n.Bundle,
	cfg *config.RegistrationConfig,
	rateLimiter *middleware.RateLimiter,
	logger *zap.Logger,
) *RegistrationPageController {
	return &RegistrationPageController{
		registrationService: registrationService,
		bundle:              bundle,
		config:              cfg,
		rateLimiter:         rateLimiter,
		logger:              logger,
	}
}

// RegisterRoutes registers the page routes
func (c *RegistrationPageController) RegisterRoutes(router gin.IRoutes) {
	router.GET(registerPath, c.Show)
	router.POST(registerPath, c.rateLimiter.Handler(), c.Post)
}

// Show renders a form, resuming ?formId= when it is still open
func (c *RegistrationPageController) Show(ctx *gin.Context) {
	if formID := ctx.Query("formId"); formID != "" {
		if form, err := c.registrationService.GetForm(ctx.Request.Context(), formID); err == nil {
			c.render(ctx, http.StatusOK, form, nil)
			return
		}
	}

	form, err := c.registrationService.OpenForm(ctx.Request.Context(), middleware.GetLocale(ctx))
	if err != nil {
		c.logger.Error("Failed to open registration form", zap.Error(err))
		ctx.String(http.StatusInternalServerError, msgFailedProcessForm)
		return
	}
	c.render(ctx, http.StatusOK, form, nil)
}

// Post applies the posted values, then toggles a password or submits
func (c *RegistrationPageController) Post(ctx *gin.Context) {
	var post request.FormPost
	if err := ctx.ShouldBind(&post); err != nil {
		ctx.Redirect(http.StatusSeeOther, registerPath)
		return
	}

	reqCtx := ctx.Request.Context()

	fields := make(map[string]string)
	for _, name := range entity.FieldOrder {
		if value, ok := ctx.GetPostForm(name); ok {
			fields[name] = value
		}
	}

	var form *entity.FormSession
	var err error
	if len(fields) > 0 {
		form, err = c.registrationService.UpdateFields(reqCtx, post.FormID, fields)
	} else {
		form, err = c.registrationService.GetForm(reqCtx, post.FormID)
	}
	if err != nil {
		c.renderError(ctx, post.FormID, err)
		return
	}

	switch post.Action {
	case request.ActionTogglePassword, request.ActionToggleConfirmPassword:
		field := entity.FieldPassword
		if post.Action == request.ActionToggleConfirmPassword {
			field = entity.FieldConfirmPassword
		}
		form, err = c.registrationService.ToggleVisibility(reqCtx, post.FormID, field)
		if err != nil {
			c.renderError(ctx, post.FormID, err)
			return
		}
		c.render(ctx, http.StatusOK, form, nil)

	default:
		result, err := c.registrationService.Submit(reqCtx, post.FormID)
		switch {
		case err == nil:
			ctx.Redirect(http.StatusSeeOther, result.RedirectTo)
		case errors.Is(err, service.ErrValidationFailed) && result != nil:
			c.render(ctx, http.StatusBadRequest, result.Form, nil)
		case errors.Is(err, service.ErrRegistrationFailed) && result != nil:
			c.render(ctx, http.StatusBadGateway, result.Form, &result.Notification)
		default:
			c.renderError(ctx, post.FormID, err)
		}
	}
}

func (c *RegistrationPageController) renderError(ctx *gin.Context, formID string, err error) {
	appErr := toAppError(err)

	switch appErr.Status {
	case http.StatusNotFound:
		// expired or already submitted
		ctx.Redirect(http.StatusSeeOther, registerPath)
	case http.StatusConflict:
		form, getErr := c.registrationService.GetForm(ctx.Request.Context(), formID)
		if getErr != nil {
			ctx.Redirect(http.StatusSeeOther, registerPath)
			return
		}
		c.render(ctx, http.StatusConflict, form, nil)
	default:
		c.logger.Error("Registration page request failed",
			zap.String("form_id", formID),
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Error(err),
		)
		ctx.String(appErr.Status, appErr.Message)
	}
}

func (c *RegistrationPageController) render(ctx *gin.Context, status int, form *entity.FormSession, notification *entity.Notification) {
	ctx.HTML(status, registerTemplate, newPageView(form, c.bundle.Localizer(form.Locale), c.config.SignInURL, notification))
}

// pageView is the data of the registration template
type pageView struct {
	Locale       string
	FormID       string
	Action       string
	Title        string
	Subtitle     string
	SubmitLabel  string
	HaveAccount  string
	SignIn       string
	SignInURL    string
	Busy         bool
	Notification *entity.Notification
	Fields       []fieldView
}

type fieldView struct {
	Name        string
	Label       string
	Placeholder string
	Type        string
	Value       string
	Error       string
	Toggle      request.FormAction
	ToggleLabel string
	Options     []optionView
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

func newPageView(form *entity.FormSession, loc i18n.Localizer, signInURL string, notification *entity.Notification) *pageView {
	view := &pageView{
		Locale:       loc.Locale(),
		FormID:       form.ID,
		Action:       registerPath,
		Title:        loc.T("auth.register.title"),
		Subtitle:     loc.T("auth.register.subtitle"),
		SubmitLabel:  loc.T("auth.register.submit"),
		HaveAccount:  loc.T("auth.register.haveAccount"),
		SignIn:       loc.T("auth.register.signIn"),
		SignInURL:    signInURL,
		Busy:         form.Busy,
		Notification: notification,
	}
	if form.Busy {
		view.SubmitLabel = loc.T("auth.register.submitting")
	}

	for _, name := range entity.FieldOrder {
		value, _ := form.Input.Field(name)
		field := fieldView{
			Name:  name,
			Label: loc.T("auth.field." + name),
			Type:  inputType(name),
			Value: value,
			Error: form.Errors[name],
		}

		if placeholderKey := "auth.placeholder." + name; loc.T(placeholderKey) != placeholderKey {
			field.Placeholder = loc.T(placeholderKey)
		}

		switch name {
		case entity.FieldPassword, entity.FieldConfirmPassword:
			field.Toggle = request.FormAction("toggle-" + name)
			if form.Visible(name) {
				field.Type = "text"
				field.ToggleLabel = loc.T("auth.password.hide")
			} else {
				field.ToggleLabel = loc.T("auth.password.show")
			}
		case entity.FieldRole:
			for _, role := range entity.Roles {
				field.Options = append(field.Options, optionView{
					Value:    string(role),
					Label:    loc.T("auth.role." + string(role)),
					Selected: string(role) == value,
				})
			}
		}

		view.Fields = append(view.Fields, field)
	}

	return view
}

func inputType(field string) string {
	switch field {
	case entity.FieldEmail:
		return "email"
	case entity.FieldPassword, entity.FieldConfirmPassword:
		return "password"
	case entity.FieldPhoneNumber:
		return "tel"
	case entity.FieldDateOfBirth:
		return "date"
	default:
		return "text"
	}
}
