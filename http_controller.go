package identity

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/google/uuid"
)

// RouteRegistrar captures the router methods the controllers use.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// RouteControllerRoutes are the paths the page controller mounts.
type RouteControllerRoutes struct {
	Login    string
	Logout   string
	Register string
}

// RouteControllerViews are the template names the page controller renders.
type RouteControllerViews struct {
	Login    string
	Register string
}

// RouteController serves the account pages: login, logout, and
// registration. Admin operations live on AdminController.
type RouteController struct {
	Debug        bool
	Logger       Logger
	Manager      *AccountManager
	Auther       *Auther
	Config       Config
	Routes       *RouteControllerRoutes
	Views        *RouteControllerViews
	ErrorHandler router.ErrorHandler
}

type RouteControllerOption func(*RouteController) *RouteController

func WithControllerLogger(l Logger) RouteControllerOption {
	return func(c *RouteController) *RouteController {
		c.Logger = l
		return c
	}
}

func WithControllerDebug(debug bool) RouteControllerOption {
	return func(c *RouteController) *RouteController {
		c.Debug = debug
		return c
	}
}

func NewRouteController(manager *AccountManager, auther *Auther, cfg Config, opts ...RouteControllerOption) *RouteController {
	c := &RouteController{
		Logger:       defLogger{},
		Manager:      manager,
		Auther:       auther,
		Config:       cfg,
		ErrorHandler: defaultErrHandler,
		Routes: &RouteControllerRoutes{
			Login:    "/user/login",
			Logout:   "/user/logout",
			Register: "/user/register",
		},
		Views: &RouteControllerViews{
			Login:    "user/login",
			Register: "user/register",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Manager == nil {
		panic("Missing AccountManager in route controller...")
	}
	if c.Auther == nil {
		panic("Missing Auther in route controller...")
	}

	return c
}

// RegisterRoutes mounts the page routes.
func (a *RouteController) RegisterRoutes(app RouteRegistrar) {
	app.Get(a.Routes.Login, a.LoginShow)
	app.Post(a.Routes.Login, a.LoginPost)
	app.Get(a.Routes.Logout, a.LogOut)
	app.Get(a.Routes.Register, a.RegistrationShow)
	app.Post(a.Routes.Register, a.RegistrationCreate)
}

func (a *RouteController) LoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.Login, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	LoginID  string `form:"login_id" json:"login_id"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LoginID, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *RouteController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)
	formErrors := map[string]string{}

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.Login, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("====================")
	}

	result, err := a.Auther.Login(ctx.Context(), payload.LoginID, payload.Password)
	if err != nil {
		formErrors["authentication"] = "Authentication Error"
		return ctx.Render(a.Views.Login, router.ViewContext{
			"errors": formErrors,
			"record": payload,
		})
	}

	a.setSessionCookie(ctx, result.Token)

	redirect := a.GetRedirect(ctx, string(result.Destination))
	return ctx.Redirect(redirect, router.StatusSeeOther)
}

func (a *RouteController) LogOut(ctx router.Context) error {
	a.cookieDel(ctx, a.Config.GetContextKey())
	return ctx.Redirect("/", router.StatusTemporaryRedirect)
}

func (a *RouteController) RegistrationShow(ctx router.Context) error {
	return ctx.Render(a.Views.Register, router.ViewContext{
		"errors": map[string]string{},
		"record": RegistrationForm{},
	})
}

// RegistrationForm is the registration page payload. ConfirmPassword is a
// form-only field; everything else maps onto RegisterPayload.
type RegistrationForm struct {
	LoginID         string `form:"login_id" json:"login_id"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	RealName        string `form:"real_name" json:"real_name"`
	Nickname        string `form:"nickname" json:"nickname"`
	Phone           string `form:"phone" json:"phone"`
	BirthYear       int    `form:"birth_year" json:"birth_year"`
	Gender          string `form:"gender" json:"gender"`
	NationalID      string `form:"national_id" json:"-"`
}

// Validate checks the form-only rules; the full policy runs again inside
// AccountManager.Register.
func (r RegistrationForm) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LoginID, validation.Required),
		validation.Field(&r.Password, validation.Required),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
		validation.Field(&r.RealName, validation.Required),
	)
}

func (r RegistrationForm) payload() RegisterPayload {
	return RegisterPayload{
		LoginID:    r.LoginID,
		Password:   r.Password,
		RealName:   r.RealName,
		Nickname:   r.Nickname,
		Phone:      r.Phone,
		BirthYear:  r.BirthYear,
		Gender:     r.Gender,
		NationalID: r.NationalID,
	}
}

func (a *RouteController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationForm)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("registration parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(router.StatusBadRequest).Render(a.Views.Register, router.ViewContext{
			"errors": map[string]string{"form": "Failed to parse form"},
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("registration validate payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.Register, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if _, err := a.Manager.Register(ctx.Context(), payload.payload()); err != nil {
		a.Logger.Error("registration failed: %v", err)
		message := "Registration failed"
		if errors.Is(err, ErrDuplicateLoginID) {
			message = "That login ID is already taken"
		}
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  message,
			"system_message": "Error registering account",
		}).Render(a.Views.Register, router.ViewContext{
			"record": payload,
			"errors": map[string]string{"registration": message},
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Account registered",
	}).Redirect(a.Routes.Login, router.StatusSeeOther)
}

// GetRedirect pops the rejected-route cookie, falling back to def.
func (a *RouteController) GetRedirect(ctx router.Context, def string) string {
	rejectedRoute := a.Config.GetRejectedRouteKey()
	r := ctx.Cookies(rejectedRoute)
	if r == "" {
		return def
	}
	a.cookieDel(ctx, rejectedRoute)
	return r
}

func (a *RouteController) setSessionCookie(c router.Context, token string) {
	c.Cookie(&router.Cookie{
		Name:     a.Config.GetContextKey(),
		Value:    token,
		Expires:  time.Now().Add(time.Duration(a.Config.GetTokenExpiration()) * time.Hour),
		HTTPOnly: true,
	})
}

func (a *RouteController) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
	})
}

// AdminController exposes the account administration API. Mount it behind
// a gate rule that requires the admin role.
type AdminController struct {
	Logger  Logger
	Manager *AccountManager
}

func NewAdminController(manager *AccountManager) *AdminController {
	if manager == nil {
		panic("Missing AccountManager in admin controller...")
	}
	return &AdminController{
		Logger:  defLogger{},
		Manager: manager,
	}
}

func (c *AdminController) WithLogger(l Logger) *AdminController {
	c.Logger = l
	return c
}

// RegisterRoutes mounts the admin API routes.
func (c *AdminController) RegisterRoutes(app RouteRegistrar) {
	app.Get("/admin/api/accounts", c.ListAccounts)
	app.Post("/admin/api/accounts/:id/role", c.UpdateRole)
	app.Post("/admin/api/accounts/:id/status", c.SetStatus)
	app.Delete("/admin/api/accounts/:id", c.PurgeAccount)
}

func (c *AdminController) ListAccounts(ctx router.Context) error {
	accounts, total, err := c.Manager.ListAccounts(ctx.Context(), ListCriteria{
		Limit:  ctx.QueryInt("limit", 25),
		Offset: ctx.QueryInt("offset", 0),
	})
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"items": accounts,
		"total": total,
	})
}

// RoleChangeRequest is the update-role payload.
type RoleChangeRequest struct {
	Role string `form:"role" json:"role"`
}

func (c *AdminController) UpdateRole(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"error": "invalid account id"})
	}

	payload := new(RoleChangeRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	role, ok := ParseRole(payload.Role)
	if !ok {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"error": "unknown role"})
	}

	account, err := c.Manager.UpdateRole(ctx.Context(), id, role)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, account)
}

// StatusChangeRequest is the activate/deactivate payload.
type StatusChangeRequest struct {
	Active bool `form:"active" json:"active"`
}

func (c *AdminController) SetStatus(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"error": "invalid account id"})
	}

	payload := new(StatusChangeRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	account, err := c.Manager.SetActive(ctx.Context(), id, payload.Active)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, account)
}

func (c *AdminController) PurgeAccount(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"error": "invalid account id"})
	}

	if err := c.Manager.Purge(ctx.Context(), id); err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"status": "purged"})
}

func (c *AdminController) renderError(ctx router.Context, err error) error {
	c.Logger.Error("admin api error: %v", err)
	return ctx.JSON(statusForError(err), map[string]string{"error": err.Error()})
}

// statusForError maps the error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return http.StatusInternalServerError
	}

	switch rich.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field-to-message map for templates.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
