package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// ClaimsContextKey is where TokenAuthMiddleware stores the verified claims
const ClaimsContextKey = "auth_claims"

// AuthControllerRoutes lets callers relocate the JSON endpoints
type AuthControllerRoutes struct {
	Register string
	Login    string
	Refresh  string
	Verify   string
}

// AuthController exposes the orchestrator as a JSON API. It is a thin
// boundary adapter: every outcome it writes is an operation result, with
// the result status doubling as the HTTP status.
type AuthController struct {
	Debug  bool
	Logger Logger
	Auther *Auther
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
			Refresh:  "/auth/refresh",
			Verify:   "/auth/verify",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the credential endpoints on the given router
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost).
		SetName("auth.register")

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login")

	app.Post(controller.Routes.Refresh, controller.RefreshPost).
		SetName("auth.refresh")

	app.Get(controller.Routes.Verify, controller.VerifyGet).
		SetName("auth.verify")
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegistrationPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, Result{
			Status:  fiber.StatusBadRequest,
			Message: "Failed to parse body",
		})
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	result, err := a.Auther.Register(ctx.Context(), *payload)
	if err != nil {
		a.Logger.Error("register error", "error", err)
		return a.collaboratorFault(ctx)
	}

	return ctx.JSON(result.Status, result)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, Result{
			Status:  fiber.StatusBadRequest,
			Message: "Failed to parse body",
		})
	}

	result, err := a.Auther.Login(ctx.Context(), *payload)
	if err != nil {
		a.Logger.Error("login error", "error", err)
		return a.collaboratorFault(ctx)
	}

	return ctx.JSON(result.Status, result)
}

// RefreshPayload is the refresh input
type RefreshPayload struct {
	RefreshToken string `form:"refreshToken" json:"refreshToken"`
}

func (a *AuthController) RefreshPost(ctx router.Context) error {
	payload := new(RefreshPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("refresh parse payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, Result{
			Status:  fiber.StatusBadRequest,
			Message: "Failed to parse body",
		})
	}

	result, err := a.Auther.Refresh(ctx.Context(), payload.RefreshToken)
	if err != nil {
		a.Logger.Error("refresh error", "error", err)
		return a.collaboratorFault(ctx)
	}

	return ctx.JSON(result.Status, result)
}

func (a *AuthController) VerifyGet(ctx router.Context) error {
	token := BearerToken(ctx)
	result := a.Auther.Verify(token)
	return ctx.JSON(result.Status, result)
}

func (a *AuthController) collaboratorFault(ctx router.Context) error {
	return ctx.JSON(fiber.StatusInternalServerError, Result{
		Status:  fiber.StatusInternalServerError,
		Message: "An unexpected server error occurred",
	})
}

// BearerToken extracts the bearer token from the Authorization header,
// empty string when missing or differently schemed.
func BearerToken(ctx router.Context) string {
	header := ctx.Header("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// TokenAuthMiddleware guards routes with the orchestrator's Verify. The
// decoded claims end up in Locals under ClaimsContextKey. Like Verify it
// accepts any well signed token; wrap it if access-only semantics are
// needed.
func TokenAuthMiddleware(auther *Auther) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			result := auther.Verify(BearerToken(ctx))
			if !result.Success {
				return ctx.JSON(result.Status, result)
			}

			ctx.Locals(ClaimsContextKey, result.Claims)
			return next(ctx)
		}
	}
}
