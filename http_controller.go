package guard

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// LoginPayload is the request body for POST /login.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login payload.
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// RegisterPayload is the request body for POST /register.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration payload.
func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 72)),
	)
}

// LoginResponse is the success body for POST /login.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// AuthController serves the local-variant credential endpoints: login mints
// an HS256 token, register creates an unverified user with role "user".
type AuthController struct {
	Auther *Authenticator
	Logger *slog.Logger
}

// NewAuthController builds the controller.
func NewAuthController(auther *Authenticator, logger *slog.Logger) *AuthController {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthController{Auther: auther, Logger: logger}
}

// RegisterRoutes mounts the auth endpoints on the given router, typically
// the public route group.
func (ac *AuthController) RegisterRoutes(r fiber.Router) {
	r.Post("/auth/login", ac.Login)
	r.Post("/auth/register", ac.Register)
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var payload LoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	token, user, err := ac.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			ac.Logger.Error("login failed", "error", err)
		}
		return RespondError(c, err)
	}

	return c.JSON(LoginResponse{User: user, Token: token})
}

// Register handles POST /auth/register.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var payload RegisterPayload
	if err := c.BodyParser(&payload); err != nil {
		return Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	user, err := ac.Auther.Register(c.UserContext(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		ac.Logger.Warn("registration failed", "error", err)
		return RespondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(user)
}
