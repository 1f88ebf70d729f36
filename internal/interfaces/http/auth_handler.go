package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coopvalle/dotaciones-api/internal/application/auth"
	"github.com/coopvalle/dotaciones-api/internal/application/dto"
)

// AuthHandler maneja registro y login (rutas públicas).
type AuthHandler struct {
	authUC *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(authUC *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name, role"
// @Success      201  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if !parseBody(c, &in) {
		return nil
	}
	user, err := h.authUC.RegisterUser(in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200  {object}  dto.LoginResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if !parseBody(c, &in) {
		return nil
	}
	session, err := h.authUC.Login(in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(session)
}
