package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pizza-service/internal/api/dto"
	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/service"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// AuthHandler exposes registration, login, logout and user update.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{User: dto.NewUserResponse(result.User), Token: result.Token})
}

// Login handles PUT /api/auth.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{User: dto.NewUserResponse(result.User), Token: result.Token})
}

// Logout handles DELETE /api/auth.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	token, ok := auth.TokenFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.MsgUnauthorized)
	}
	if err := h.auth.Logout(c.UserContext(), principal, token); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "logout successful"})
}

// UpdateUser handles PUT /api/auth/:userId.
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	principal, _ := auth.PrincipalFromContext(c)
	user, err := h.auth.UpdateUser(c.UserContext(), principal, userID, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
