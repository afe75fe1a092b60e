package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pizza-service/internal/api/dto"
	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/service"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// FranchiseHandler manages franchise and store endpoints.
type FranchiseHandler struct {
	service *service.FranchiseService
}

// NewFranchiseHandler constructs handler.
func NewFranchiseHandler(franchiseService *service.FranchiseService) *FranchiseHandler {
	return &FranchiseHandler{service: franchiseService}
}

// List GET /api/franchise.
func (h *FranchiseHandler) List(c *fiber.Ctx) error {
	franchises, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFranchiseList(franchises))
}

// ListForUser GET /api/franchise/:userId.
func (h *FranchiseHandler) ListForUser(c *fiber.Ctx) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)
	franchises, err := h.service.ListForUser(c.UserContext(), principal, userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFranchiseList(franchises))
}

// Create POST /api/franchise.
func (h *FranchiseHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateFranchiseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	emails := make([]string, 0, len(req.Admins))
	for _, admin := range req.Admins {
		emails = append(emails, admin.Email)
	}

	principal, _ := auth.PrincipalFromContext(c)
	franchise, err := h.service.Create(c.UserContext(), principal, req.Name, emails)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFranchiseResponse(franchise))
}

// Delete DELETE /api/franchise/:franchiseId.
func (h *FranchiseHandler) Delete(c *fiber.Ctx) error {
	franchiseID, err := idParam(c, "franchiseId")
	if err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.service.Delete(c.UserContext(), principal, franchiseID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "franchise deleted"})
}

// CreateStore POST /api/franchise/:franchiseId/store.
func (h *FranchiseHandler) CreateStore(c *fiber.Ctx) error {
	franchiseID, err := idParam(c, "franchiseId")
	if err != nil {
		return err
	}
	var req dto.CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	principal, _ := auth.PrincipalFromContext(c)
	store, err := h.service.CreateStore(c.UserContext(), principal, franchiseID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStoreResponse(store))
}

// DeleteStore DELETE /api/franchise/:franchiseId/store/:storeId.
func (h *FranchiseHandler) DeleteStore(c *fiber.Ctx) error {
	franchiseID, err := idParam(c, "franchiseId")
	if err != nil {
		return err
	}
	storeID, err := idParam(c, "storeId")
	if err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.service.DeleteStore(c.UserContext(), principal, franchiseID, storeID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "store deleted"})
}
