package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pizza-service/internal/api/dto"
	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/service"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// OrderHandler serves the menu and diner orders.
type OrderHandler struct {
	service *service.OrderService
}

// NewOrderHandler constructs handler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{service: orderService}
}

// Menu GET /api/order/menu.
func (h *OrderHandler) Menu(c *fiber.Ctx) error {
	menu, err := h.service.Menu(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMenu(menu))
}

// AddMenuItem PUT /api/order/menu.
func (h *OrderHandler) AddMenuItem(c *fiber.Ctx) error {
	var req dto.MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	principal, _ := auth.PrincipalFromContext(c)
	menu, err := h.service.AddMenuItem(c.UserContext(), principal, domain.MenuItem{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMenu(menu))
}

// List GET /api/order?page=N.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	page, err := h.service.Orders(c.UserContext(), principal, c.QueryInt("page", 1))
	if err != nil {
		return err
	}

	resp := dto.OrderListResponse{
		DinerID: page.DinerID,
		Orders:  make([]dto.OrderResponse, 0, len(page.Orders)),
		Page:    page.Page,
	}
	for i := range page.Orders {
		resp.Orders = append(resp.Orders, dto.NewOrderResponse(&page.Orders[i]))
	}
	return c.JSON(resp)
}

// Create POST /api/order.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	principal, _ := auth.PrincipalFromContext(c)
	placed, err := h.service.Place(c.UserContext(), principal, service.PlaceOrderInput{
		FranchiseID: req.FranchiseID,
		StoreID:     req.StoreID,
		Items:       req.DomainItems(),
	})
	if err != nil {
		var failed *service.FulfillmentError
		if errors.As(err, &failed) {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.OrderFailureResponse{
				Message:   service.MsgFactoryFailed,
				ReportURL: failed.ReportURL,
			})
		}
		return err
	}
	return c.JSON(dto.CreateOrderResponse{
		Order:      dto.NewOrderResponse(placed.Order),
		FollowLink: placed.ReportURL,
		JWT:        placed.JWT,
	})
}
