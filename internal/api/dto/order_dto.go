package dto

import (
	"time"

	"github.com/spec-kit/pizza-service/internal/domain"
)

// MenuItemRequest payload for PUT /api/order/menu.
type MenuItemRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

// MenuItemResponse describes a menu entry.
type MenuItemResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

// OrderItemPayload is one line of an order, in both directions.
type OrderItemPayload struct {
	ID          int64   `json:"id,omitempty"`
	MenuID      int64   `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CreateOrderRequest payload.
type CreateOrderRequest struct {
	FranchiseID int64              `json:"franchiseId"`
	StoreID     int64              `json:"storeId"`
	Items       []OrderItemPayload `json:"items"`
}

// OrderResponse describes a stored order.
type OrderResponse struct {
	ID          int64              `json:"id"`
	FranchiseID int64              `json:"franchiseId"`
	StoreID     int64              `json:"storeId"`
	Date        time.Time          `json:"date"`
	Items       []OrderItemPayload `json:"items"`
}

// OrderListResponse is one page of a diner's orders.
type OrderListResponse struct {
	DinerID int64           `json:"dinerId"`
	Orders  []OrderResponse `json:"orders"`
	Page    int             `json:"page"`
}

// CreateOrderResponse is returned once the factory accepts the order.
type CreateOrderResponse struct {
	Order      OrderResponse `json:"order"`
	FollowLink string        `json:"followLinkToEndChaos"`
	JWT        string        `json:"jwt"`
}

// OrderFailureResponse is returned when the factory fails the order.
type OrderFailureResponse struct {
	Message   string `json:"message"`
	ReportURL string `json:"reportPizzaCreationErrorToPizzaFactoryUrl"`
}

// DomainItems converts the request lines to domain items.
func (r CreateOrderRequest) DomainItems() []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.OrderItem{MenuID: item.MenuID, Description: item.Description, Price: item.Price})
	}
	return items
}

// NewMenu maps the menu.
func NewMenu(menu []domain.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(menu))
	for _, item := range menu {
		out = append(out, MenuItemResponse{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Image:       item.Image,
			Price:       item.Price,
		})
	}
	return out
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:          order.ID,
		FranchiseID: order.FranchiseID,
		StoreID:     order.StoreID,
		Date:        order.Date,
		Items:       make([]OrderItemPayload, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemPayload{
			ID:          item.ID,
			MenuID:      item.MenuID,
			Description: item.Description,
			Price:       item.Price,
		})
	}
	return resp
}
