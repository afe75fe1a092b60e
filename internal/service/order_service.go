package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/events"
	"github.com/spec-kit/pizza-service/internal/factory"
	"github.com/spec-kit/pizza-service/internal/repository"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// MsgFactoryFailed is returned when the pizza factory does not fulfill an order.
const MsgFactoryFailed = "Failed to fulfill order at factory"

// Fulfiller sends an order to the pizza factory.
type Fulfiller interface {
	Fulfill(ctx context.Context, diner factory.Diner, order *domain.Order) (*factory.Result, error)
}

// FulfillmentError carries the factory's report link for a failed order.
type FulfillmentError struct {
	ReportURL string
	Err       error
}

func (e *FulfillmentError) Error() string {
	return fmt.Sprintf("%s: %v", MsgFactoryFailed, e.Err)
}

func (e *FulfillmentError) Unwrap() error {
	return e.Err
}

// OrderService serves the menu and places diner orders.
type OrderService struct {
	orders  repository.OrderRepository
	factory Fulfiller
	events  events.Dispatcher
	logger  *zap.Logger
	now     func() time.Time
}

// OrderDependencies encapsulates collaborators for the order service.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	Factory    Fulfiller
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// PlaceOrderInput is a diner's order request.
type PlaceOrderInput struct {
	FranchiseID int64
	StoreID     int64
	Items       []domain.OrderItem
}

// PlacedOrder is a fulfilled order with the factory's receipt.
type PlacedOrder struct {
	Order     *domain.Order
	ReportURL string
	JWT       string
}

// OrderPage is one page of a diner's order history.
type OrderPage struct {
	DinerID int64
	Orders  []domain.Order
	Page    int
}

// NewOrderService builds the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(logger)
	}
	return &OrderService{
		orders:  deps.OrderRepo,
		factory: deps.Factory,
		events:  dispatcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Menu returns the shared menu.
func (s *OrderService) Menu(ctx context.Context) ([]domain.MenuItem, error) {
	menu, err := s.orders.GetMenu(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return menu, nil
}

// AddMenuItem adds a pizza to the shared menu and returns the updated menu.
func (s *OrderService) AddMenuItem(ctx context.Context, principal *auth.Principal, item domain.MenuItem) ([]domain.MenuItem, error) {
	if err := auth.CanModifyMenu(principal); err != nil {
		return nil, err
	}
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" || item.Price < 0 {
		return nil, apperrors.NewValidationError("menu item needs a title and a non-negative price", nil)
	}
	if err := s.orders.AddMenuItem(ctx, &item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.Menu(ctx)
}

// Orders returns one page of the caller's orders, newest first.
func (s *OrderService) Orders(ctx context.Context, principal *auth.Principal, page int) (*OrderPage, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized(auth.MsgUnauthorized)
	}
	if page < 1 {
		page = 1
	}
	orders, err := s.orders.ListByDiner(ctx, principal.ID, page)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &OrderPage{DinerID: principal.ID, Orders: orders, Page: page}, nil
}

// Place stores the order and asks the factory to make it. A factory failure
// returns *FulfillmentError; the stored order is kept.
func (s *OrderService) Place(ctx context.Context, principal *auth.Principal, in PlaceOrderInput) (*PlacedOrder, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized(auth.MsgUnauthorized)
	}
	if in.FranchiseID <= 0 || in.StoreID <= 0 || len(in.Items) == 0 {
		return nil, apperrors.NewValidationError("franchiseId, storeId and at least one item are required", nil)
	}

	order := &domain.Order{
		DinerID:     principal.ID,
		FranchiseID: in.FranchiseID,
		StoreID:     in.StoreID,
		Date:        s.now().UTC(),
		Items:       in.Items,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}

	start := s.now()
	result, err := s.factory.Fulfill(ctx, factory.Diner{ID: principal.ID, Name: principal.Name, Email: principal.Email}, order)
	latency := s.now().Sub(start)
	if err != nil {
		var reportURL string
		if result != nil {
			reportURL = result.ReportURL
		}
		s.publish(ctx, events.New(events.EventOrderFailed, principal.ID, events.OrderFailedPayload{
			OrderID:   order.ID,
			Latency:   latency,
			ReportURL: reportURL,
		}))
		if !errors.Is(err, factory.ErrRejected) {
			s.logger.Warn("factory unreachable", zap.Int64("order_id", order.ID), zap.Error(err))
		}
		return nil, &FulfillmentError{ReportURL: reportURL, Err: err}
	}

	s.publish(ctx, events.New(events.EventOrderPlaced, principal.ID, events.OrderPlacedPayload{
		OrderID: order.ID,
		Pizzas:  len(order.Items),
		Revenue: order.Total(),
		Latency: latency,
	}))
	return &PlacedOrder{Order: order, ReportURL: result.ReportURL, JWT: result.JWT}, nil
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
