package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pizza-service/internal/domain"
)

// OrdersPerPage bounds one page of a diner's order history.
const OrdersPerPage = 10

// OrderRepository manages the shared menu and diner orders.
type OrderRepository interface {
	GetMenu(ctx context.Context) ([]domain.MenuItem, error)
	AddMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListByDiner(ctx context.Context, dinerID int64, page int) ([]domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
}

type orderRepository struct {
	db DB
}

// NewOrderRepository constructs repository.
func NewOrderRepository(db DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetMenu(ctx context.Context) ([]domain.MenuItem, error) {
	const query = `SELECT id, title, description, image, price::float8 FROM menu ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	menu := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Image, &item.Price); err != nil {
			return nil, err
		}
		menu = append(menu, item)
	}
	return menu, rows.Err()
}

func (r *orderRepository) AddMenuItem(ctx context.Context, item *domain.MenuItem) error {
	const query = `
        INSERT INTO menu (title, description, image, price)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	return r.db.QueryRow(ctx, query, item.Title, item.Description, item.Image, item.Price).Scan(&item.ID)
}

// ListByDiner returns one page (1-based) of orders, newest first.
func (r *orderRepository) ListByDiner(ctx context.Context, dinerID int64, page int) ([]domain.Order, error) {
	if page < 1 {
		page = 1
	}
	const query = `
        SELECT id, diner_id, franchise_id, store_id, date
        FROM diner_orders WHERE diner_id=$1
        ORDER BY id DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, dinerID, OrdersPerPage, (page-1)*OrdersPerPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.DinerID, &order.FranchiseID, &order.StoreID, &order.Date); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.items(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *orderRepository) items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	const query = `SELECT id, menu_id, description, price::float8 FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.MenuID, &item.Description, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Create stores the order and its items atomically.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const insertOrder = `
        INSERT INTO diner_orders (diner_id, franchise_id, store_id)
        VALUES ($1, $2, $3)
        RETURNING id, date`
	const insertItem = `
        INSERT INTO order_items (order_id, menu_id, description, price)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertOrder, order.DinerID, order.FranchiseID, order.StoreID).
			Scan(&order.ID, &order.Date); err != nil {
			return err
		}
		for i := range order.Items {
			item := &order.Items[i]
			if err := tx.QueryRow(ctx, insertItem, order.ID, item.MenuID, item.Description, item.Price).
				Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
}
