package domain

import "time"

// MenuItem is a pizza offered on the shared menu.
type MenuItem struct {
	ID          int64
	Title       string
	Description string
	Image       string
	Price       float64
}

// OrderItem is one line of a diner order.
type OrderItem struct {
	ID          int64
	MenuID      int64
	Description string
	Price       float64
}

// Order is a diner's purchase from a store.
type Order struct {
	ID          int64
	DinerID     int64
	FranchiseID int64
	StoreID     int64
	Date        time.Time
	Items       []OrderItem
}

// Total sums the item prices.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price
	}
	return total
}
