package factory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/config"
	"github.com/spec-kit/pizza-service/internal/domain"
)

// ErrRejected means the factory answered but did not make the pizzas.
var ErrRejected = errors.New("factory rejected order")

// Diner identifies who the order is for.
type Diner struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderItem struct {
	MenuID      int64   `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type orderPayload struct {
	ID          int64       `json:"id"`
	FranchiseID int64       `json:"franchiseId"`
	StoreID     int64       `json:"storeId"`
	Items       []orderItem `json:"items"`
}

type request struct {
	Diner Diner        `json:"diner"`
	Order orderPayload `json:"order"`
}

// Result is the factory's answer. ReportURL is set on success and failure.
type Result struct {
	ReportURL string `json:"reportUrl"`
	JWT       string `json:"jwt"`
}

// Client sends orders to the pizza factory.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg config.FactoryConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
	}
}

// Fulfill submits an order. A non-2xx answer returns ErrRejected together
// with whatever report URL the factory supplied.
func (c *Client) Fulfill(ctx context.Context, diner Diner, order *domain.Order) (*Result, error) {
	payload := request{
		Diner: diner,
		Order: orderPayload{
			ID:          order.ID,
			FranchiseID: order.FranchiseID,
			StoreID:     order.StoreID,
			Items:       make([]orderItem, 0, len(order.Items)),
		},
	}
	for _, item := range order.Items {
		payload.Order.Items = append(payload.Order.Items, orderItem{
			MenuID:      item.MenuID,
			Description: item.Description,
			Price:       item.Price,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode factory order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/order", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build factory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call factory: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read factory response: %w", err)
	}
	c.logger.Info("factory",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Int64("order_id", order.ID))

	var result Result
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("decode factory response: %w", err)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &result, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return &result, nil
}
