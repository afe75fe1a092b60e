package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/events"
	"github.com/spec-kit/pizza-service/internal/observability"
)

// MetricsRecorder turns domain events into metric updates.
type MetricsRecorder struct {
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewMetricsRecorder creates the recorder.
func NewMetricsRecorder(dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *MetricsRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsRecorder{
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (m *MetricsRecorder) RegisterHandlers() {
	if m.dispatcher == nil {
		return
	}
	m.dispatcher.Subscribe(events.EventUserLoggedIn, m.handleLoggedIn)
	m.dispatcher.Subscribe(events.EventUserLoggedOut, m.handleLoggedOut)
	m.dispatcher.Subscribe(events.EventAuthFailed, m.handleAuthFailed)
	m.dispatcher.Subscribe(events.EventOrderPlaced, m.handleOrderPlaced)
	m.dispatcher.Subscribe(events.EventOrderFailed, m.handleOrderFailed)
}

func (m *MetricsRecorder) handleLoggedIn(_ context.Context, event events.Event) error {
	m.metrics.RecordAuth(true)
	m.metrics.SessionOpened()
	m.logger.Debug("UserLoggedIn", zap.Int64("user_id", event.UserID))
	return nil
}

func (m *MetricsRecorder) handleLoggedOut(_ context.Context, event events.Event) error {
	m.metrics.SessionClosed()
	m.logger.Debug("UserLoggedOut", zap.Int64("user_id", event.UserID))
	return nil
}

func (m *MetricsRecorder) handleAuthFailed(_ context.Context, event events.Event) error {
	m.metrics.RecordAuth(false)
	if payload, ok := event.Payload.(events.AuthFailedPayload); ok {
		m.logger.Info("AuthFailed", zap.String("email", payload.Email), zap.String("reason", payload.Reason))
	}
	return nil
}

func (m *MetricsRecorder) handleOrderPlaced(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderPlacedPayload)
	if !ok {
		return nil
	}
	m.metrics.RecordOrder(payload.Pizzas, payload.Revenue, payload.Latency)
	m.logger.Info("OrderPlaced", zap.Int64("order_id", payload.OrderID), zap.Int64("user_id", event.UserID))
	return nil
}

func (m *MetricsRecorder) handleOrderFailed(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderFailedPayload)
	if !ok {
		return nil
	}
	m.metrics.RecordOrderFailure(payload.Latency)
	m.logger.Warn("OrderFailed",
		zap.Int64("order_id", payload.OrderID),
		zap.String("report_url", payload.ReportURL))
	return nil
}
