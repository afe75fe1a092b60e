package worker

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/config"
	"github.com/spec-kit/pizza-service/internal/events"
	"github.com/spec-kit/pizza-service/internal/observability"
	"github.com/spec-kit/pizza-service/internal/service"
)

func TestStartMetricsWorker(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry(), "test")
	dispatcher := events.NewInMemoryDispatcher(nil)
	exporter := observability.NewExporter(metrics, config.MetricsConfig{IntervalSeconds: 60}, zap.NewNop())

	require.NoError(t, StartMetricsWorker(service.NewMetricsRecorder(dispatcher, metrics, nil), exporter))
	defer exporter.Stop(context.Background())

	require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventUserLoggedIn, 1, nil)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActiveUsers))
}

func TestStartMetricsWorkerWithoutCollaborators(t *testing.T) {
	assert.NoError(t, StartMetricsWorker(nil, nil))
}
