package worker

import (
	"github.com/spec-kit/pizza-service/internal/observability"
	"github.com/spec-kit/pizza-service/internal/service"
)

// StartMetricsWorker registers event-driven metric handlers and schedules the
// periodic exporter when one is given.
func StartMetricsWorker(recorder *service.MetricsRecorder, exporter *observability.Exporter) error {
	if recorder != nil {
		recorder.RegisterHandlers()
	}
	if exporter == nil {
		return nil
	}
	return exporter.Start()
}
