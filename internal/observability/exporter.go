package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/config"
)

// SystemSampler reports host CPU and memory usage percentages.
type SystemSampler func(ctx context.Context) (cpuPercent, memoryPercent float64, err error)

// Exporter periodically samples host usage into Metrics and, when a push URL
// is configured, pushes the whole registry to a Prometheus Pushgateway.
type Exporter struct {
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration
	pusher   *push.Pusher
	sample   SystemSampler
	cron     *cron.Cron
}

// NewExporter wires an exporter; call Start to schedule it.
func NewExporter(metrics *Metrics, cfg config.MetricsConfig, logger *zap.Logger) *Exporter {
	e := &Exporter{
		metrics:  metrics,
		logger:   logger,
		interval: cfg.Interval(),
		sample:   SampleHost,
		cron:     cron.New(),
	}
	if cfg.PushURL != "" {
		// source is already a constant label on every collector, so it is
		// not repeated as a grouping key.
		e.pusher = push.New(cfg.PushURL, cfg.PushJob).Gatherer(metrics.Registry())
	}
	return e
}

// WithSampler replaces the host sampler.
func (e *Exporter) WithSampler(sample SystemSampler) *Exporter {
	e.sample = sample
	return e
}

// Start schedules Export on the configured interval.
func (e *Exporter) Start() error {
	if _, err := e.cron.AddFunc(fmt.Sprintf("@every %s", e.interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.interval)
		defer cancel()
		if err := e.Export(ctx); err != nil {
			e.logger.Warn("metrics export failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule metrics export: %w", err)
	}
	e.cron.Start()
	e.logger.Info("metrics exporter started",
		zap.Duration("interval", e.interval),
		zap.Bool("push", e.pusher != nil))
	return nil
}

// Stop waits for a running export to finish or ctx to end.
func (e *Exporter) Stop(ctx context.Context) {
	select {
	case <-e.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Export samples host usage and pushes metrics once.
func (e *Exporter) Export(ctx context.Context) error {
	cpuPercent, memPercent, err := e.sample(ctx)
	if err != nil {
		e.logger.Debug("host sample failed", zap.Error(err))
	} else {
		e.metrics.SetSystemUsage(cpuPercent, memPercent)
	}

	if e.pusher == nil {
		return nil
	}
	if err := e.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

// SampleHost reads CPU and memory usage through gopsutil.
func SampleHost(ctx context.Context) (float64, float64, error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, 0, fmt.Errorf("cpu percent: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("virtual memory: %w", err)
	}

	var cpuPercent float64
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}
	return cpuPercent, vm.UsedPercent, nil
}
