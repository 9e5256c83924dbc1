package animatch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/animatch/internal/domain"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	corpusItems prometheus.Gauge
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "animatch",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "animatch",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		corpusItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "animatch",
			Subsystem: "sdk",
			Name:      "corpus_items",
			Help:      "Items in the embedded corpus.",
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.corpusItems); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("animatch: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("animatch: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// outcome classifies an operation result. A miss is not a failure.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrItemNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch status {
	case "error":
		o.logger.Warn("operation failed", "op", op, "duration", dur, "error", err)
	case "not_found":
		o.logger.Debug("operation found nothing", "op", op, "duration", dur, "error", err)
	default:
		o.logger.Debug("operation completed", "op", op, "duration", dur)
	}
}

func (o *observer) corpusBuilt(items int) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		o.metrics.corpusItems.Set(float64(items))
	}
	if o.logger != nil {
		o.logger.Info("corpus built", "items", items)
	}
}
