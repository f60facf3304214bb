// Package metrics exposes Prometheus collectors for pipeline runs.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "annbridge"

// Metrics holds the pipeline collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	itemsTotal       *prometheus.CounterVec
	recordsConverted *prometheus.CounterVec
	convertFailures  *prometheus.CounterVec
	recordsUploaded  prometheus.Counter
	recordsSkipped   prometheus.Counter
	bindFailures     *prometheus.CounterVec
	itemDuration     prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		itemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Items processed, by outcome",
		}, []string{"status"}),
		recordsConverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_converted_total",
			Help:      "Annotations converted to records, by converter",
		}, []string{"converter"}),
		convertFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "convert_failures_total",
			Help:      "Annotations a converter refused, by converter",
		}, []string{"converter"}),
		recordsUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_uploaded_total",
			Help:      "Records sent to the sink",
		}),
		recordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Records skipped as already stored",
		}),
		bindFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bind_failures_total",
			Help:      "Converters left inert after binding a type system",
		}, []string{"converter"}),
		itemDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "item_duration_seconds",
			Help:      "Time to annotate, convert and upload one item",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}
	m.registry.MustRegister(
		m.itemsTotal, m.recordsConverted, m.convertFailures,
		m.recordsUploaded, m.recordsSkipped, m.bindFailures, m.itemDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry is the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ItemDone(ok bool, elapsed time.Duration) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.itemsTotal.WithLabelValues(status).Inc()
	m.itemDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) Converted(converter string) {
	m.recordsConverted.WithLabelValues(converter).Inc()
}

func (m *Metrics) ConvertFailed(converter string) {
	m.convertFailures.WithLabelValues(converter).Inc()
}

func (m *Metrics) Uploaded(sent, skipped int) {
	m.recordsUploaded.Add(float64(sent))
	m.recordsSkipped.Add(float64(skipped))
}

func (m *Metrics) BindFailed(converter string) {
	m.bindFailures.WithLabelValues(converter).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("metrics listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
