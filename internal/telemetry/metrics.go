// Package telemetry exposes fetch outcomes as Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "saher"

// Metrics records chart fetch outcomes.
type Metrics struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	loading  prometheus.Gauge
}

// NewMetrics registers the fetch collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		fetches: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chart_fetches_total",
				Help:      "Chart fetch cycles by selection kind and outcome",
			},
			[]string{"kind", "status"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "chart_fetch_duration_seconds",
				Help:      "Duration of chart requests that reached the API",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		loading: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "chart_fetch_in_flight",
				Help:      "1 while a chart request is outstanding",
			},
		),
	}
}

// ObserveFetch records one completed (or skipped) fetch cycle. A zero
// duration means no request was sent and is not added to the histogram.
func (m *Metrics) ObserveFetch(kind, status string, d time.Duration) {
	m.fetches.WithLabelValues(kind, status).Inc()
	if d > 0 {
		m.duration.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// SetLoading mirrors the dashboard's loading flag.
func (m *Metrics) SetLoading(loading bool) {
	if loading {
		m.loading.Set(1)
		return
	}
	m.loading.Set(0)
}

// Handler returns a router serving /metrics from g.
func Handler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
