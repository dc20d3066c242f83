package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	pointsStored *prometheus.CounterVec
	fitsTotal    *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastSlope    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		pointsStored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timewise_points_stored_total",
				Help: "Total number of series points written to a backend",
			},
			[]string{"backend", "series"},
		),
		fitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timewise_fits_total",
				Help: "Total number of trend fits computed",
			},
			[]string{"series"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timewise_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastSlope: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "timewise_last_slope",
				Help: "Slope of the most recent fitted trend per series",
			},
			[]string{"series"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "timewise_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPointStored records a point written to a backend.
func (r *Recorder) RecordPointStored(backend, series string) {
	r.pointsStored.WithLabelValues(backend, series).Inc()
}

// RecordFit records a completed trend fit.
func (r *Recorder) RecordFit(series string) {
	r.fitsTotal.WithLabelValues(series).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSlope records the latest fitted slope for a series.
func (r *Recorder) RecordSlope(series string, slope float64) {
	r.lastSlope.WithLabelValues(series).Set(slope)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
