package batch

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for the bookings counter.
const (
	ResultCalculated = "calculated"
	ResultInvalid    = "invalid"
	ResultFailed     = "failed"
	ResultCancelled  = "cancelled"
)

// Metrics provides observability for batch runs.
type Metrics struct {
	registry *prometheus.Registry

	// Bookings processed by outcome
	Bookings *prometheus.CounterVec

	// Validation messages reported by code
	ValidationMessages *prometheus.CounterVec

	// Duration of one booking's validate-and-calculate run
	BookingLatency prometheus.Histogram

	// Bookings currently being processed
	InFlight prometheus.Gauge
}

// NewMetrics creates the batch metrics on a fresh registry so that several
// runs in one process never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Bookings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rdcalc_batch_bookings_total",
			Help: "Bookings processed by a batch run, by result",
		}, []string{"result"}),

		ValidationMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rdcalc_batch_validation_messages_total",
			Help: "Validation messages reported during a batch run, by code",
		}, []string{"code"}),

		BookingLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rdcalc_batch_booking_duration_seconds",
			Help:    "Duration of validating and calculating one booking",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}),

		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rdcalc_batch_bookings_in_flight",
			Help: "Bookings currently being processed",
		}),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncrementResult records one booking's outcome.
func (m *Metrics) IncrementResult(result string) {
	if m != nil {
		m.Bookings.WithLabelValues(result).Inc()
	}
}

// IncrementMessage records one reported validation message.
func (m *Metrics) IncrementMessage(code string) {
	if m != nil {
		m.ValidationMessages.WithLabelValues(code).Inc()
	}
}

// ObserveLatency records how long one booking took.
func (m *Metrics) ObserveLatency(d time.Duration) {
	if m != nil {
		m.BookingLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) enter() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *Metrics) leave() {
	if m != nil {
		m.InFlight.Dec()
	}
}

// WriteTextfile writes the gathered metrics in the Prometheus text format,
// suitable for the node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
