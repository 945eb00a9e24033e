// SPDX-License-Identifier: GPL-3.0

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// DCQCNMetrics holds the per-tick gauges for the Reaction Point /
// Notification Point pipeline: the live-observability counterpart of the
// in-memory history arrays, which still drive the in-process checks.
type DCQCNMetrics struct {
	Rc            prometheus.Gauge
	Alpha         prometheus.Gauge
	InputBuffer   prometheus.Gauge
	OutputBuffer  prometheus.Gauge
	AppRate       prometheus.Gauge
	CNPEventTotal prometheus.Counter
	registry      *prometheus.Registry
}

// NewDCQCNMetrics registers and returns the DCQCN gauges on a fresh registry.
func NewDCQCNMetrics() *DCQCNMetrics {
	reg := prometheus.NewRegistry()
	m := &DCQCNMetrics{
		Rc: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dcqcn_rc_bytes_per_tick",
			Help: "Current Reaction Point transmit rate Rc.",
		}),
		Alpha: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dcqcn_alpha",
			Help: "Smoothed congestion severity estimate, in [0,1].",
		}),
		InputBuffer: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dcqcn_rp_input_buffer_bytes",
			Help: "Reaction Point input buffer occupancy.",
		}),
		OutputBuffer: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dcqcn_np_output_buffer_bytes",
			Help: "Notification Point output buffer occupancy.",
		}),
		AppRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dcqcn_app_rate_bytes_per_tick",
			Help: "Current application-layer arrival rate.",
		}),
		CNPEventTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dcqcn_cnp_events_total",
			Help: "Number of CNP events delivered to the Reaction Point.",
		}),
		registry: reg,
	}
	reg.MustRegister(m.Rc, m.Alpha, m.InputBuffer, m.OutputBuffer, m.AppRate, m.CNPEventTotal)
	return m
}

// Handler returns the promhttp handler for this registry.
func (m *DCQCNMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gather returns the current metric families, for tests that need to
// inspect raw sample values rather than scrape the HTTP handler.
func (m *DCQCNMetrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}

// SchedulerMetrics holds the calendar occupancy histogram and aggregate
// scheduler counters.
type SchedulerMetrics struct {
	Occupancy    prometheus.Histogram
	PacketsSent  prometheus.Counter
	OffsetClamps prometheus.Counter
	registry     *prometheus.Registry
}

// NewSchedulerMetrics registers and returns the scheduler metrics.
// maxBucket bounds the occupancy histogram's linear buckets (one per
// possible concurrent-flow count), since callers want occupancy[k] for
// every observed k, not a handful of quantile buckets.
func NewSchedulerMetrics(maxBucket int) *SchedulerMetrics {
	reg := prometheus.NewRegistry()
	m := &SchedulerMetrics{
		Occupancy: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "calendar_slot_occupancy",
			Help:    "Number of flows found in a calendar slot at each slot-step.",
			Buckets: prometheus.LinearBuckets(0, 1, maxBucket+1),
		}),
		PacketsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calendar_packets_sent_total",
			Help: "Total packet-sends across the run.",
		}),
		OffsetClamps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calendar_offset_clamps_total",
			Help: "Number of times a computed offset was saturated to S-1 in lenient mode.",
		}),
		registry: reg,
	}
	reg.MustRegister(m.Occupancy, m.PacketsSent, m.OffsetClamps)
	return m
}

// Handler returns the promhttp handler for this registry.
func (m *SchedulerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gather returns the current metric families, for tests that need to
// inspect raw sample values (e.g. the occupancy histogram's sum) rather
// than scrape the HTTP handler.
func (m *SchedulerMetrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}
