package spwmetrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// -------------------------------------------------------------------------
// Prometheus Metric Constants
// -------------------------------------------------------------------------

const (
	namespace = "gospeedwire"
	subsystem = "client"
)

// Label names for Speedwire metrics.
const (
	labelDevice = "device"
	labelOpcode = "opcode"
	labelObisID = "obis_id"
)

// -------------------------------------------------------------------------
// Collector — Prometheus Speedwire Metrics
// -------------------------------------------------------------------------

// Collector holds all Speedwire Prometheus metrics.
//
//   - Datagram counters track TX/RX/drop volumes per device.
//   - RequestDuration tracks round-trip latency per opcode.
//   - LoginFailures flags devices rejecting credentials.
//   - FragmentsReassembled tracks GetDayData multi-fragment traffic.
//   - ObisValues is a live gauge of the last broadcast energy-meter reading,
//     labeled per OBIS id so a scrape returns a full snapshot.
type Collector struct {
	// DatagramsSent counts outbound Speedwire datagrams per device.
	DatagramsSent *prometheus.CounterVec

	// DatagramsReceived counts inbound Speedwire datagrams per device.
	DatagramsReceived *prometheus.CounterVec

	// DatagramsDropped counts inbound datagrams discarded during decode
	// (unsupported protocol tag, malformed frame, unmatched source) per
	// device.
	DatagramsDropped *prometheus.CounterVec

	// RequestDuration observes request/response latency per device and
	// opcode, for Identify/Login/Logout/GetDayData round trips.
	RequestDuration *prometheus.HistogramVec

	// LoginFailures counts Login requests rejected by a device.
	LoginFailures *prometheus.CounterVec

	// FragmentsReassembled counts GetDayData fragments folded into a
	// completed response, per device.
	FragmentsReassembled *prometheus.CounterVec

	// ObisValues holds the most recent energy-meter OBIS reading per
	// device and OBIS id.
	ObisValues *prometheus.GaugeVec
}

// NewCollector creates a Collector with all Speedwire metrics registered
// against the provided prometheus.Registerer. If reg is nil,
// prometheus.DefaultRegisterer is used.
//
// All metrics are created with the "gospeedwire_client_" prefix
// (namespace_subsystem) to avoid collisions with other exporters.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.DatagramsSent,
		c.DatagramsReceived,
		c.DatagramsDropped,
		c.RequestDuration,
		c.LoginFailures,
		c.FragmentsReassembled,
		c.ObisValues,
	)

	return c
}

// newMetrics creates all Prometheus metric vectors without registering them.
func newMetrics() *Collector {
	deviceLabels := []string{labelDevice}
	opcodeLabels := []string{labelDevice, labelOpcode}
	obisLabels := []string{labelDevice, labelObisID}

	return &Collector{
		DatagramsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "datagrams_sent_total",
			Help:      "Total Speedwire datagrams transmitted.",
		}, deviceLabels),

		DatagramsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "datagrams_received_total",
			Help:      "Total Speedwire datagrams received.",
		}, deviceLabels),

		DatagramsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "datagrams_dropped_total",
			Help:      "Total inbound datagrams discarded during decode or source filtering.",
		}, deviceLabels),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of request/response operations.",
			Buckets:   prometheus.DefBuckets,
		}, opcodeLabels),

		LoginFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "login_failures_total",
			Help:      "Total Login requests rejected by a device.",
		}, deviceLabels),

		FragmentsReassembled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "getdaydata_fragments_total",
			Help:      "Total GetDayData fragments folded into a completed response.",
		}, deviceLabels),

		ObisValues: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "obis_value",
			Help:      "Most recent energy-meter OBIS reading.",
		}, obisLabels),
	}
}

// -------------------------------------------------------------------------
// Datagram Counters
// -------------------------------------------------------------------------

// IncDatagramsSent increments the transmitted datagram counter for device.
func (c *Collector) IncDatagramsSent(device string) {
	c.DatagramsSent.WithLabelValues(device).Inc()
}

// IncDatagramsReceived increments the received datagram counter for device.
func (c *Collector) IncDatagramsReceived(device string) {
	c.DatagramsReceived.WithLabelValues(device).Inc()
}

// IncDatagramsDropped increments the dropped datagram counter for device.
func (c *Collector) IncDatagramsDropped(device string) {
	c.DatagramsDropped.WithLabelValues(device).Inc()
}

// -------------------------------------------------------------------------
// Request Latency
// -------------------------------------------------------------------------

// ObserveRequestDuration records the latency of a completed opcode request
// against device, in seconds.
func (c *Collector) ObserveRequestDuration(device, opcode string, seconds float64) {
	c.RequestDuration.WithLabelValues(device, opcode).Observe(seconds)
}

// -------------------------------------------------------------------------
// Login
// -------------------------------------------------------------------------

// IncLoginFailures increments the login failure counter for device.
func (c *Collector) IncLoginFailures(device string) {
	c.LoginFailures.WithLabelValues(device).Inc()
}

// -------------------------------------------------------------------------
// GetDayData
// -------------------------------------------------------------------------

// IncFragmentsReassembled increments the fragment counter for device by n.
func (c *Collector) IncFragmentsReassembled(device string, n int) {
	c.FragmentsReassembled.WithLabelValues(device).Add(float64(n))
}

// -------------------------------------------------------------------------
// Energy Meter
// -------------------------------------------------------------------------

// SetObisValue records the latest OBIS reading for device and obisID.
func (c *Collector) SetObisValue(device string, obisID uint32, value float64) {
	c.ObisValues.WithLabelValues(device, strconv.FormatUint(uint64(obisID), 16)).Set(value)
}
