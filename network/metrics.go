package network

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "network"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of sockets established.
	Connects metrics.Counter
	// Number of sockets torn down (errors and explicit disconnects).
	Disconnects metrics.Counter
	// Messages sent, per class.
	MessagesSent metrics.Counter
	// Messages received, per class.
	MessagesReceived metrics.Counter
	// Bytes written to the socket.
	BytesSent metrics.Counter
	// Bytes read from the socket.
	BytesReceived metrics.Counter
	// Pending messages in the send channel, per class.
	QueueDepth metrics.Gauge
	// Channel transitions into the saturated state, per class.
	Saturations metrics.Counter
}

// PrometheusMetrics returns Metrics built using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		Connects: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "connects_total",
			Help:      "Number of sockets established.",
		}, labels).With(labelsAndValues...),
		Disconnects: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "disconnects_total",
			Help:      "Number of sockets torn down.",
		}, labels).With(labelsAndValues...),
		MessagesSent: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "messages_sent_total",
			Help:      "Messages sent, per class.",
		}, append(labels, "class")).With(labelsAndValues...),
		MessagesReceived: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "messages_received_total",
			Help:      "Messages received, per class.",
		}, append(labels, "class")).With(labelsAndValues...),
		BytesSent: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "bytes_sent_total",
			Help:      "Bytes written to the socket.",
		}, labels).With(labelsAndValues...),
		BytesReceived: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "bytes_received_total",
			Help:      "Bytes read from the socket.",
		}, labels).With(labelsAndValues...),
		QueueDepth: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "queue_depth",
			Help:      "Pending messages in the send channel, per class.",
		}, append(labels, "class")).With(labelsAndValues...),
		Saturations: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "saturations_total",
			Help:      "Channel transitions into the saturated state, per class.",
		}, append(labels, "class")).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		Connects:         discard.NewCounter(),
		Disconnects:      discard.NewCounter(),
		MessagesSent:     discard.NewCounter(),
		MessagesReceived: discard.NewCounter(),
		BytesSent:        discard.NewCounter(),
		BytesReceived:    discard.NewCounter(),
		QueueDepth:       discard.NewGauge(),
		Saturations:      discard.NewCounter(),
	}
}
