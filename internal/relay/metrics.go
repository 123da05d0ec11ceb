package relay

import "github.com/jaydenbeard/styx-e2e/internal/telemetry"

// TelemetrySink adapts a *telemetry.Telemetry to the Hub's MetricsSink
// interface, keeping this package's only coupling to the concrete
// collector type at this one small shim.
type TelemetrySink struct {
	t *telemetry.Telemetry
}

// NewTelemetrySink wraps t.
func NewTelemetrySink(t *telemetry.Telemetry) TelemetrySink {
	return TelemetrySink{t: t}
}

// RecordConnection implements MetricsSink.
func (s TelemetrySink) RecordConnection(delta int) {
	s.t.RelayConnectionsActive.Add(float64(delta))
}

// RecordRelayed implements MetricsSink.
func (s TelemetrySink) RecordRelayed(outcome string) {
	s.t.RelayFramesRelayed.WithLabelValues(outcome).Inc()
}

// RecordDropped implements MetricsSink.
func (s TelemetrySink) RecordDropped(reason string) {
	s.t.RelayFramesDropped.WithLabelValues(reason).Inc()
}
