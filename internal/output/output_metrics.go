package output

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tkjaer/regping/internal/shared"
)

// MetricsOutput writes the summaries to a file in the Prometheus text format,
// for pickup by the node_exporter textfile collector.
type MetricsOutput struct {
	filename string
	registry *prometheus.Registry

	latency *prometheus.GaugeVec
	pings   *prometheus.GaugeVec
	errors  *prometheus.GaugeVec
}

func NewMetricsOutput(filename string) *MetricsOutput {
	m := &MetricsOutput{
		filename: filename,
		registry: prometheus.NewRegistry(),
		latency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "regping_latency_seconds",
				Help: "TCP connect latency statistic per endpoint in seconds",
			},
			[]string{"endpoint", "stat"},
		),
		pings: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "regping_pings",
				Help: "Number of connection attempts per endpoint",
			},
			[]string{"endpoint"},
		),
		errors: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "regping_ping_errors",
				Help: "Number of failed connection attempts per endpoint",
			},
			[]string{"endpoint"},
		),
	}

	m.registry.MustRegister(m.latency)
	m.registry.MustRegister(m.pings)
	m.registry.MustRegister(m.errors)

	return m
}

func (m *MetricsOutput) WriteSummaries(summaries map[string]shared.Summary) error {
	m.update(summaries)
	if err := prometheus.WriteToTextfile(m.filename, m.registry); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}

func (m *MetricsOutput) update(summaries map[string]shared.Summary) {
	m.latency.Reset()
	m.pings.Reset()
	m.errors.Reset()

	for name, s := range summaries {
		m.pings.WithLabelValues(name).Set(float64(s.Count))
		m.errors.WithLabelValues(name).Set(float64(s.Errors))

		// Undefined statistics are left out rather than exported as zero
		if !s.HasLatency() {
			continue
		}
		stats := map[string]*shared.Seconds{
			"min":    s.Min,
			"max":    s.Max,
			"mean":   s.Mean,
			"median": s.Median,
			"stdev":  s.Stdev,
		}
		for stat, v := range stats {
			if v != nil {
				m.latency.WithLabelValues(name, stat).Set(v.Duration().Seconds())
			}
		}
	}
}

func (m *MetricsOutput) Close() error {
	return nil
}
