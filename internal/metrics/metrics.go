// Package metrics provides Prometheus metrics for milestone scans
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for a run. Each instance owns its
// registry, so tests and concurrent pipelines do not collide.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsScanned *prometheus.CounterVec
	ScanDuration     prometheus.Histogram
	MilestonesFound  *prometheus.CounterVec
	YearRefsFound    prometheus.Counter
	CacheLookups     *prometheus.CounterVec
	DocumentBytes    prometheus.Histogram

	StartTime time.Time
}

// New creates and registers all metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		StartTime: time.Now(),
	}

	m.DocumentsScanned = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milestones_documents_scanned_total",
			Help: "Total number of documents scanned",
		},
		[]string{"status"},
	)

	m.ScanDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "milestones_scan_duration_seconds",
			Help:    "Duration of single document scans in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	m.MilestonesFound = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milestones_extracted_total",
			Help: "Total number of milestones extracted, by origin",
		},
		[]string{"origin"},
	)

	m.YearRefsFound = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "milestones_year_refs_total",
			Help: "Total number of bare year references found",
		},
	)

	m.CacheLookups = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milestones_cache_lookups_total",
			Help: "Result cache lookups by outcome",
		},
		[]string{"result"},
	)

	m.DocumentBytes = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "milestones_document_bytes",
			Help:    "Size of scanned documents in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)

	return m
}

// RecordScan records one document scan
func (m *Metrics) RecordScan(duration time.Duration, size int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DocumentsScanned.WithLabelValues(status).Inc()
	if err == nil {
		m.ScanDuration.Observe(duration.Seconds())
		m.DocumentBytes.Observe(float64(size))
	}
}

// RecordMilestones counts milestones by origin
func (m *Metrics) RecordMilestones(origins map[string]int) {
	for origin, n := range origins {
		m.MilestonesFound.WithLabelValues(origin).Add(float64(n))
	}
}

// RecordCache records a cache hit or miss
func (m *Metrics) RecordCache(hit bool) {
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// Registry exposes the gatherer for custom exporters
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteFile writes every metric in the text exposition format, for
// node_exporter's textfile collector
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
