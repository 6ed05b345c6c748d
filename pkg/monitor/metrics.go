package monitor

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Operation names accepted by CountOp.
const (
	OpInsert  = "insert"
	OpSearch  = "search"
	OpPredict = "predict"
)

// Metrics holds the collectors for index builds, lookups and served trees.
// Each instance owns its registry so several can coexist in one process.
// The read, write and hit totals behind /api/stats are kept here too, next
// to the prometheus counter they mirror.
type Metrics struct {
	Registry *prometheus.Registry

	reads  atomic.Uint64
	writes atomic.Uint64
	hits   atomic.Uint64

	buildDuration   *prometheus.HistogramVec
	predictDuration *prometheus.HistogramVec
	operations      *prometheus.CounterVec
	treeHeight      prometheus.Gauge
	treeItems       prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		buildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "indexbench_build_duration_seconds",
				Help:    "Time to build an index over a dataset",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"dataset", "kind"},
		),
		predictDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "indexbench_predict_duration_seconds",
				Help:    "Latency of a single index lookup",
				Buckets: prometheus.ExponentialBuckets(50e-9, 2, 14),
			},
			[]string{"dataset", "kind"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexbench_tree_operations_total",
				Help: "Operations served against the in-memory tree",
			},
			[]string{"op", "result"},
		),
		treeHeight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "indexbench_tree_height",
				Help: "Number of levels in the served tree",
			},
		),
		treeItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "indexbench_tree_items",
				Help: "Number of items in the served tree",
			},
		),
	}

	m.Registry.MustRegister(m.buildDuration, m.predictDuration, m.operations, m.treeHeight, m.treeItems)
	m.Registry.MustRegister(collectors.NewGoCollector())
	return m
}

func (m *Metrics) ObserveBuild(dataset, kind string, d time.Duration) {
	m.buildDuration.WithLabelValues(dataset, kind).Observe(d.Seconds())
}

// PredictObserver returns the histogram for one dataset/kind pair so hot
// loops skip the label lookup.
func (m *Metrics) PredictObserver(dataset, kind string) prometheus.Observer {
	return m.predictDuration.WithLabelValues(dataset, kind)
}

// CountOp records one served operation. Inserts count as writes; every
// other op is a read, and a read that found its key is a hit.
func (m *Metrics) CountOp(op string, found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	m.operations.WithLabelValues(op, result).Inc()

	if op == OpInsert {
		m.writes.Add(1)
		return
	}
	m.reads.Add(1)
	if found {
		m.hits.Add(1)
	}
}

func (m *Metrics) Reads() uint64  { return m.reads.Load() }
func (m *Metrics) Writes() uint64 { return m.writes.Load() }
func (m *Metrics) Hits() uint64   { return m.hits.Load() }

// ReadWriteRatio is reads per write, or 100 when only reads were served.
func (m *Metrics) ReadWriteRatio() float64 {
	reads, writes := m.Reads(), m.Writes()
	if writes == 0 {
		if reads > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(reads) / float64(writes)
}

// HitRatio is the share of reads that found their key.
func (m *Metrics) HitRatio() float64 {
	reads := m.Reads()
	if reads == 0 {
		return 0
	}
	return float64(m.Hits()) / float64(reads)
}

func (m *Metrics) SetTreeShape(height, items int) {
	m.treeHeight.Set(float64(height))
	m.treeItems.Set(float64(items))
}
