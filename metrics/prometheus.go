// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "takamaka_node"

type promCountMeter struct{ c prometheus.Counter }

func (m *promCountMeter) Add(v int64) { m.c.Add(float64(v)) }

type promCountVecMeter struct{ v *prometheus.CounterVec }

func (m *promCountVecMeter) AddWithLabel(v int64, labels map[string]string) {
	m.v.With(prometheus.Labels(labels)).Add(float64(v))
}

type promGaugeMeter struct{ g prometheus.Gauge }

func (m *promGaugeMeter) Add(v int64) { m.g.Add(float64(v)) }

type promGaugeVecMeter struct{ v *prometheus.GaugeVec }

func (m *promGaugeVecMeter) AddWithLabel(v int64, labels map[string]string) {
	m.v.With(prometheus.Labels(labels)).Add(float64(v))
}

type promHistogramMeter struct{ h prometheus.Histogram }

func (m *promHistogramMeter) Observe(v int64) { m.h.Observe(float64(v)) }

type promHistogramVecMeter struct{ v *prometheus.HistogramVec }

func (m *promHistogramVecMeter) ObserveWithLabels(v int64, labels map[string]string) {
	m.v.With(prometheus.Labels(labels)).Observe(float64(v))
}

// promMetrics is the prometheus-backed Metrics registry. Each accessor
// registers its collector with promauto's default registerer on first use
// and caches it by name so repeated lookups (e.g. the LazyLoad* closures)
// don't re-register.
type promMetrics struct {
	mu          sync.Mutex
	counters    map[string]*promCountMeter
	counterVecs map[string]*promCountVecMeter
	gauges      map[string]*promGaugeMeter
	gaugeVecs   map[string]*promGaugeVecMeter
	hists       map[string]*promHistogramMeter
	histVecs    map[string]*promHistogramVecMeter
}

func newPromMetrics() *promMetrics {
	return &promMetrics{
		counters:    make(map[string]*promCountMeter),
		counterVecs: make(map[string]*promCountVecMeter),
		gauges:      make(map[string]*promGaugeMeter),
		gaugeVecs:   make(map[string]*promGaugeVecMeter),
		hists:       make(map[string]*promHistogramMeter),
		histVecs:    make(map[string]*promHistogramVecMeter),
	}
}

func (m *promMetrics) Counter(name string) CountMeter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.counters[name]; ok {
		return c
	}
	c := &promCountMeter{c: promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})}
	m.counters[name] = c
	return c
}

func (m *promMetrics) CounterVec(name string, labels []string) CountVecMeter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.counterVecs[name]; ok {
		return c
	}
	c := &promCountVecMeter{v: promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)}
	m.counterVecs[name] = c
	return c
}

func (m *promMetrics) Gauge(name string) GaugeMeter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.gauges[name]; ok {
		return g
	}
	g := &promGaugeMeter{g: promauto.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})}
	m.gauges[name] = g
	return g
}

func (m *promMetrics) GaugeVec(name string, labels []string) GaugeVecMeter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.gaugeVecs[name]; ok {
		return g
	}
	g := &promGaugeVecMeter{v: promauto.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)}
	m.gaugeVecs[name] = g
	return g
}

func (m *promMetrics) Histogram(name string, buckets []float64) HistogramMeter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.hists[name]; ok {
		return h
	}
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	h := &promHistogramMeter{h: promauto.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: buckets})}
	m.hists[name] = h
	return h
}

func (m *promMetrics) HistogramVec(name string, labels []string, buckets []float64) HistogramVecMeter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.histVecs[name]; ok {
		return h
	}
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	h := &promHistogramVecMeter{v: promauto.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: buckets}, labels)}
	m.histVecs[name] = h
	return h
}

func (m *promMetrics) HTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
