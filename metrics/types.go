// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a thin, mode-switchable instrumentation layer: every
// counter/gauge/histogram call is a no-op until InitializePrometheusMetrics
// is called, at which point the same call sites start feeding a real
// prometheus registry. Packages that only need to bump a counter never
// import prometheus directly.
package metrics

import "net/http"

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(v int64)
}

// CountVecMeter is a counter partitioned by label values.
type CountVecMeter interface {
	AddWithLabel(v int64, labels map[string]string)
}

// GaugeMeter is a value that can move in either direction.
type GaugeMeter interface {
	Add(v int64)
}

// GaugeVecMeter is a gauge partitioned by label values.
type GaugeVecMeter interface {
	AddWithLabel(v int64, labels map[string]string)
}

// HistogramMeter records observations into buckets.
type HistogramMeter interface {
	Observe(v int64)
}

// HistogramVecMeter is a histogram partitioned by label values.
type HistogramVecMeter interface {
	ObserveWithLabels(v int64, labels map[string]string)
}

// Metrics is the registry backing the package-level accessor functions.
// defaultNoopMetrics and newPromMetrics are its two implementations.
type Metrics interface {
	Counter(name string) CountMeter
	CounterVec(name string, labels []string) CountVecMeter
	Gauge(name string) GaugeMeter
	GaugeVec(name string, labels []string) GaugeVecMeter
	Histogram(name string, buckets []float64) HistogramMeter
	HistogramVec(name string, labels []string, buckets []float64) HistogramVecMeter
	HTTPHandler() http.Handler
}
