// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"
)

var metrics Metrics = defaultNoopMetrics()

// InitializePrometheusMetrics switches the package over to a prometheus-
// backed registry. Call it once during node startup, before serving
// HTTPHandler; LazyLoad* closures created beforehand resolve against
// whatever registry is active the first time they're invoked.
func InitializePrometheusMetrics() {
	metrics = newPromMetrics()
}

// Counter returns (creating on first use) a named counter.
func Counter(name string) CountMeter { return metrics.Counter(name) }

// CounterVec returns a named counter partitioned by labels.
func CounterVec(name string, labels []string) CountVecMeter { return metrics.CounterVec(name, labels) }

// Gauge returns a named gauge.
func Gauge(name string) GaugeMeter { return metrics.Gauge(name) }

// GaugeVec returns a named gauge partitioned by labels.
func GaugeVec(name string, labels []string) GaugeVecMeter { return metrics.GaugeVec(name, labels) }

// Histogram returns a named histogram. buckets of nil uses prometheus's
// default bucket boundaries.
func Histogram(name string, buckets []float64) HistogramMeter { return metrics.Histogram(name, buckets) }

// HistogramVec returns a named histogram partitioned by labels.
func HistogramVec(name string, labels []string, buckets []float64) HistogramVecMeter {
	return metrics.HistogramVec(name, labels, buckets)
}

// HTTPHandler serves the active registry's scrape endpoint at /metrics. In
// the default noop state nothing is registered, so a scrape 404s instead
// of reporting a registry that was never initialized.
func HTTPHandler() http.Handler { return metrics.HTTPHandler() }

// LazyLoadCounter defers Counter(name) to first call, so a package-level
// var declared before InitializePrometheusMetrics still resolves against
// whichever registry is active when it's first used.
func LazyLoadCounter(name string) func() CountMeter {
	var once sync.Once
	var m CountMeter
	return func() CountMeter {
		once.Do(func() { m = Counter(name) })
		return m
	}
}

// LazyLoadCounterVec is LazyLoadCounter for CounterVec.
func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	var once sync.Once
	var m CountVecMeter
	return func() CountVecMeter {
		once.Do(func() { m = CounterVec(name, labels) })
		return m
	}
}

// LazyLoadGauge is LazyLoadCounter for Gauge.
func LazyLoadGauge(name string) func() GaugeMeter {
	var once sync.Once
	var m GaugeMeter
	return func() GaugeMeter {
		once.Do(func() { m = Gauge(name) })
		return m
	}
}

// LazyLoadGaugeVec is LazyLoadCounter for GaugeVec.
func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	var once sync.Once
	var m GaugeVecMeter
	return func() GaugeVecMeter {
		once.Do(func() { m = GaugeVec(name, labels) })
		return m
	}
}

// LazyLoadHistogram is LazyLoadCounter for Histogram.
func LazyLoadHistogram(name string, buckets []float64) func() HistogramMeter {
	var once sync.Once
	var m HistogramMeter
	return func() HistogramMeter {
		once.Do(func() { m = Histogram(name, buckets) })
		return m
	}
}

// LazyLoadHistogramVec is LazyLoadCounter for HistogramVec.
func LazyLoadHistogramVec(name string, labels []string, buckets []float64) func() HistogramVecMeter {
	var once sync.Once
	var m HistogramVecMeter
	return func() HistogramVecMeter {
		once.Do(func() { m = HistogramVec(name, labels, buckets) })
		return m
	}
}
