// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// noopMeters satisfies every meter interface as a discard and doubles as
// the package's default Metrics registry, so any binary that never calls
// InitializePrometheusMetrics pays nothing for instrumentation.
type noopMeters struct{}

func (*noopMeters) Add(int64)                                  {}
func (*noopMeters) AddWithLabel(int64, map[string]string)      {}
func (*noopMeters) Observe(int64)                               {}
func (*noopMeters) ObserveWithLabels(int64, map[string]string)  {}

func (*noopMeters) Counter(string) CountMeter                   { return &noopMeters{} }
func (*noopMeters) CounterVec(string, []string) CountVecMeter   { return &noopMeters{} }
func (*noopMeters) Gauge(string) GaugeMeter                     { return &noopMeters{} }
func (*noopMeters) GaugeVec(string, []string) GaugeVecMeter     { return &noopMeters{} }
func (*noopMeters) Histogram(string, []float64) HistogramMeter { return &noopMeters{} }
func (*noopMeters) HistogramVec(string, []string, []float64) HistogramVecMeter {
	return &noopMeters{}
}

// HTTPHandler returns an empty mux: nothing is registered on /metrics until
// a real registry takes over, so a request 404s instead of silently
// reporting zero for everything.
func (*noopMeters) HTTPHandler() http.Handler { return http.NewServeMux() }

func defaultNoopMetrics() Metrics { return &noopMeters{} }
