/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package eval

import "github.com/prometheus/client_golang/prometheus"

var (
	buildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dyneval",
		Subsystem: "toolchain",
		Name:      "builds_total",
		Help:      "Toolchain invocations by outcome (ok, diagnostic, failure).",
	}, []string{"result"})

	buildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dyneval",
		Subsystem: "toolchain",
		Name:      "build_duration_seconds",
		Help:      "Wall time of toolchain invocations.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	modulesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dyneval",
		Subsystem: "loader",
		Name:      "modules",
		Help:      "Modules mapped into this process.",
	})
)

// PrometheusCollectors returns the metrics of the engine for registration.
func PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{buildsTotal, buildDuration, modulesLoaded}
}
