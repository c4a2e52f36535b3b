// SPDX-License-Identifier: MPL-2.0

package build

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type buildMetrics struct {
	found   prometheus.Gauge
	read    prometheus.Counter
	written prometheus.Counter
	removed prometheus.Counter
}

func newBuildMetrics(reg prometheus.Registerer) *buildMetrics {
	f := promauto.With(reg)
	return &buildMetrics{
		found: f.NewGauge(prometheus.GaugeOpts{
			Name: "multisrc_documents_found",
			Help: "Documents discovered across all source roots by the last scan.",
		}),
		read: f.NewCounter(prometheus.CounterOpts{
			Name: "multisrc_documents_read_total",
			Help: "Source documents read and parsed.",
		}),
		written: f.NewCounter(prometheus.CounterOpts{
			Name: "multisrc_documents_written_total",
			Help: "HTML pages written.",
		}),
		removed: f.NewCounter(prometheus.CounterOpts{
			Name: "multisrc_documents_removed_total",
			Help: "Documents dropped because their source disappeared.",
		}),
	}
}
