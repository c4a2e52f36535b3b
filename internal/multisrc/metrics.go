// SPDX-License-Identifier: MPL-2.0

package multisrc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	fallbacks *prometheus.CounterVec
	documents *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "multisrc_fallback_resolutions_total",
			Help: "Documents resolved to an extra source root.",
		}, []string{"root"}),
		documents: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "multisrc_shadow_documents",
			Help: "Documents found under each extra source root by the last scan.",
		}, []string{"root"}),
	}
}

// The methods accept a nil receiver so environments built without an
// application record nothing.

func (m *metrics) fallback(root string) {
	if m != nil {
		m.fallbacks.WithLabelValues(root).Inc()
	}
}

func (m *metrics) shadowDocs(root string, n int) {
	if m != nil {
		m.documents.WithLabelValues(root).Set(float64(n))
	}
}
