// Package metrics exposes build and reload metrics for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sidebar"

// Build results.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultDisabled = "disabled"
)

// Recorder is what the reloader reports to.
type Recorder interface {
	BuildFinished(locale, result string)
	SidebarSize(locale string, groups, links int)
	ReloadDuration(d time.Duration)
}

// Metrics holds the collectors registered on one registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	builds  *prometheus.CounterVec
	groups  *prometheus.GaugeVec
	links   *prometheus.GaugeVec
	reloads prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Sidebar builds per locale and result.",
		}, []string{"locale", "result"}),
		groups: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Number of sidebar groups in the published configuration.",
		}, []string{"locale"}),
		links: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "links",
			Help:      "Number of sidebar links in the published configuration.",
		}, []string{"locale"}),
		reloads: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reload_duration_seconds",
			Help:      "Duration of a full reload of all locales.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}

	reg.MustRegister(m.builds, m.groups, m.links, m.reloads)
	return m
}

func (m *Metrics) BuildFinished(locale, result string) {
	m.builds.WithLabelValues(locale, result).Inc()
}

func (m *Metrics) SidebarSize(locale string, groups, links int) {
	m.groups.WithLabelValues(locale).Set(float64(groups))
	m.links.WithLabelValues(locale).Set(float64(links))
}

func (m *Metrics) ReloadDuration(d time.Duration) {
	m.reloads.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) BuildFinished(string, string) {}
func (Nop) SidebarSize(string, int, int) {}
func (Nop) ReloadDuration(time.Duration) {}
