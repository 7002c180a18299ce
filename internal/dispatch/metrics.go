package dispatch

import (
	"github.com/aegis-sign/governance/internal/action"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 记录 dispatch 的关键指标。
type Metrics struct {
	total    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetrics 构造 Metrics，reg 为空则注册到默认注册器。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "governance",
			Name:      "dispatch_total",
			Help:      "Dispatch calls by action and outcome",
		}, []string{"action", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "governance",
			Name:      "dispatch_latency_ms",
			Help:      "Latency of external client calls in milliseconds",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"action"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "governance",
			Name:      "dispatch_inflight",
			Help:      "Number of dispatch calls outstanding",
		}),
	}
	reg.MustRegister(m.total, m.latency, m.inFlight)
	return m
}

func (m *Metrics) incInFlight() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *Metrics) decInFlight() {
	if m == nil {
		return
	}
	m.inFlight.Dec()
}

func (m *Metrics) observe(tag action.Tag, outcome string, durMs float64) {
	if m == nil {
		return
	}
	label := actionLabel(tag)
	m.total.WithLabelValues(label, outcome).Inc()
	if outcome != outcomeUnknown {
		m.latency.WithLabelValues(label).Observe(durMs)
	}
}

// actionLabel 限制 label 基数，未知 tag 统一记为 unknown。
func actionLabel(tag action.Tag) string {
	if !tag.Known() {
		return "unknown"
	}
	return string(tag)
}
