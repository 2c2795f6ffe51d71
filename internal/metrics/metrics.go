// Package metrics holds the Prometheus instruments of a network.
//
// A nil *Metrics is valid and records nothing, so nodes can be built without
// a registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hamming"

type Metrics struct {
	emitted     prometheus.Counter
	mergeRounds prometheus.Counter
	collapsed   prometheus.Counter
	depth       *prometheus.GaugeVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		emitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "values_emitted_total",
			Help:      "Values handed to the consumer by the sink.",
		}),
		mergeRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_rounds_total",
			Help:      "Completed merge rounds.",
		}),
		collapsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_duplicates_collapsed_total",
			Help:      "Head values dropped because another branch produced the same value in the same round.",
		}),
		depth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "channel_depth",
			Help:      "Values queued in a channel, sampled by its consumer.",
		}, []string{"channel"}),
	}

	for _, c := range []prometheus.Collector{m.emitted, m.mergeRounds, m.collapsed, m.depth} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is like New but panics on error.
func MustNew(reg prometheus.Registerer) *Metrics {
	m, err := New(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) ValueEmitted() {
	if m == nil {
		return
	}
	m.emitted.Inc()
}

// MergeRound records one merge round that drained the given number of heads.
func (m *Metrics) MergeRound(drained int) {
	if m == nil {
		return
	}
	m.mergeRounds.Inc()
	if drained > 1 {
		m.collapsed.Add(float64(drained - 1))
	}
}

func (m *Metrics) ChannelDepth(channel string, depth int) {
	if m == nil {
		return
	}
	m.depth.WithLabelValues(channel).Set(float64(depth))
}
