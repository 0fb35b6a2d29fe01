package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Metrics holds all pipeline Prometheus metrics. The registry is private
// to the run so independent runs (and tests) never collide.
type Metrics struct {
	registry *prometheus.Registry

	// Ingestion metrics
	BlocksRead    prometheus.Counter
	RecordsParsed prometheus.Counter
	RowsDropped   prometheus.Counter

	// Account metrics
	RecordsApplied  *prometheus.CounterVec
	RecordsRejected *prometheus.CounterVec
	AccountsCreated prometheus.Counter
	AccountsLocked  prometheus.Counter
}

// New creates and registers all pipeline metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		BlocksRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "paytoy_blocks_read_total",
			Help: "Total number of raw input blocks emitted by the reader",
		}),
		RecordsParsed: factory.NewCounter(prometheus.CounterOpts{
			Name: "paytoy_records_parsed_total",
			Help: "Total number of well-formed records parsed",
		}),
		RowsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "paytoy_rows_dropped_total",
			Help: "Total number of malformed rows dropped during parsing",
		}),
		RecordsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paytoy_records_applied_total",
				Help: "Total number of records applied to accounts",
			},
			[]string{"kind"},
		),
		RecordsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paytoy_records_rejected_total",
				Help: "Total number of records rejected by the account state machine",
			},
			[]string{"reason"},
		),
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "paytoy_accounts_created_total",
			Help: "Total number of client accounts created",
		}),
		AccountsLocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "paytoy_accounts_locked_total",
			Help: "Total number of accounts frozen by a chargeback",
		}),
	}
}

// Registry exposes the run's registry, e.g. for scraping in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// LogSummary gathers the registry and logs every non-zero counter at debug
// level. The report on stdout stays machine-readable; operators get the
// run statistics on stderr.
func (m *Metrics) LogSummary(log zerolog.Logger) {
	families, err := m.registry.Gather()
	if err != nil {
		log.Debug().Err(err).Msg("failed to gather run metrics")
		return
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			counter := metric.GetCounter()
			if counter == nil || counter.GetValue() == 0 {
				continue
			}
			ev := log.Debug().Str("metric", family.GetName()).Float64("value", counter.GetValue())
			for _, label := range metric.GetLabel() {
				ev = ev.Str(label.GetName(), label.GetValue())
			}
			ev.Msg("run counter")
		}
	}
}
