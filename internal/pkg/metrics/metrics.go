package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "georesolver_resolutions_total",
		Help: "Completed resolutions by winning stage",
	}, []string{"stage"})
	ResolutionDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "georesolver_resolution_duration_ms",
		Help:    "Full pipeline duration in milliseconds",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "georesolver_upstream_requests_total",
		Help: "Upstream requests by source and outcome",
	}, []string{"source", "outcome"})
	UpstreamDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "georesolver_upstream_duration_ms",
		Help:    "Upstream request duration in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"source"})
	RegistryHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georesolver_registry_hits_total",
		Help: "Completed result cache hits",
	})
	RegistryJoinsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georesolver_registry_joins_total",
		Help: "Requests that joined an in-flight computation",
	})
	RegistryMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georesolver_registry_misses_total",
		Help: "Requests that started a new computation",
	})
	RegistryInvalidationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georesolver_registry_invalidated_entries_total",
		Help: "Entries removed by point invalidation",
	})
)

func init() {
	prometheus.MustRegister(ResolutionsTotal)
	prometheus.MustRegister(ResolutionDurationMs)
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamDurationMs)
	prometheus.MustRegister(RegistryHitsTotal)
	prometheus.MustRegister(RegistryJoinsTotal)
	prometheus.MustRegister(RegistryMissesTotal)
	prometheus.MustRegister(RegistryInvalidationsTotal)
}

// ObserveUpstream фиксирует исход и длительность запроса к внешнему источнику
func ObserveUpstream(source string, ms float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "fail"
	}
	UpstreamRequestsTotal.WithLabelValues(source, outcome).Inc()
	UpstreamDurationMs.WithLabelValues(source).Observe(ms)
}

// Handler отдаёт зарегистрированные метрики для /metrics
func Handler() http.Handler { return promhttp.Handler() }
