// Package metrics holds the Prometheus instruments shared by the HTTP layer
// and the document accessor.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	DocumentMutations *prometheus.CounterVec
	SignIns           *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the instruments on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dejapp",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dejapp",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		DocumentMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dejapp",
			Name:      "document_mutations_total",
			Help:      "Document create/update/delete calls by outcome.",
		}, []string{"op", "result"}),
		SignIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dejapp",
			Name:      "sign_ins_total",
			Help:      "Sign-in attempts by outcome.",
		}, []string{"result"}),
		gatherer: reg,
	}
	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.DocumentMutations, m.SignIns)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Mutation counts one document mutation. m may be nil.
func (m *Metrics) Mutation(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.DocumentMutations.WithLabelValues(op, result).Inc()
}

// SignIn counts one sign-in attempt. m may be nil.
func (m *Metrics) SignIn(result string) {
	if m == nil {
		return
	}
	m.SignIns.WithLabelValues(result).Inc()
}
