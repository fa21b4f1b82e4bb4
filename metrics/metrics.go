// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rejection reasons recorded by VoteRejected
const (
	ReasonCandidateNotFound = "candidate_not_found"
	ReasonUserNotFound      = "user_not_found"
	ReasonAdmin             = "admin"
	ReasonAlreadyVoted      = "already_voted"
)

// Metrics owns a private registry. All methods are no-ops on a nil receiver.
type Metrics struct {
	registry        *prometheus.Registry
	votesCast       prometheus.Counter
	voteRejections  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		votesCast: factory.NewCounter(prometheus.CounterOpts{
			Name: "evote_votes_cast_total",
			Help: "Total number of votes recorded",
		}),
		voteRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evote_vote_rejections_total",
			Help: "Total number of vote submissions rejected, by reason",
		}, []string{"reason"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evote_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) VoteCast() {
	if m == nil {
		return
	}
	m.votesCast.Inc()
}

func (m *Metrics) VoteRejected(reason string) {
	if m == nil {
		return
	}
	m.voteRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}
