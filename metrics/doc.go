// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus counters and histograms for the API.

	m := metrics.New()
	mux.Handle("GET /metrics", m.Handler())

# Series

  - evote_votes_cast_total: votes recorded
  - evote_vote_rejections_total{reason}: rejected submissions
  - evote_http_request_duration_seconds{method,route,code}: request latency

Go runtime and process collectors are registered as well. A nil *Metrics is
valid and records nothing, which keeps tests free of registry setup.
*/
package metrics
