package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once templates are parsed and the ledger
// answers a summary request within the ledger timeout.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	checks := map[string]string{"templates": "ok", "ledger": "skipped"}
	status := http.StatusOK
	if s.templates == nil {
		checks["templates"] = "missing"
		status = http.StatusServiceUnavailable
	}
	if s.prober != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		if _, err := s.prober.Summary(ctx); err != nil {
			s.logger.WarnContext(ctx, "Ledger not ready", "error", err)
			checks["ledger"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			checks["ledger"] = "ok"
		}
	}

	NewHTMXResponse().Status(status).BodyJSON(map[string]any{
		"ready":  status == http.StatusOK,
		"loaded": s.store.Loaded(),
		"checks": checks,
	}).Write(w)
}

// handleMetrics prints counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	var b strings.Builder
	gauge := func(name, help string, v any) {
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s gauge\n%s %v\n", name, help, name, name, v)
	}
	counter := func(name, help string, v int64) {
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", name, help, name, name, v)
	}

	tm := s.tracer.GetMetrics()
	counter("fintrack_http_requests_total", "HTTP requests served.", tm.TotalRequests)
	counter("fintrack_http_server_errors_total", "HTTP responses with status 5xx.", tm.ServerErrors)
	gauge("fintrack_http_response_time_avg_us", "Average response time in microseconds.", tm.AverageResponseTime)

	rm := s.limiter.GetMetrics()
	counter("fintrack_rate_limit_hits_total", "Requests rejected by the rate limiter.", rm.TotalHits)
	gauge("fintrack_rate_limit_clients", "Clients tracked by the rate limiter.", rm.ClientCount)
	counter("fintrack_suspicious_requests_total", "Requests matching probing patterns.", s.detect.SuspiciousRequests())

	cs := s.charts.Stats()
	counter("fintrack_chart_cache_hits_total", "Chart dataset cache hits.", cs.Hits)
	counter("fintrack_chart_cache_misses_total", "Chart dataset cache misses.", cs.Misses)
	gauge("fintrack_chart_cache_entries", "Chart datasets currently cached.", cs.Entries)

	m := s.metrics
	counter("fintrack_transactions_created_total", "Transactions created through the UI.", m.created.Load())
	counter("fintrack_transactions_deleted_total", "Transactions deleted through the UI.", m.deleted.Load())
	counter("fintrack_deletes_declined_total", "Delete requests without confirmation.", m.declinedDeletes.Load())
	counter("fintrack_refreshes_total", "Explicit refresh requests.", m.refreshes.Load())
	counter("fintrack_ledger_failures_total", "Failed ledger requests.", m.ledgerFailures.Load())
	counter("fintrack_validation_errors_total", "Rejected create payloads.", m.validationErrors.Load())
	counter("fintrack_exports_total", "Successful exports.", m.exports.Load())
	gauge("fintrack_snapshot_transactions", "Transactions in the current snapshot.", s.store.Len())
	gauge("fintrack_snapshot_version", "Current snapshot version.", s.store.Version())
	gauge("fintrack_uptime_seconds", "Seconds since the server started.", int64(time.Since(m.started).Seconds()))

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}
