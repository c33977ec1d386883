package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

// Metrics stores application counters
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	AnalysesTotal      uint64
	AnalysesRemote     uint64
	AnalysesFallback   uint64
	ClassifierFailures uint64
	AlertsRaised       uint64
	StartTime          time.Time
}

// NewMetrics returns zeroed counters starting now.
func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// ObserveAnalysis counts one completed analysis. failureKind is non-empty when the
// remote classifier failed and the heuristic answered instead.
func (m *Metrics) ObserveAnalysis(source analysis.Source, failureKind string) {
	atomic.AddUint64(&m.AnalysesTotal, 1)
	if source == analysis.SourceRemoteModel {
		atomic.AddUint64(&m.AnalysesRemote, 1)
	} else {
		atomic.AddUint64(&m.AnalysesFallback, 1)
	}
	if failureKind != "" {
		atomic.AddUint64(&m.ClassifierFailures, 1)
	}
}

// ObserveAlert counts one raised crisis alert.
func (m *Metrics) ObserveAlert() {
	atomic.AddUint64(&m.AlertsRaised, 1)
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&m.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&m.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&m.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&m.RequestsFailed),
		"analyses_total":       atomic.LoadUint64(&m.AnalysesTotal),
		"analyses_remote":      atomic.LoadUint64(&m.AnalysesRemote),
		"analyses_fallback":    atomic.LoadUint64(&m.AnalysesFallback),
		"classifier_failures":  atomic.LoadUint64(&m.ClassifierFailures),
		"alerts_raised":        atomic.LoadUint64(&m.AlertsRaised),
		"uptime_seconds":       time.Since(m.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       ms.Alloc,
			"total_alloc_bytes": ms.TotalAlloc,
			"sys_bytes":         ms.Sys,
			"num_gc":            ms.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&m.RequestsTotal, 1)
		atomic.AddUint64(&m.RequestsInProgress, 1)
		defer atomic.AddUint64(&m.RequestsInProgress, ^uint64(0))

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&m.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&m.RequestsFailed, 1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m.Snapshot())
}
