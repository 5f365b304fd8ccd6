package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"radioclub/internal/adapters/http/perf"
)

// DefaultSlowRequest is the latency above which a request is logged at WARN.
const DefaultSlowRequest = 200 * time.Millisecond

// SlowRequestThreshold reads RADIOCLUB_SLOW_REQUEST_MS, falling back to DefaultSlowRequest.
func SlowRequestThreshold() time.Duration {
	if n, err := strconv.Atoi(os.Getenv("RADIOCLUB_SLOW_REQUEST_MS")); err == nil && n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return DefaultSlowRequest
}

// statusRecorder remembers the first status written.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

// Timing logs each request's latency and feeds collector when it is non-nil.
// Browsers' favicon probes are passed through unlogged.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	threshold := SlowRequestThreshold()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/favicon.ico" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			level, event := slog.LevelDebug, "request"
			if elapsed >= threshold {
				level, event = slog.LevelWarn, "slow_request"
			}
			slog.Log(r.Context(), level, event,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"ip", ClientIP(r),
				"duration_ms", float64(elapsed.Microseconds())/1000,
			)

			if collector != nil {
				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Path:       r.Method + " " + r.URL.Path,
					StatusCode: rec.status,
					DurationMs: float64(elapsed.Microseconds()) / 1000,
					Timestamp:  start,
				})
			}
		})
	}
}
