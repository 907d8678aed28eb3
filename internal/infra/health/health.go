package health

import (
	"net/http"
	"sync/atomic"
	"time"
)

var (
	ready     atomic.Bool
	lastRound atomic.Int64 // unix nanos of the last completed analysis round
	staleNs   atomic.Int64
)

// SetReady marks readiness state
func SetReady(v bool) { ready.Store(v) }

// Ready returns current readiness
func Ready() bool { return ready.Load() }

// MarkRound records a completed analysis round.
func MarkRound(t time.Time) { lastRound.Store(t.UnixNano()) }

// SetStaleAfter makes Readyz fail when no round completed within d. Zero disables the check.
func SetStaleAfter(d time.Duration) { staleNs.Store(int64(d)) }

func stale(now time.Time) bool {
	limit := staleNs.Load()
	last := lastRound.Load()
	if limit <= 0 || last == 0 {
		return false
	}
	return now.UnixNano()-last > limit
}

// Healthz is a simple liveness probe
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz fails until the engine is started and while its rounds are stale.
func Readyz(w http.ResponseWriter, r *http.Request) {
	if !Ready() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	if stale(time.Now()) {
		http.Error(w, "analysis stale", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
