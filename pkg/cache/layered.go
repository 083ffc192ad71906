// Layered facade combining the local and KV tiers behind the
// suggest.ResultCache contract.
package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"SongScout/pkg/metrics"
	"SongScout/pkg/suggest"
)

// Layered checks the KV tier first when one is configured, so separate
// process instances share results, and falls back to the local tier
// otherwise. A KV hit is not back-filled into the local tier; the staleness
// window is bounded by the shared TTL either way. Writes go to the local
// tier unconditionally and to the KV tier best-effort.
type Layered struct {
	Local *Memory
	KV    KV
	TTL   time.Duration
	Log   *logrus.Logger
}

// NewLayered builds the facade. kv may be nil for single-process
// deployments.
func NewLayered(local *Memory, kv KV, ttl time.Duration, log *logrus.Logger) *Layered {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Layered{Local: local, KV: kv, TTL: ttl, Log: log}
}

var _ suggest.ResultCache = (*Layered)(nil)

// Get implements suggest.ResultCache. KV errors are logged and swallowed;
// the lookup then proceeds against the local tier as if the KV tier were
// absent.
func (l *Layered) Get(ctx context.Context, key string) ([]suggest.Scored, bool) {
	if l.KV != nil {
		data, ok, err := l.KV.Get(ctx, key)
		switch {
		case err != nil:
			l.Log.WithError(err).Warn("kv cache read failed, falling back to local tier")
		case ok:
			var results []suggest.Scored
			if err := json.Unmarshal(data, &results); err != nil {
				l.Log.WithError(err).Warn("kv cache entry corrupt, ignoring")
			} else {
				metrics.CacheHits.WithLabelValues("kv").Inc()
				return results, true
			}
		}
	}
	if results, ok := l.Local.Get(key); ok {
		metrics.CacheHits.WithLabelValues("memory").Inc()
		return results, true
	}
	return nil, false
}

// Set implements suggest.ResultCache. The local write always happens; the
// KV write is attempted only when a store is configured and its failure is
// logged, never raised.
func (l *Layered) Set(ctx context.Context, key string, results []suggest.Scored) {
	l.Local.Set(key, results)
	if l.KV == nil {
		return
	}
	data, err := json.Marshal(results)
	if err != nil {
		l.Log.WithError(err).Warn("encode cache entry failed")
		return
	}
	if err := l.KV.Set(ctx, key, data, l.TTL); err != nil {
		l.Log.WithError(err).Warn("kv cache write failed")
	}
}
