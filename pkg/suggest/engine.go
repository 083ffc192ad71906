// Engine orchestration: cache short-circuit, parallel per-seed fetches,
// scoring, ranking, fallback and cache write-through.
package suggest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"SongScout/pkg/metrics"
	"SongScout/pkg/music"
)

// ErrNoSeeds is returned when a request carries an empty seed list. It is
// the only error the engine surfaces; every upstream failure degrades to
// fewer candidates or the fallback instead.
var ErrNoSeeds = errors.New("suggest: no seed songs provided")

// ResultCache is the two-tier cache consumed by the engine. Get reports a
// miss with ok=false; Set is best-effort and never fails the pipeline.
// pkg/cache provides the layered implementation.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]Scored, bool)
	Set(ctx context.Context, key string, results []Scored)
}

// Engine runs the suggestion pipeline. All collaborators are injected so
// tests can use stub providers, catalogs and caches.
type Engine struct {
	Provider music.Provider
	Scorer   *Scorer
	Fallback *Fallback
	Cache    ResultCache
	Log      *logrus.Logger

	// TopK bounds the result list; zero selects DefaultTopK.
	TopK int
	// FetchTimeout bounds each per-seed provider call. A timed-out fetch
	// counts as "no information" for that seed only.
	FetchTimeout time.Duration
	// ProviderName labels provider metrics.
	ProviderName string
}

const defaultFetchTimeout = 5 * time.Second

func (e *Engine) log() *logrus.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logrus.StandardLogger()
}

// Suggest returns a ranked, deduplicated suggestion list for the seed set.
// An empty list with a nil error means both the primary pipeline and the
// fallback produced nothing. Two concurrent calls for the same fingerprint
// may both run the pipeline; the operation is idempotent so the duplicate
// work is accepted.
func (e *Engine) Suggest(ctx context.Context, seeds []music.Seed) ([]Scored, error) {
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}
	start := time.Now()
	defer func() { metrics.SuggestDuration.Observe(time.Since(start).Seconds()) }()

	fp := Fingerprint(seeds)
	if e.Cache != nil {
		if cached, ok := e.Cache.Get(ctx, fp); ok {
			return cached, nil
		}
		metrics.CacheMisses.Inc()
	}

	pools := e.fetchAll(ctx, seeds)

	// Seeds are scored and merged in input order even though the fetches
	// ran concurrently, so first-seen duplicate suppression is
	// reproducible across retries of the same request.
	lists := make([][]Scored, 0, len(seeds))
	for i, seed := range seeds {
		cands := pools[i]
		if len(cands) == 0 {
			continue
		}
		resolved := seed.Artist
		if resolved == "" {
			resolved = cands[0].Artist
		}
		lists = append(lists, e.Scorer.Score(seed, resolved, cands))
	}
	ranked := Rank(lists, e.TopK)

	if len(ranked) == 0 && e.Fallback != nil {
		ranked = e.Fallback.Pick(ctx, seeds)
		if len(ranked) > 0 {
			metrics.FallbackServed.Inc()
		}
	}
	if len(ranked) > 0 && e.Cache != nil {
		e.Cache.Set(ctx, fp, ranked)
	}
	return ranked, nil
}

// fetchAll runs one provider call per seed concurrently and returns the
// candidate pools indexed by seed position. Failures and timeouts are logged
// and recorded as empty pools, never propagated.
func (e *Engine) fetchAll(ctx context.Context, seeds []music.Seed) [][]music.Candidate {
	timeout := e.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	pools := make([][]music.Candidate, len(seeds))
	var wg sync.WaitGroup
	for i, seed := range seeds {
		i, seed := i, seed
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			metrics.ProviderCalls.WithLabelValues(e.ProviderName).Inc()
			cands, err := e.Provider.FetchCandidates(fetchCtx, seed)
			if err != nil {
				metrics.ProviderFailures.WithLabelValues(e.ProviderName).Inc()
				e.log().WithFields(logrus.Fields{
					"seed":  seed.Title,
					"error": err,
				}).Debug("candidate fetch failed, treating as empty")
				return
			}
			pools[i] = cands
		}()
	}
	wg.Wait()
	return pools
}
