// Provider wrappers composing cross-cutting behaviour explicitly: a blocking
// rate limiter, a bounded memoizing cache and a fan-out aggregator. Each is a
// named collaborator constructed in cmd/web rather than hidden middleware, so
// tests can exercise them in isolation.
package music

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Throttled enforces a global calls-per-period budget across every fetch that
// passes through it. When the budget is exhausted Wait blocks until a token
// is available or the context is cancelled, so upstream quota exhaustion
// shows up as latency rather than failures.
type Throttled struct {
	Inner   Provider
	Limiter *rate.Limiter
}

// NewThrottled wraps p with a token bucket allowing callsPerMinute sustained
// calls and a burst of the same size.
func NewThrottled(p Provider, callsPerMinute int) *Throttled {
	return &Throttled{
		Inner:   p,
		Limiter: rate.NewLimiter(rate.Limit(float64(callsPerMinute)/60.0), callsPerMinute),
	}
}

// FetchCandidates blocks for budget then delegates to the wrapped provider.
func (t *Throttled) FetchCandidates(ctx context.Context, seed Seed) ([]Candidate, error) {
	if err := t.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.Inner.FetchCandidates(ctx, seed)
}

// Cached memoizes successful fetches keyed by the normalized seed text. The
// cache is bounded: once maxEntries keys are stored the oldest insertion is
// evicted. Failed fetches are not memoized so a transient provider outage
// does not pin an empty result.
type Cached struct {
	Inner      Provider
	MaxEntries int

	mu      sync.Mutex
	entries map[string][]Candidate
	order   []string
}

// NewCached wraps p with a memoizing cache holding at most maxEntries seeds.
func NewCached(p Provider, maxEntries int) *Cached {
	return &Cached{Inner: p, MaxEntries: maxEntries, entries: make(map[string][]Candidate)}
}

func (c *Cached) key(seed Seed) string {
	return NormalizeTitle(seed.Title) + "\x00" + NormalizeTitle(seed.Artist)
}

// FetchCandidates returns the memoized pool when present, otherwise fetches
// and stores it.
func (c *Cached) FetchCandidates(ctx context.Context, seed Seed) ([]Candidate, error) {
	k := c.key(seed)
	c.mu.Lock()
	if cand, ok := c.entries[k]; ok {
		c.mu.Unlock()
		return cand, nil
	}
	c.mu.Unlock()

	cand, err := c.Inner.FetchCandidates(ctx, seed)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if _, ok := c.entries[k]; !ok {
		if len(c.order) >= c.MaxEntries && c.MaxEntries > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.entries[k] = cand
		c.order = append(c.order, k)
	}
	c.mu.Unlock()
	return cand, nil
}

// Multi queries each configured provider for the same seed and merges the
// results, dropping duplicate external IDs. Failure of one provider does not
// hide results from the others; an error is only returned when every
// provider failed.
type Multi struct {
	Providers []Provider
}

// FetchCandidates fans out to all providers concurrently. Results are merged
// in provider order so the combined pool is deterministic regardless of
// which fetch finished first.
func (m Multi) FetchCandidates(ctx context.Context, seed Seed) ([]Candidate, error) {
	if len(m.Providers) == 0 {
		return nil, nil
	}
	type result struct {
		cands []Candidate
		err   error
	}
	results := make([]result, len(m.Providers))
	var wg sync.WaitGroup
	for i, p := range m.Providers {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			cands, err := p.FetchCandidates(ctx, seed)
			results[i] = result{cands: cands, err: err}
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{})
	var merged []Candidate
	var firstErr error
	successes := 0
	for _, r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		successes++
		for _, c := range r.cands {
			if _, ok := seen[c.ID]; !ok {
				seen[c.ID] = struct{}{}
				merged = append(merged, c)
			}
		}
	}
	if successes == 0 && firstErr != nil {
		return nil, firstErr
	}
	return merged, nil
}
