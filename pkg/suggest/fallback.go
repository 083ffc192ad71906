// Popularity fallback used when the primary pipeline yields nothing. The
// selector never echoes back a song the user already named, and it prefers
// items above a high popularity threshold so the one suggestion it makes is
// at least broadly liked.
package suggest

import (
	"context"
	"math/rand"

	"SongScout/pkg/music"
)

// Catalog supplies a bounded popularity-ranked candidate pool, e.g. the
// YouTube most-popular music chart.
type Catalog interface {
	TopCharts(ctx context.Context) ([]music.Candidate, error)
}

// Fallback selection constants of the reference design.
const (
	fallbackScore         = 1.0
	fallbackViewThreshold = 100_000_000
)

// Fallback picks a single suggestion from a popularity catalog. Rand may be
// seeded deterministically in tests; a nil Rand uses the global source.
type Fallback struct {
	Catalog Catalog
	Rand    *rand.Rand
}

func (f *Fallback) intn(n int) int {
	if f.Rand != nil {
		return f.Rand.Intn(n)
	}
	return rand.Intn(n)
}

// Pick returns one neutral-scored suggestion drawn from the catalog,
// excluding any item whose normalized title matches an input seed. Items
// above the popularity threshold are preferred; when none clears it the
// choice falls back to the whole filtered pool. A catalog failure or an
// exhausted pool yields an empty result, which the caller surfaces as the
// terminal "nothing could be produced" condition.
func (f *Fallback) Pick(ctx context.Context, seeds []music.Seed) []Scored {
	if f.Catalog == nil {
		return nil
	}
	items, err := f.Catalog.TopCharts(ctx)
	if err != nil || len(items) == 0 {
		return nil
	}

	seedTitles := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		seedTitles[music.NormalizeTitle(s.Title)] = struct{}{}
	}
	var pool, popular []music.Candidate
	for _, c := range items {
		if _, ok := seedTitles[music.NormalizeTitle(c.Title)]; ok {
			continue
		}
		pool = append(pool, c)
		if c.ViewCount > fallbackViewThreshold {
			popular = append(popular, c)
		}
	}
	if len(popular) > 0 {
		pool = popular
	}
	if len(pool) == 0 {
		return nil
	}
	chosen := pool[f.intn(len(pool))]
	return []Scored{{Candidate: chosen, Score: fallbackScore}}
}
