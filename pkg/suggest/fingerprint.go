// Package suggest implements the candidate aggregation, scoring,
// deduplication and ranking pipeline that turns noisy provider search
// results into a stable top-K suggestion list. The pipeline is fronted by a
// two-tier cache keyed by a fingerprint of the seed set and backed by a
// popularity fallback so callers never see an empty result for a transient
// provider miss.
package suggest

import (
	"sort"
	"strings"

	"SongScout/pkg/music"
)

// Fingerprint derives the cache key for a seed set. Seed titles are
// lower-cased, whitespace-collapsed and sorted before joining, so two
// requests naming the same songs in different order or casing collide on the
// same cache entry.
func Fingerprint(seeds []music.Seed) string {
	names := make([]string, 0, len(seeds))
	for _, s := range seeds {
		name := strings.ToLower(strings.TrimSpace(s.Title))
		name = strings.Join(strings.Fields(name), " ")
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}
