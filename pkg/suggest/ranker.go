// Merging, deduplication and final ranking of per-seed candidate sets.
package suggest

import (
	"sort"

	"SongScout/pkg/music"
)

// DefaultTopK bounds the size of a ranked suggestion list.
const DefaultTopK = 5

// Rank merges the scored candidate lists of all seeds into one ranked,
// deduplicated list of at most k items.
//
// The merge walks lists in input order and drops any candidate whose
// external ID has been seen before, so when the same item is returned for
// two seeds the first seed's score wins. The surviving set is then sorted by
// score descending with a stable sort (ties keep input order), and finally
// near-duplicates returned under different external IDs are removed by
// normalized title, first kept wins.
func Rank(lists [][]Scored, k int) []Scored {
	if k <= 0 {
		k = DefaultTopK
	}
	seenID := make(map[string]struct{})
	var merged []Scored
	for _, list := range lists {
		for _, sc := range list {
			if _, ok := seenID[sc.Candidate.ID]; ok {
				continue
			}
			seenID[sc.Candidate.ID] = struct{}{}
			merged = append(merged, sc)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	seenTitle := make(map[string]struct{})
	ranked := merged[:0]
	for _, sc := range merged {
		key := music.NormalizeTitle(sc.Candidate.Title)
		if _, ok := seenTitle[key]; ok {
			continue
		}
		seenTitle[key] = struct{}{}
		ranked = append(ranked, sc)
		if len(ranked) == k {
			break
		}
	}
	return ranked
}
