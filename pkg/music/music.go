// Package music defines the domain types shared by the suggestion pipeline
// and the provider adapters. Implementations can wrap YouTube, Spotify or any
// other search service. By depending on this package the rest of the
// application stays agnostic about the underlying platform.
package music

import (
	"context"
	"strings"
	"unicode"
)

// Seed is a caller supplied liked-song reference used to drive candidate
// retrieval. Artist is optional and, when present, narrows provider searches
// and feeds the artist-match heuristic.
type Seed struct {
	Title  string
	Artist string
}

// Candidate is a single provider result considered for recommendation.
// RawText concatenates title, artist and any description or tags the
// provider exposes; it feeds the text-similarity scoring. A Candidate is
// immutable once the adapter returns it.
type Candidate struct {
	// ID is the provider scoped external identifier (video ID, track ID).
	ID string
	// Title and Artist describe the item. Artist holds the channel name for
	// video providers.
	Title  string
	Artist string
	// RawText is the searchable text blob used for TF-IDF similarity.
	RawText string
	// ViewCount is zero when the provider does not expose play counts.
	ViewCount int64
	// DurationSeconds is zero when unknown; the scorer only applies the
	// minimum-length filter when a duration is present.
	DurationSeconds int
	// Provider names the adapter that produced the candidate.
	Provider string
}

// Provider fetches a bounded pool of candidates for one seed song. Adapters
// signal "no information" either with an error or an empty slice; the
// pipeline treats both the same way and never fails a request because a
// single provider call failed. Authentication, quota handling and retries are
// the adapter's concern and invisible to callers.
type Provider interface {
	FetchCandidates(ctx context.Context, seed Seed) ([]Candidate, error)
}

// NormalizeTitle lower-cases s, strips punctuation and collapses whitespace.
// Two titles that normalize equally are treated as the same song by the
// ranker, the fallback seed filter and the cache fingerprint.
func NormalizeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TitleTokens splits a title into normalized words. Used by the scorer to
// test whether any seed-title token appears in a candidate title.
func TitleTokens(s string) []string {
	return strings.Fields(NormalizeTitle(s))
}
