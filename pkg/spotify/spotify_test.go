package spotify

import (
	"context"
	"errors"
	"testing"

	"github.com/zmb3/spotify"

	"SongScout/pkg/music"
)

// fakeSearcher serves canned Spotify responses.
type fakeSearcher struct {
	searchResult *spotify.SearchResult
	searchErr    error
	recs         *spotify.Recommendations
	recsErr      error
}

func (f *fakeSearcher) Search(string, spotify.SearchType) (*spotify.SearchResult, error) {
	return f.searchResult, f.searchErr
}

func (f *fakeSearcher) GetRecommendations(spotify.Seeds, *spotify.TrackAttributes, *spotify.Options) (*spotify.Recommendations, error) {
	return f.recs, f.recsErr
}

func fullTrack(id, name, artist string, popularity, durationMS int) spotify.FullTrack {
	return spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			ID:       spotify.ID(id),
			Name:     name,
			Artists:  []spotify.SimpleArtist{{Name: artist}},
			Duration: durationMS,
		},
		Popularity: popularity,
	}
}

// TestFetchCandidatesMergesSearchAndRecommendations verifies the pool
// contains the search hits first, then recommendation tracks, without
// duplicate IDs.
func TestFetchCandidatesMergesSearchAndRecommendations(t *testing.T) {
	f := &fakeSearcher{
		searchResult: &spotify.SearchResult{
			Tracks: &spotify.FullTrackPage{Tracks: []spotify.FullTrack{
				fullTrack("hit", "Seed Song", "Artist", 80, 210_000),
			}},
		},
		recs: &spotify.Recommendations{Tracks: []spotify.SimpleTrack{
			{ID: "rec", Name: "Similar Song", Artists: []spotify.SimpleArtist{{Name: "Other"}}, Duration: 195_000},
			{ID: "hit", Name: "Seed Song", Artists: []spotify.SimpleArtist{{Name: "Artist"}}},
		}},
	}
	c := NewWithSearcher(f)
	cands, err := c.FetchCandidates(context.Background(), music.Seed{Title: "Seed Song"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 2 || cands[0].ID != "hit" || cands[1].ID != "rec" {
		t.Fatalf("unexpected pool: %+v", cands)
	}
	if cands[0].DurationSeconds != 210 {
		t.Fatalf("duration not converted to seconds: %+v", cands[0])
	}
	// Popularity 80 projects to 160M on the view-count scale.
	if cands[0].ViewCount != 160_000_000 {
		t.Fatalf("popularity projection wrong: %d", cands[0].ViewCount)
	}
}

// TestFetchCandidatesRecommendationFailureTolerated verifies the search
// hits remain usable when the expansion call fails.
func TestFetchCandidatesRecommendationFailureTolerated(t *testing.T) {
	f := &fakeSearcher{
		searchResult: &spotify.SearchResult{
			Tracks: &spotify.FullTrackPage{Tracks: []spotify.FullTrack{
				fullTrack("hit", "Seed Song", "Artist", 10, 180_000),
			}},
		},
		recsErr: errors.New("rate limited"),
	}
	c := NewWithSearcher(f)
	cands, err := c.FetchCandidates(context.Background(), music.Seed{Title: "Seed Song"})
	if err != nil || len(cands) != 1 {
		t.Fatalf("expected search hits despite failed expansion, got %v %v", cands, err)
	}
}

// TestFetchCandidatesNoHits verifies an empty search reads as "no
// information".
func TestFetchCandidatesNoHits(t *testing.T) {
	f := &fakeSearcher{searchResult: &spotify.SearchResult{}}
	c := NewWithSearcher(f)
	cands, err := c.FetchCandidates(context.Background(), music.Seed{Title: "x"})
	if err != nil || cands != nil {
		t.Fatalf("expected empty pool, got %v %v", cands, err)
	}
}

// TestFetchCandidatesSearchError verifies search failures surface as
// errors for the pipeline to swallow.
func TestFetchCandidatesSearchError(t *testing.T) {
	f := &fakeSearcher{searchErr: errors.New("upstream error")}
	c := NewWithSearcher(f)
	if _, err := c.FetchCandidates(context.Background(), music.Seed{Title: "x"}); err == nil {
		t.Fatal("expected error")
	}
}
