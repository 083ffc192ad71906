package suggest

import (
	"strings"
	"testing"

	"SongScout/pkg/music"
)

func cand(id, title, artist, raw string) music.Candidate {
	return music.Candidate{ID: id, Title: title, Artist: artist, RawText: raw}
}

// TestScoreDropsDenylistedTitles ensures quality-degrading keywords exclude
// a candidate before scoring.
func TestScoreDropsDenylistedTitles(t *testing.T) {
	s := NewScorer(nil)
	seed := music.Seed{Title: "Shape of You"}
	in := []music.Candidate{
		cand("a", "Shape of You (Karaoke Version)", "X", "karaoke"),
		cand("b", "Shape of You - Live at Wembley", "X", "live"),
		cand("c", "Shape of You", "Ed Sheeran", "Shape of You Ed Sheeran"),
	}
	out := s.Score(seed, "", in)
	if len(out) != 1 || out[0].Candidate.ID != "c" {
		t.Fatalf("expected only candidate c to survive, got %+v", out)
	}
}

// TestScoreDropsShortDurations verifies the minimum-length filter applies
// only when a duration is known.
func TestScoreDropsShortDurations(t *testing.T) {
	s := NewScorer(nil)
	seed := music.Seed{Title: "Song"}
	short := cand("a", "Song teaser", "X", "teaser")
	short.DurationSeconds = 30
	unknown := cand("b", "Song", "X", "song")
	out := s.Score(seed, "", []music.Candidate{short, unknown})
	if len(out) != 1 || out[0].Candidate.ID != "b" {
		t.Fatalf("expected short candidate dropped, got %+v", out)
	}
}

// TestScoreBounds checks every score lies in (0, 4].
func TestScoreBounds(t *testing.T) {
	s := NewScorer(nil)
	seed := music.Seed{Title: "Blinding Lights", Artist: "The Weeknd"}
	huge := cand("a", "Blinding Lights", "The Weeknd", "Blinding Lights The Weeknd official video")
	huge.ViewCount = 3_000_000_000 // view bonus alone would blow past the cap
	plain := cand("b", "Something Else", "Nobody", "unrelated text entirely")
	out := s.Score(seed, "The Weeknd", []music.Candidate{huge, plain})
	if len(out) != 2 {
		t.Fatalf("expected 2 scored candidates, got %d", len(out))
	}
	for _, sc := range out {
		if sc.Score <= 0 || sc.Score > DefaultMaxScore {
			t.Fatalf("score %f out of (0,%f]", sc.Score, DefaultMaxScore)
		}
	}
	if out[0].Score != DefaultMaxScore {
		t.Fatalf("expected capped score %f, got %f", DefaultMaxScore, out[0].Score)
	}
}

// TestScoreHeuristicBonuses verifies the official, title-token and
// artist-match bonuses reward the better candidate.
func TestScoreHeuristicBonuses(t *testing.T) {
	s := NewScorer(nil)
	seed := music.Seed{Title: "Shape of You"}
	official := cand("a", "Shape of You (Official Video)", "Ed Sheeran", "Shape of You official video Ed Sheeran")
	other := cand("b", "Completely Different", "Someone", "different tune")
	out := s.Score(seed, "Ed Sheeran", []music.Candidate{other, official})
	var offScore, otherScore float64
	for _, sc := range out {
		switch sc.Candidate.ID {
		case "a":
			offScore = sc.Score
		case "b":
			otherScore = sc.Score
		}
	}
	if offScore <= otherScore {
		t.Fatalf("official candidate (%f) should outscore unrelated one (%f)", offScore, otherScore)
	}
}

// TestScoreSimilarityFallsBackOnDegenerateCorpus ensures heuristic-only
// scores are produced when the vocabulary is empty.
func TestScoreSimilarityFallsBackOnDegenerateCorpus(t *testing.T) {
	s := NewScorer(nil)
	seed := music.Seed{Title: "!!!"} // normalizes to no tokens
	c := cand("a", "Track", "X", "")
	out := s.Score(seed, "", []music.Candidate{c})
	if len(out) != 1 {
		t.Fatalf("expected 1 scored candidate, got %d", len(out))
	}
	if out[0].Score != 1.0 {
		t.Fatalf("expected heuristic-only base score 1.0, got %f", out[0].Score)
	}
}

// TestScoreSimilarityPrefersCloserText verifies the TF-IDF term lifts the
// candidate whose text matches the seed.
func TestScoreSimilarityPrefersCloserText(t *testing.T) {
	s := NewScorer(nil)
	seed := music.Seed{Title: "midnight city lights"}
	near := cand("a", "Midnight City Lights", "X", "midnight city lights synthwave anthem")
	far := cand("b", "Midnight City Lights", "X", "gardening podcast episode twelve")
	out := s.Score(seed, "", []music.Candidate{far, near})
	var nearScore, farScore float64
	for _, sc := range out {
		if sc.Candidate.ID == "a" {
			nearScore = sc.Score
		} else {
			farScore = sc.Score
		}
	}
	if nearScore <= farScore {
		t.Fatalf("similar text (%f) should outscore dissimilar (%f)", nearScore, farScore)
	}
}

// TestTokenize covers the similarity tokenizer's handling of punctuation.
func TestTokenize(t *testing.T) {
	got := tokenize("Shape of You (Official Video) - Ed Sheeran!")
	want := "shape of you official video ed sheeran"
	if strings.Join(got, " ") != want {
		t.Fatalf("tokenize mismatch: got %q want %q", strings.Join(got, " "), want)
	}
}
