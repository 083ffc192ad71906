// Heuristic and text-similarity scoring of provider candidates. Filtering
// happens before scoring: denylisted and too-short candidates are dropped
// entirely rather than ranked low, so one noisy provider cannot crowd the
// result list with karaoke versions.
package suggest

import (
	"strings"

	"SongScout/pkg/music"
)

// Scored pairs a candidate with its relevance score. Scores lie in
// (0, MaxScore]; the base heuristic starts at 1 so a surviving candidate is
// never scored zero.
type Scored struct {
	Candidate music.Candidate `json:"candidate"`
	Score     float64         `json:"score"`
}

// Default scoring constants of the reference design.
const (
	DefaultMaxScore         = 4.0
	DefaultSimilarityWeight = 1.5
	DefaultMinDuration      = 60
	defaultBaseScore        = 1.0
	officialBonus           = 0.8
	titleTokenBonus         = 0.5
	artistMatchBonus        = 0.4
	viewBonusPerMillion     = 0.3
	viewBonusFloor          = 100_000
)

// DefaultDenyWords lists quality-degrading keywords. A candidate whose title
// contains any of them is excluded before scoring.
var DefaultDenyWords = []string{
	"live", "cover", "remix", "karaoke", "instrumental",
	"tutorial", "reaction", "lyrics",
}

// Scorer converts the raw candidate pool of a single seed into scored
// candidates. The zero value is not usable; construct with NewScorer.
type Scorer struct {
	denyWords        []string
	minDuration      int
	similarityWeight float64
	maxScore         float64
}

// NewScorer returns a scorer with the reference-design constants. Passing a
// nil denyWords slice selects DefaultDenyWords.
func NewScorer(denyWords []string) *Scorer {
	if denyWords == nil {
		denyWords = DefaultDenyWords
	}
	return &Scorer{
		denyWords:        denyWords,
		minDuration:      DefaultMinDuration,
		similarityWeight: DefaultSimilarityWeight,
		maxScore:         DefaultMaxScore,
	}
}

// admit reports whether a candidate survives the exclusion filters.
func (s *Scorer) admit(c music.Candidate) bool {
	title := strings.ToLower(c.Title)
	for _, w := range s.denyWords {
		if strings.Contains(title, w) {
			return false
		}
	}
	if c.DurationSeconds > 0 && c.DurationSeconds < s.minDuration {
		return false
	}
	return true
}

// Score filters and scores the candidates fetched for seed. resolvedArtist
// is the artist or channel the provider resolved for the seed's top search
// hit; it may be empty when unknown. The returned slice preserves the input
// order of surviving candidates so downstream ranking stays deterministic.
func (s *Scorer) Score(seed music.Seed, resolvedArtist string, candidates []music.Candidate) []Scored {
	surviving := candidates[:0:0]
	for _, c := range candidates {
		if s.admit(c) {
			surviving = append(surviving, c)
		}
	}
	if len(surviving) == 0 {
		return nil
	}

	seedTokens := music.TitleTokens(seed.Title)
	seedText := strings.TrimSpace(seed.Title + " " + seed.Artist)

	// Similarity corpus: seed text first, then each surviving candidate.
	// With fewer than two documents the similarity term is zero and
	// heuristic-only scores are used.
	sims := make([]float64, len(surviving))
	docs := make([]string, 0, len(surviving)+1)
	docs = append(docs, seedText)
	for _, c := range surviving {
		docs = append(docs, c.RawText)
	}
	if len(docs) >= 2 {
		vecs := tfidfVectors(docs)
		if len(vecs[0]) > 0 {
			for i := range surviving {
				sims[i] = cosine(vecs[0], vecs[i+1])
			}
		}
	}

	scored := make([]Scored, 0, len(surviving))
	for i, c := range surviving {
		score := defaultBaseScore
		raw := strings.ToLower(c.RawText)
		if strings.Contains(raw, "official") {
			score += officialBonus
		}
		candTitle := music.NormalizeTitle(c.Title)
		for _, tok := range seedTokens {
			if strings.Contains(candTitle, tok) {
				score += titleTokenBonus
				break
			}
		}
		if resolvedArtist != "" && strings.EqualFold(c.Artist, resolvedArtist) {
			score += artistMatchBonus
		}
		if c.ViewCount > viewBonusFloor {
			score += viewBonusPerMillion * float64(c.ViewCount) / 1_000_000
		}
		score += s.similarityWeight * sims[i]
		if score > s.maxScore {
			score = s.maxScore
		}
		scored = append(scored, Scored{Candidate: c, Score: score})
	}
	return scored
}
