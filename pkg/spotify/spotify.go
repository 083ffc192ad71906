// Package spotify implements the candidate provider interface on top of the
// official Spotify client library. Authentication uses the client
// credentials flow so the catalog can be searched without a user login. A
// fetch searches for the seed track and expands the top hit through
// Spotify's recommendation endpoint, mirroring the search-plus-related shape
// of the YouTube adapter.
//
// The wrapped library does not accept a context so cancellation is checked
// explicitly before each call.
package spotify

import (
	"context"
	"strings"

	"github.com/zmb3/spotify"
	"golang.org/x/oauth2/clientcredentials"

	"SongScout/pkg/music"
)

const providerName = "spotify"

// searcher defines the subset of the spotify.Client used by this package.
// It allows the concrete client to be replaced in tests.
type searcher interface {
	Search(query string, t spotify.SearchType) (*spotify.SearchResult, error)
	GetRecommendations(seeds spotify.Seeds, attrs *spotify.TrackAttributes, opt *spotify.Options) (*spotify.Recommendations, error)
}

// Client wraps the official Spotify client as a candidate provider.
type Client struct {
	client searcher

	// Attrs optionally biases the recommendation expansion, e.g. towards a
	// target valence and energy for mood-seeded pools. Nil uses Spotify's
	// default behaviour.
	Attrs *spotify.TrackAttributes
}

// Compile-time check that Client satisfies the provider interface.
var _ music.Provider = (*Client)(nil)

// New authenticates using the client credentials flow and returns a Client
// ready for API calls. clientID and clientSecret are obtained from the
// Spotify developer dashboard.
func New(clientID, clientSecret string) (*Client, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotify.TokenURL,
	}
	token, err := config.Token(context.Background())
	if err != nil {
		return nil, err
	}
	c := spotify.Authenticator{}.NewClient(token)
	return &Client{client: &c}, nil
}

// NewWithSearcher constructs a Client around an existing search
// implementation. Used by tests.
func NewWithSearcher(s searcher) *Client {
	return &Client{client: s}
}

// MoodAttributes builds recommendation attributes targeting the given
// valence and energy, both in [0,1]. Assign the result to Attrs for a
// mood-seeded provider.
func MoodAttributes(valence, energy float64) *spotify.TrackAttributes {
	return spotify.NewTrackAttributes().TargetValence(valence).TargetEnergy(energy)
}

// candidateFromSimple converts a track into the provider-neutral candidate
// shape. Spotify exposes popularity (0-100) instead of play counts; it is
// projected onto the view-count scale so the popularity heuristic still has
// signal (popularity 50 maps to 100M views).
func candidateFromSimple(t spotify.SimpleTrack, popularity int, album string) music.Candidate {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	artist := ""
	if len(artists) > 0 {
		artist = artists[0]
	}
	return music.Candidate{
		ID:              string(t.ID),
		Title:           t.Name,
		Artist:          artist,
		RawText:         strings.TrimSpace(t.Name + " " + strings.Join(artists, " ") + " " + album),
		ViewCount:       int64(popularity) * 2_000_000,
		DurationSeconds: t.Duration / 1000,
		Provider:        providerName,
	}
}

// FetchCandidates searches for the seed track and merges the search hits
// with recommendations seeded by the top hit. The top search hit appears
// first so its artist can serve as the seed's resolved artist.
func (c *Client) FetchCandidates(ctx context.Context, seed music.Seed) ([]music.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := "track:" + seed.Title
	if seed.Artist != "" {
		query += " artist:" + seed.Artist
	}
	results, err := c.client.Search(query, spotify.SearchTypeTrack)
	if err != nil {
		return nil, err
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, nil
	}
	hits := results.Tracks.Tracks

	candidates := make([]music.Candidate, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))
	for _, t := range hits {
		if _, ok := seen[string(t.ID)]; ok {
			continue
		}
		seen[string(t.ID)] = struct{}{}
		candidates = append(candidates, candidateFromSimple(t.SimpleTrack, t.Popularity, t.Album.Name))
	}

	// Recommendation expansion is best-effort; search hits alone are still
	// a usable pool.
	if err := ctx.Err(); err != nil {
		return candidates, nil
	}
	seeds := spotify.Seeds{Tracks: []spotify.ID{hits[0].ID}}
	recs, err := c.client.GetRecommendations(seeds, c.Attrs, nil)
	if err == nil && recs != nil {
		for _, t := range recs.Tracks {
			if _, ok := seen[string(t.ID)]; ok {
				continue
			}
			seen[string(t.ID)] = struct{}{}
			candidates = append(candidates, candidateFromSimple(t, 0, ""))
		}
	}
	return candidates, nil
}
