// Package soundcloud implements the candidate provider interface using the
// public SoundCloud API. A client_id must be supplied; requests carry it as
// a query parameter. Play counts stand in for view counts so the scorer's
// popularity signal works unchanged.
package soundcloud

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"SongScout/pkg/music"
)

const (
	apiBase      = "https://api-v2.soundcloud.com"
	searchMax    = 5
	relatedMax   = 10
	providerName = "soundcloud"
)

// Client talks to the SoundCloud API. If HTTP is nil http.DefaultClient is
// used, so the zero value plus a ClientID is ready for use.
type Client struct {
	ClientID string
	HTTP     *http.Client
}

var _ music.Provider = (*Client)(nil)

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// track is the subset of a SoundCloud track object consumed here.
type track struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PlaybackCnt int64  `json:"playback_count"`
	DurationMS  int64  `json:"duration"`
	User        struct {
		Username string `json:"username"`
	} `json:"user"`
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("client_id", c.ClientID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("soundcloud %s error: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) search(ctx context.Context, query string) ([]track, error) {
	var body struct {
		Collection []track `json:"collection"`
	}
	err := c.getJSON(ctx, "/search/tracks", url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(searchMax)},
	}, &body)
	if err != nil {
		return nil, err
	}
	return body.Collection, nil
}

func (c *Client) related(ctx context.Context, id int64) ([]track, error) {
	var body struct {
		Collection []track `json:"collection"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/tracks/%d/related", id), url.Values{
		"limit": {strconv.Itoa(relatedMax)},
	}, &body)
	if err != nil {
		return nil, err
	}
	return body.Collection, nil
}

func candidateFromTrack(t track) music.Candidate {
	return music.Candidate{
		ID:              providerName + ":" + strconv.FormatInt(t.ID, 10),
		Title:           t.Title,
		Artist:          t.User.Username,
		RawText:         t.Title + " " + t.User.Username + " " + t.Description,
		ViewCount:       t.PlaybackCnt,
		DurationSeconds: int(t.DurationMS / 1000),
		Provider:        providerName,
	}
}

// FetchCandidates searches for the seed and expands the top hit with related
// tracks. The expansion is best-effort; the search hits alone form a usable
// pool. Duplicate track IDs are dropped, search hits first.
func (c *Client) FetchCandidates(ctx context.Context, seed music.Seed) ([]music.Candidate, error) {
	query := seed.Title
	if seed.Artist != "" {
		query += " " + seed.Artist
	}
	hits, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	tracks := hits
	if rel, err := c.related(ctx, hits[0].ID); err == nil {
		tracks = append(tracks, rel...)
	}

	seen := make(map[int64]struct{}, len(tracks))
	candidates := make([]music.Candidate, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		candidates = append(candidates, candidateFromTrack(t))
	}
	return candidates, nil
}
