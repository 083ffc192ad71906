// Package youtube implements the candidate provider interface using the
// YouTube Data API. Only the endpoints required by the application are
// supported. An API key must be provided when constructing the client.
//
// A fetch performs a relevance search for the seed followed by a
// related-video expansion of the top hit, producing a richer candidate pool
// than a single search. View counts and durations are hydrated with one
// follow-up videos call. Network calls are performed using the provided
// http.Client allowing callers to substitute a test client.
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"SongScout/pkg/music"
)

const (
	apiBase       = "https://www.googleapis.com/youtube/v3"
	searchMax     = 5
	relatedMax    = 10
	chartMax      = 50
	musicCategory = "10"
	providerName  = "youtube"
)

// Client provides access to the YouTube Data API.
type Client struct {
	Key    string
	Client *http.Client
}

// ensure Client implements the provider interface.
var _ music.Provider = (*Client)(nil)

func (c *Client) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

// getJSON issues a GET against the API and decodes the response into out.
// Non-2xx statuses are returned as errors; the pipeline treats them as "no
// information" for the affected seed.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.Key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube %s error: %s", endpoint, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// searchItem is the subset of a search or videos response consumed here.
type searchItem struct {
	id          string
	title       string
	channel     string
	description string
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Description  string `json:"description"`
		} `json:"snippet"`
	} `json:"items"`
}

func (r searchResponse) items() []searchItem {
	out := make([]searchItem, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, searchItem{
			id:          it.ID.VideoID,
			title:       it.Snippet.Title,
			channel:     it.Snippet.ChannelTitle,
			description: it.Snippet.Description,
		})
	}
	return out
}

func (c *Client) search(ctx context.Context, query string, max int) ([]searchItem, error) {
	var body searchResponse
	err := c.getJSON(ctx, "search", url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"maxResults": {strconv.Itoa(max)},
		"q":          {query},
	}, &body)
	if err != nil {
		return nil, err
	}
	return body.items(), nil
}

func (c *Client) related(ctx context.Context, videoID string) ([]searchItem, error) {
	var body searchResponse
	err := c.getJSON(ctx, "search", url.Values{
		"part":             {"snippet"},
		"type":             {"video"},
		"relatedToVideoId": {videoID},
		"maxResults":       {strconv.Itoa(relatedMax)},
	}, &body)
	if err != nil {
		return nil, err
	}
	return body.items(), nil
}

// stats holds the numeric signals hydrated from the videos endpoint.
type stats struct {
	views    int64
	duration int
}

// videoStats fetches view counts and durations for up to 50 IDs in one
// call. A failure here is non-fatal to the fetch; candidates simply carry
// zero signals.
func (c *Client) videoStats(ctx context.Context, ids []string) (map[string]stats, error) {
	var body struct {
		Items []struct {
			ID             string `json:"id"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	err := c.getJSON(ctx, "videos", url.Values{
		"part": {"contentDetails,statistics"},
		"id":   {strings.Join(ids, ",")},
	}, &body)
	if err != nil {
		return nil, err
	}
	out := make(map[string]stats, len(body.Items))
	for _, it := range body.Items {
		views, _ := strconv.ParseInt(it.Statistics.ViewCount, 10, 64)
		out[it.ID] = stats{views: views, duration: parseISODuration(it.ContentDetails.Duration)}
	}
	return out, nil
}

// parseISODuration converts an ISO-8601 video duration such as PT3M52S into
// seconds. Unknown or malformed values yield zero, which the scorer treats
// as "duration unknown".
func parseISODuration(s string) int {
	s = strings.TrimPrefix(s, "P")
	var total, n int
	inTime := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			n = n*10 + int(r-'0')
		case r == 'T':
			inTime = true
			n = 0
		case r == 'D':
			total += n * 86400
			n = 0
		case r == 'H' && inTime:
			total += n * 3600
			n = 0
		case r == 'M' && inTime:
			total += n * 60
			n = 0
		case r == 'S' && inTime:
			total += n
			n = 0
		default:
			n = 0
		}
	}
	return total
}

// FetchCandidates searches for the seed, expands the top hit with related
// videos and returns the combined pool with duplicate IDs removed. The top
// search hit appears first so callers can use its channel as the seed's
// resolved artist.
func (c *Client) FetchCandidates(ctx context.Context, seed music.Seed) ([]music.Candidate, error) {
	query := seed.Title
	if seed.Artist != "" {
		query += " " + seed.Artist
	}
	hits, err := c.search(ctx, query, searchMax)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	items := hits
	if rel, err := c.related(ctx, hits[0].id); err == nil {
		items = append(items, rel...)
	}
	// The related expansion is best-effort; a failure there still leaves
	// the search hits as a usable pool.

	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	unique := items[:0]
	for _, it := range items {
		if it.id == "" {
			continue
		}
		if _, ok := seen[it.id]; ok {
			continue
		}
		seen[it.id] = struct{}{}
		ids = append(ids, it.id)
		unique = append(unique, it)
	}

	details, err := c.videoStats(ctx, ids)
	if err != nil {
		details = nil
	}

	candidates := make([]music.Candidate, 0, len(unique))
	for _, it := range unique {
		st := details[it.id]
		candidates = append(candidates, music.Candidate{
			ID:              it.id,
			Title:           it.title,
			Artist:          it.channel,
			RawText:         strings.TrimSpace(it.title + " " + it.channel + " " + it.description),
			ViewCount:       st.views,
			DurationSeconds: st.duration,
			Provider:        providerName,
		})
	}
	return candidates, nil
}

// TopCharts returns the most-popular music chart, bounded to 50 items. It
// backs the popularity fallback of the suggestion pipeline.
func (c *Client) TopCharts(ctx context.Context) ([]music.Candidate, error) {
	var body struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				Description  string `json:"description"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	err := c.getJSON(ctx, "videos", url.Values{
		"part":            {"snippet,contentDetails,statistics"},
		"chart":           {"mostPopular"},
		"videoCategoryId": {musicCategory},
		"maxResults":      {strconv.Itoa(chartMax)},
	}, &body)
	if err != nil {
		return nil, err
	}
	candidates := make([]music.Candidate, 0, len(body.Items))
	for _, it := range body.Items {
		views, _ := strconv.ParseInt(it.Statistics.ViewCount, 10, 64)
		candidates = append(candidates, music.Candidate{
			ID:              it.ID,
			Title:           it.Snippet.Title,
			Artist:          it.Snippet.ChannelTitle,
			RawText:         strings.TrimSpace(it.Snippet.Title + " " + it.Snippet.ChannelTitle + " " + it.Snippet.Description),
			ViewCount:       views,
			DurationSeconds: parseISODuration(it.ContentDetails.Duration),
			Provider:        providerName,
		})
	}
	return candidates, nil
}
