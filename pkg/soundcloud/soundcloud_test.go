package soundcloud

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"SongScout/pkg/music"
)

type routeTransport func(r *http.Request) (status int, body string)

func (f routeTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	status, body := f(r)
	rec := httptest.NewRecorder()
	rec.WriteHeader(status)
	rec.WriteString(body)
	return rec.Result(), nil
}

func client(f routeTransport) *Client {
	return &Client{ClientID: "cid", HTTP: &http.Client{Transport: f}}
}

// TestFetchCandidates verifies search and related tracks merge into one
// deduplicated pool with play counts mapped onto the view-count signal.
func TestFetchCandidates(t *testing.T) {
	search := `{"collection":[
		{"id":1,"title":"Seed Song","playback_count":500000,"duration":232000,"user":{"username":"Artist"}}]}`
	related := `{"collection":[
		{"id":2,"title":"Similar Song","playback_count":90000,"duration":195000,"user":{"username":"Other"}},
		{"id":1,"title":"Seed Song","user":{"username":"Artist"}}]}`

	c := client(func(r *http.Request) (int, string) {
		if strings.Contains(r.URL.Path, "/related") {
			return 200, related
		}
		return 200, search
	})

	cands, err := c.FetchCandidates(context.Background(), music.Seed{Title: "Seed Song"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 2 || cands[0].ID != "soundcloud:1" || cands[1].ID != "soundcloud:2" {
		t.Fatalf("unexpected pool: %+v", cands)
	}
	if cands[0].ViewCount != 500_000 || cands[0].DurationSeconds != 232 {
		t.Fatalf("signals not mapped: %+v", cands[0])
	}
}

// TestFetchCandidatesRelatedFailureTolerated verifies a failing expansion
// call still yields the search hits.
func TestFetchCandidatesRelatedFailureTolerated(t *testing.T) {
	search := `{"collection":[{"id":1,"title":"Song","user":{"username":"A"}}]}`
	c := client(func(r *http.Request) (int, string) {
		if strings.Contains(r.URL.Path, "/related") {
			return 500, ""
		}
		return 200, search
	})
	cands, err := c.FetchCandidates(context.Background(), music.Seed{Title: "Song"})
	if err != nil || len(cands) != 1 {
		t.Fatalf("expected search hits despite failed expansion, got %v %v", cands, err)
	}
}

// TestFetchCandidatesSearchError verifies non-200 search responses surface
// as errors.
func TestFetchCandidatesSearchError(t *testing.T) {
	c := client(func(*http.Request) (int, string) { return 403, "" })
	if _, err := c.FetchCandidates(context.Background(), music.Seed{Title: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

// TestFetchCandidatesEmptySearch verifies an empty collection reads as "no
// information".
func TestFetchCandidatesEmptySearch(t *testing.T) {
	c := client(func(*http.Request) (int, string) { return 200, `{"collection":[]}` })
	cands, err := c.FetchCandidates(context.Background(), music.Seed{Title: "x"})
	if err != nil || cands != nil {
		t.Fatalf("expected empty pool, got %v %v", cands, err)
	}
}
