// HTTP handlers exposing the suggestion pipeline. The handlers are thin:
// request validation and like-list persistence happen here, everything else
// is delegated to the injected collaborators. Persistence failures are
// logged and never fail a suggestion request.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"SongScout/pkg/db"
	"SongScout/pkg/music"
	"SongScout/pkg/suggest"
)

// Suggester is the pipeline contract consumed by the handlers. Implemented
// by *suggest.Engine; tests substitute stubs.
type Suggester interface {
	Suggest(ctx context.Context, seeds []music.Seed) ([]suggest.Scored, error)
}

// Application bundles the dependencies used by the HTTP handlers.
type Application struct {
	Suggest Suggester
	Likes   db.LikesStore
	Results *db.Store
	Log     *logrus.Logger
}

func (app *Application) log() *logrus.Logger {
	if app.Log != nil {
		return app.Log
	}
	return logrus.StandardLogger()
}

// suggestionItem is one entry of the suggestions array in API responses.
type suggestionItem struct {
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	ExternalID string  `json:"external_id"`
	Score      float64 `json:"score"`
}

func toItems(results []suggest.Scored) []suggestionItem {
	items := make([]suggestionItem, 0, len(results))
	for _, r := range results {
		items = append(items, suggestionItem{
			Title:      r.Candidate.Title,
			Artist:     r.Candidate.Artist,
			ExternalID: r.Candidate.ID,
			Score:      r.Score,
		})
	}
	return items
}

// Suggestions handles POST /api/suggestions. The request carries a user ID
// and the seed list of liked songs; the response carries the ranked
// suggestions. An empty suggestions array means both the primary pipeline
// and the fallback produced nothing.
func (app *Application) Suggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		UserID string   `json:"user_id"`
		Songs  []string `json:"songs"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" {
		respondJSONError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	seeds := make([]music.Seed, 0, len(req.Songs))
	names := make([]string, 0, len(req.Songs))
	for _, s := range req.Songs {
		if t := strings.TrimSpace(s); t != "" {
			seeds = append(seeds, music.Seed{Title: t})
			names = append(names, t)
		}
	}
	if len(seeds) == 0 {
		respondJSONError(w, http.StatusBadRequest, "the songs list cannot be empty")
		return
	}

	// Persist the liked-song list before generating suggestions. A failed
	// write is logged; suggestions are not contingent on it.
	if app.Likes != nil {
		if err := app.Likes.SaveLikedSongs(r.Context(), req.UserID, names); err != nil {
			app.log().WithError(err).WithField("user", req.UserID).Error("persist liked songs failed")
		}
	}

	results, err := app.Suggest.Suggest(r.Context(), seeds)
	if err != nil {
		if errors.Is(err, suggest.ErrNoSeeds) {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "suggestion pipeline failed")
		return
	}

	if app.Results != nil {
		stored := make([]db.Suggestion, 0, len(results))
		for _, res := range results {
			stored = append(stored, db.Suggestion{
				ExternalID: res.Candidate.ID,
				Title:      res.Candidate.Title,
				Artist:     res.Candidate.Artist,
				Score:      res.Score,
			})
		}
		if err := app.Results.ReplaceSuggestions(r.Context(), req.UserID, stored); err != nil {
			app.log().WithError(err).WithField("user", req.UserID).Error("persist suggestions failed")
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":     req.UserID,
		"suggestions": toItems(results),
	})
}

// SuggestionResult handles GET /api/suggestions/result?user_id=. It returns
// the most recently stored suggestions for the user so clients can re-read
// results without re-running the pipeline. Status is "pending" while no
// results are stored.
func (app *Application) SuggestionResult(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondJSONError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if app.Results == nil {
		respondJSONError(w, http.StatusInternalServerError, "results store not configured")
		return
	}
	stored, err := app.Results.Suggestions(r.Context(), userID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to load suggestions")
		return
	}
	status := "complete"
	if len(stored) == 0 {
		status = "pending"
	}
	items := make([]suggestionItem, 0, len(stored))
	for _, sg := range stored {
		items = append(items, suggestionItem{
			Title:      sg.Title,
			Artist:     sg.Artist,
			ExternalID: sg.ExternalID,
			Score:      sg.Score,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      status,
		"suggestions": items,
	})
}

// LikedSongs handles GET /api/likes?user_id= and returns the stored
// liked-song list.
func (app *Application) LikedSongs(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondJSONError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if app.Likes == nil {
		respondJSONError(w, http.StatusInternalServerError, "likes store not configured")
		return
	}
	songs, err := app.Likes.LikedSongs(r.Context(), userID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to load liked songs")
		return
	}
	if songs == nil {
		songs = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"user_id": userID, "songs": songs})
}

// Health is a liveness probe.
func (app *Application) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
