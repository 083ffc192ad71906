// Command web initializes the SongScout suggestion service and starts the
// HTTP server. Configuration is provided via environment variables: provider
// credentials, database locations, cache settings and the provider rate
// budget. The server serves a JSON API plus health and metrics endpoints.
package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"SongScout/pkg/cache"
	"SongScout/pkg/db"
	"SongScout/pkg/handlers"
	"SongScout/pkg/music"
	"SongScout/pkg/soundcloud"
	"SongScout/pkg/spotify"
	"SongScout/pkg/suggest"
	"SongScout/pkg/youtube"
)

// envOr returns the value of key or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt returns the integer value of key or fallback when unset or
// malformed.
func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// main configures application dependencies and starts the HTTP server.
func main() {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(lvl)
	}

	// The YouTube adapter is the reference provider and also supplies the
	// popularity chart backing the fallback, so its key is required.
	youtubeKey := os.Getenv("YOUTUBE_API_KEY")
	if youtubeKey == "" {
		log.Fatal("YOUTUBE_API_KEY must be set")
	}
	yt := &youtube.Client{Key: youtubeKey}

	// Select the candidate provider. Spotify and SoundCloud are optional and
	// only consulted when credentials are configured.
	var provider music.Provider = yt
	providerName := "youtube"
	switch os.Getenv("MUSIC_SERVICE") {
	case "spotify":
		sc, err := spotify.New(os.Getenv("SPOTIFY_CLIENT_ID"), os.Getenv("SPOTIFY_CLIENT_SECRET"))
		if err != nil {
			log.WithError(err).Fatal("spotify client init")
		}
		provider = sc
		providerName = "spotify"
	case "soundcloud":
		provider = &soundcloud.Client{ClientID: os.Getenv("SOUNDCLOUD_CLIENT_ID")}
		providerName = "soundcloud"
	case "aggregate":
		sc, err := spotify.New(os.Getenv("SPOTIFY_CLIENT_ID"), os.Getenv("SPOTIFY_CLIENT_SECRET"))
		if err != nil {
			log.WithError(err).Fatal("spotify client init")
		}
		providers := []music.Provider{yt, sc}
		if id := os.Getenv("SOUNDCLOUD_CLIENT_ID"); id != "" {
			providers = append(providers, &soundcloud.Client{ClientID: id})
		}
		provider = music.Multi{Providers: providers}
		providerName = "aggregate"
	}

	// Compose the explicit cross-cutting wrappers: a global blocking rate
	// limiter around the provider, then a bounded per-seed memo cache so
	// repeated seeds inside the TTL window skip the network entirely.
	provider = music.NewThrottled(provider, envInt("PROVIDER_RATE", 60))
	provider = music.NewCached(provider, envInt("SEED_CACHE_SIZE", 256))

	// DATABASE_PATH allows the SQLite file to be customised. It defaults to
	// a file named songscout.db in the working directory.
	store, err := db.New(envOr("DATABASE_PATH", "songscout.db"))
	if err != nil {
		log.WithError(err).Fatal("db init")
	}
	defer store.Close()

	// LEGACY_DATABASE_PATH enables the dual-store write-through used while
	// migrating likes off an older database.
	var likes db.LikesStore = store
	if legacyPath := os.Getenv("LEGACY_DATABASE_PATH"); legacyPath != "" {
		legacy, err := db.New(legacyPath)
		if err != nil {
			log.WithError(err).Fatal("legacy db init")
		}
		defer legacy.Close()
		likes = &db.DualStore{Primary: store, Legacy: legacy, Log: log}
	}

	ttl := time.Duration(envInt("CACHE_TTL_SECONDS", 3600)) * time.Second

	// CACHE_DIR enables the shared BadgerDB tier. Without it the service
	// runs on the process-local tier alone.
	var kv cache.KV
	if dir := os.Getenv("CACHE_DIR"); dir != "" {
		badgerKV, err := cache.NewBadger(dir)
		if err != nil {
			log.WithError(err).Fatal("cache kv init")
		}
		defer badgerKV.Close()
		kv = badgerKV
	}
	resultCache := cache.NewLayered(cache.NewMemory(ttl), kv, ttl, log)

	engine := &suggest.Engine{
		Provider:     provider,
		Scorer:       suggest.NewScorer(nil),
		Fallback:     &suggest.Fallback{Catalog: yt},
		Cache:        resultCache,
		Log:          log,
		TopK:         suggest.DefaultTopK,
		FetchTimeout: 5 * time.Second,
		ProviderName: providerName,
	}

	app := &handlers.Application{Suggest: engine, Likes: likes, Results: store, Log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/suggestions", app.Suggestions)
	mux.HandleFunc("/api/suggestions/result", app.SuggestionResult)
	mux.HandleFunc("/api/likes", app.LikedSongs)
	mux.HandleFunc("/health", app.Health)
	mux.Handle("/metrics", promhttp.Handler())

	addr := envOr("LISTEN_ADDR", ":4000")
	log.WithField("addr", addr).Info("starting server")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Fatal("http server error")
	}
}
