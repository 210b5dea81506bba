package config

import (
	"fmt"
	"os"
	"strings"
)

// Defaults used when the environment leaves a knob unset.
const (
	DefaultListenAddr    = ":8080"
	DefaultDatabasePath  = "movies.db"
	DefaultTMDBBaseURL   = "https://api.themoviedb.org/3"
	DefaultLanguage      = "en-US"
	DefaultPosterBaseURL = "https://image.tmdb.org/t/p/w500"
)

// Config holds all process configuration. It is loaded once in main and
// passed into constructors; nothing reads the environment after startup.
type Config struct {
	ListenAddr    string
	DatabasePath  string
	LogFile       string
	TMDBAPIKey    string
	TMDBBaseURL   string
	Language      string
	PosterBaseURL string
}

// Load reads configuration from the environment. The TMDB API key is the
// only required value; everything else falls back to a default.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:    envOr("REELBASE_ADDR", DefaultListenAddr),
		DatabasePath:  envOr("REELBASE_DB", DefaultDatabasePath),
		LogFile:       strings.TrimSpace(os.Getenv("REELBASE_LOG_FILE")),
		TMDBAPIKey:    strings.TrimSpace(os.Getenv("TMDB_API_KEY")),
		TMDBBaseURL:   envOr("TMDB_BASE_URL", DefaultTMDBBaseURL),
		Language:      envOr("TMDB_LANGUAGE", DefaultLanguage),
		PosterBaseURL: envOr("POSTER_BASE_URL", DefaultPosterBaseURL),
	}

	if cfg.TMDBAPIKey == "" {
		return Config{}, fmt.Errorf("TMDB_API_KEY is not set")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
