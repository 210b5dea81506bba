// Package tmdb is a minimal client for the four TMDB read endpoints the
// catalog consumes: search, movie detail, popular and videos/credits.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"reelbase/models"
)

var (
	// ErrNotFound means the remote reported the movie (or trailer) absent.
	ErrNotFound = errors.New("tmdb: not found")
	// ErrUnavailable covers timeouts, network errors and non-2xx statuses.
	ErrUnavailable = errors.New("tmdb: provider unavailable")
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultLanguage = "en-US"
	requestTimeout  = 15 * time.Second

	// DefaultCastLimit bounds how many cast names a credits lookup returns.
	DefaultCastLimit = 10
)

// Config carries the client's fixed configuration. It is read-only after
// construction; there is no package-level state.
type Config struct {
	APIKey   string
	BaseURL  string
	Language string
}

// Client issues read requests against the TMDB API.
type Client struct {
	cfg   Config
	httpc *http.Client
}

// NewClient creates a TMDB client. A nil httpc gets a client with the
// standard request timeout.
func NewClient(cfg Config, httpc *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: requestTimeout}
	}
	return &Client{cfg: cfg, httpc: httpc}
}

type tmdbMovie struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Overview   string `json:"overview"`
	PosterPath string `json:"poster_path"`
}

type tmdbMovieList struct {
	Results []tmdbMovie `json:"results"`
}

type tmdbGenre struct {
	Name string `json:"name"`
}

type tmdbDetail struct {
	tmdbMovie
	Genres []tmdbGenre `json:"genres"`
}

type tmdbVideo struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type tmdbVideoList struct {
	Results []tmdbVideo `json:"results"`
}

type tmdbCastMember struct {
	Name string `json:"name"`
}

type tmdbCredits struct {
	Cast []tmdbCastMember `json:"cast"`
}

// get issues one API request and decodes the response into out. A remote
// 404 maps to ErrNotFound; every other failure maps to ErrUnavailable.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func toMovie(m tmdbMovie) models.Movie {
	return models.Movie{
		ID:         m.ID,
		Title:      m.Title,
		Overview:   m.Overview,
		PosterPath: m.PosterPath,
	}
}

func toMovies(list []tmdbMovie) []models.Movie {
	movies := make([]models.Movie, 0, len(list))
	for _, m := range list {
		movies = append(movies, toMovie(m))
	}
	return movies
}

// Search returns the candidate movies for a free-text query.
func (c *Client) Search(ctx context.Context, query string, page int) ([]models.Movie, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var list tmdbMovieList
	if err := c.get(ctx, "/search/movie", params, &list); err != nil {
		return nil, err
	}
	return toMovies(list.Results), nil
}

// GetDetail returns a single movie's record, or ErrNotFound when the
// remote does not know the id.
func (c *Client) GetDetail(ctx context.Context, id int64) (*models.Movie, error) {
	var detail tmdbDetail
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), nil, &detail); err != nil {
		return nil, err
	}
	m := toMovie(detail.tmdbMovie)
	return &m, nil
}

// ListPopular returns one page of TMDB's popular movies. Used by the bulk
// importer only.
func (c *Client) ListPopular(ctx context.Context, page int) ([]models.Movie, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var list tmdbMovieList
	if err := c.get(ctx, "/movie/popular", params, &list); err != nil {
		return nil, err
	}
	return toMovies(list.Results), nil
}

// GetTrailerKey returns the YouTube key of the movie's first trailer, or
// ErrNotFound when no video is a YouTube trailer.
func (c *Client) GetTrailerKey(ctx context.Context, id int64) (string, error) {
	var list tmdbVideoList
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/videos", nil, &list); err != nil {
		return "", err
	}
	for _, v := range list.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return v.Key, nil
		}
	}
	return "", ErrNotFound
}

// GetGenreNames returns the movie's genre names. Any failure degrades to
// an empty list; genre lookups are ancillary and never block a response.
func (c *Client) GetGenreNames(ctx context.Context, id int64) []string {
	var detail tmdbDetail
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), nil, &detail); err != nil {
		return []string{}
	}
	names := make([]string, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		names = append(names, g.Name)
	}
	return names
}

// GetCastNames returns the first limit cast member names. Any failure
// degrades to an empty list.
func (c *Client) GetCastNames(ctx context.Context, id int64, limit int) []string {
	if limit <= 0 {
		limit = DefaultCastLimit
	}
	var credits tmdbCredits
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/credits", nil, &credits); err != nil {
		return []string{}
	}
	if len(credits.Cast) > limit {
		credits.Cast = credits.Cast[:limit]
	}
	names := make([]string, 0, len(credits.Cast))
	for _, member := range credits.Cast {
		names = append(names, member.Name)
	}
	return names
}
