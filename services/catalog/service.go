// Package catalog orchestrates the local movie store and the TMDB client:
// list and home queries answer from the store only, search falls back to
// TMDB on a local miss, and detail lookups lazily persist fetched records
// so later requests stay local.
package catalog

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/sourcegraph/conc"

	"reelbase/models"
	"reelbase/services/tmdb"
)

var (
	// ErrQueryTooShort rejects search queries below the minimum length.
	ErrQueryTooShort = errors.New("catalog: query too short")
	// ErrNotFound means neither the store nor the provider knows the id.
	ErrNotFound = errors.New("catalog: movie not found")
)

const (
	// DefaultListLimit is the row cap for the plain listing.
	DefaultListLimit = 50
	// DefaultFeedLimit is the page size for the randomized feed.
	DefaultFeedLimit = 10

	minQueryLength = 2
	searchLimit    = 10
	sectionSize    = 10
	relatedLimit   = 10
)

// movieStore is the slice of the repository the service consumes.
type movieStore interface {
	List(limit int) ([]models.Movie, error)
	FindByID(id int64) (*models.Movie, error)
	SearchByTitle(query string, limit int) ([]models.Movie, error)
	SearchByOverview(keywords []string, excludeID int64, limit int) ([]models.Movie, error)
	Random(excludeID int64, limit, offset int) ([]models.Movie, error)
	Recent(limit int) ([]models.Movie, error)
	InsertIfAbsent(m models.Movie) error
}

// provider is the slice of the TMDB client the service consumes.
type provider interface {
	Search(ctx context.Context, query string, page int) ([]models.Movie, error)
	GetDetail(ctx context.Context, id int64) (*models.Movie, error)
	GetTrailerKey(ctx context.Context, id int64) (string, error)
	GetGenreNames(ctx context.Context, id int64) []string
	GetCastNames(ctx context.Context, id int64, limit int) []string
}

// Service answers catalog queries over the store with TMDB fallback.
type Service struct {
	store    movieStore
	provider provider
	shaper   *Shaper
}

// NewService wires the catalog service.
func NewService(store movieStore, provider provider, shaper *Shaper) *Service {
	if shaper == nil {
		shaper = NewShaper("")
	}
	return &Service{store: store, provider: provider, shaper: shaper}
}

// ListMovies returns up to limit store rows, shaped. No provider fallback.
func (s *Service) ListMovies(ctx context.Context, limit int) ([]models.ShapedMovie, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	movies, err := s.store.List(limit)
	if err != nil {
		return nil, err
	}
	return s.shaper.ShapeAll(movies), nil
}

// Search answers a title query from the store, falling back to TMDB only
// on a true local miss. Local results always win, however few; the two
// sources are never merged. A provider failure on the fallback path
// degrades to an empty remote result, never an error.
func (s *Service) Search(ctx context.Context, query string) (models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return models.SearchResult{}, ErrQueryTooShort
	}

	local, err := s.store.SearchByTitle(query, searchLimit)
	if err != nil {
		return models.SearchResult{}, err
	}
	if len(local) > 0 {
		return models.SearchResult{Source: "local", Results: s.shaper.ShapeAll(local)}, nil
	}

	remote, err := s.provider.Search(ctx, query, 1)
	if err != nil {
		log.Printf("[catalog] remote search failed query=%q: %v", query, err)
		remote = nil
	}
	if len(remote) > searchLimit {
		remote = remote[:searchLimit]
	}
	return models.SearchResult{Source: "remote", Results: s.shaper.ShapeAll(remote)}, nil
}

// GetDetail returns one movie, fetching from TMDB and lazily persisting
// the record on a store miss. The insert is idempotent, so concurrent
// lookups for the same id are safe.
func (s *Service) GetDetail(ctx context.Context, id int64) (models.ShapedMovie, error) {
	m, err := s.store.FindByID(id)
	if err != nil {
		return models.ShapedMovie{}, err
	}
	if m != nil {
		return s.shaper.Shape(*m), nil
	}

	fetched, err := s.provider.GetDetail(ctx, id)
	if err != nil {
		if !errors.Is(err, tmdb.ErrNotFound) {
			log.Printf("[catalog] detail fetch failed id=%d: %v", id, err)
		}
		return models.ShapedMovie{}, ErrNotFound
	}

	if err := s.store.InsertIfAbsent(*fetched); err != nil {
		// Serve the fetched record anyway; the cache just stays cold.
		log.Printf("[catalog] lazy insert failed id=%d: %v", id, err)
	}
	return s.shaper.Shape(*fetched), nil
}

// homeSectionSpec fixes the identity and query of one home shelf.
type homeSectionSpec struct {
	id    string
	title string
	query func() ([]models.Movie, error)
}

// HomeSections assembles the five fixed home shelves from the store only,
// in a fixed order. Sections are independent: one failing query logs and
// yields an empty shelf without breaking the rest.
func (s *Service) HomeSections(ctx context.Context) []models.HomeSection {
	specs := []homeSectionSpec{
		{"trending", "Trending Now", func() ([]models.Movie, error) { return s.store.Random(0, sectionSize, 0) }},
		{"popular", "Popular", func() ([]models.Movie, error) { return s.store.List(sectionSize) }},
		{"recent", "Recently Added", func() ([]models.Movie, error) { return s.store.Recent(sectionSize) }},
		{"action_picks", "Action Picks", func() ([]models.Movie, error) {
			return s.store.SearchByOverview([]string{"war"}, 0, sectionSize)
		}},
		{"scifi_picks", "Sci-Fi Picks", func() ([]models.Movie, error) {
			return s.store.SearchByOverview([]string{"space", "future"}, 0, sectionSize)
		}},
	}

	sections := make([]models.HomeSection, len(specs))
	var wg conc.WaitGroup
	for i, spec := range specs {
		wg.Go(func() {
			movies, err := spec.query()
			if err != nil {
				log.Printf("[catalog] home section %s failed: %v", spec.id, err)
				movies = nil
			}
			sections[i] = models.HomeSection{
				ID:     spec.id,
				Title:  spec.title,
				Movies: s.shaper.ShapeAll(movies),
			}
		})
	}
	wg.Wait()
	return sections
}

// Related returns up to ten other movies whose overview contains the seed
// keyword, the first whitespace token of the source movie's overview. An
// absent movie or empty overview yields an empty list; a seed with no
// matches stays empty rather than falling back to a random set.
func (s *Service) Related(ctx context.Context, id int64) ([]models.ShapedMovie, error) {
	m, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return []models.ShapedMovie{}, nil
	}

	fields := strings.Fields(m.Overview)
	if len(fields) == 0 {
		return []models.ShapedMovie{}, nil
	}
	seed := fields[0]

	movies, err := s.store.SearchByOverview([]string{seed}, id, relatedLimit)
	if err != nil {
		return nil, err
	}
	return s.shaper.ShapeAll(movies), nil
}

// Feed returns limit store movies other than id in a freshly randomized
// order, skipping offset rows in that order. The order is re-drawn per
// call, so an offset does not give a stable page boundary across calls.
func (s *Service) Feed(ctx context.Context, id int64, offset, limit int) ([]models.ShapedMovie, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	movies, err := s.store.Random(id, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.shaper.ShapeAll(movies), nil
}

// TrailerKey returns the movie's YouTube trailer key from TMDB.
func (s *Service) TrailerKey(ctx context.Context, id int64) (string, error) {
	key, err := s.provider.GetTrailerKey(ctx, id)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return "", ErrNotFound
		}
		log.Printf("[catalog] trailer lookup failed id=%d: %v", id, err)
		return "", ErrNotFound
	}
	return key, nil
}

// GenreNames returns the movie's genre names, empty on any provider
// failure. Not cached locally.
func (s *Service) GenreNames(ctx context.Context, id int64) []string {
	return s.provider.GetGenreNames(ctx, id)
}

// CastNames returns up to ten cast names, empty on any provider failure.
// Not cached locally.
func (s *Service) CastNames(ctx context.Context, id int64) []string {
	return s.provider.GetCastNames(ctx, id, tmdb.DefaultCastLimit)
}
