package catalog

import "reelbase/models"

// DefaultPosterBaseURL is the TMDB image host prefix joined with a row's
// poster path to form a displayable URL.
const DefaultPosterBaseURL = "https://image.tmdb.org/t/p/w500"

// Shaper turns persisted movie rows into the external view. It is pure:
// no I/O, deterministic for a given base URL.
type Shaper struct {
	posterBaseURL string
}

// NewShaper creates a shaper with the given poster base URL, falling back
// to the TMDB default when empty.
func NewShaper(posterBaseURL string) *Shaper {
	if posterBaseURL == "" {
		posterBaseURL = DefaultPosterBaseURL
	}
	return &Shaper{posterBaseURL: posterBaseURL}
}

// Shape projects one movie row. An empty poster path yields a nil
// PosterURL, never a malformed URL.
func (s *Shaper) Shape(m models.Movie) models.ShapedMovie {
	shaped := models.ShapedMovie{
		ID:       m.ID,
		Title:    m.Title,
		Overview: m.Overview,
	}
	if m.PosterPath != "" {
		u := s.posterBaseURL + m.PosterPath
		shaped.PosterURL = &u
	}
	return shaped
}

// ShapeAll projects a slice of rows, always returning a non-nil slice so
// handlers encode [] instead of null.
func (s *Shaper) ShapeAll(movies []models.Movie) []models.ShapedMovie {
	shaped := make([]models.ShapedMovie, 0, len(movies))
	for _, m := range movies {
		shaped = append(shaped, s.Shape(m))
	}
	return shaped
}
