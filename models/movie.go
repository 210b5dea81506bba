package models

// Movie is a catalog row as persisted in the movies table. The ID is the
// provider's canonical TMDB id; the local store never generates its own.
// Genres, Cast and Collection are reserved columns that stay empty on the
// serving path.
type Movie struct {
	ID         int64
	Title      string
	Overview   string
	Genres     string
	Cast       string
	Collection string
	PosterPath string
}

// ShapedMovie is the externally visible projection of a Movie. PosterURL
// is nil when the row carries no poster path, never a partial URL.
type ShapedMovie struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Overview  string  `json:"overview"`
	PosterURL *string `json:"poster_url"`
}

// HomeSection is one named shelf on the home screen.
type HomeSection struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Movies []ShapedMovie `json:"movies"`
}

// SearchResult labels where a search answer came from. Source is "local"
// whenever the store had at least one title match, "remote" otherwise.
type SearchResult struct {
	Source  string        `json:"source"`
	Results []ShapedMovie `json:"results"`
}
