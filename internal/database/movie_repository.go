package database

import (
	"database/sql"
	"fmt"
	"strings"

	"reelbase/models"
)

// MovieRepository reads and writes rows in the movies table. The serving
// path only ever appends: InsertIfAbsent is the single write operation and
// it never overwrites an existing row.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a repository over an open connection pool.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = `id, title, overview, genres, "cast", collection, poster_path`

// scanMovie decodes one row into a Movie. All column mapping lives here;
// callers never touch column order.
func scanMovie(row interface{ Scan(...any) error }) (models.Movie, error) {
	var m models.Movie
	var overview, genres, cast, collection, posterPath sql.NullString
	if err := row.Scan(&m.ID, &m.Title, &overview, &genres, &cast, &collection, &posterPath); err != nil {
		return models.Movie{}, err
	}
	m.Overview = overview.String
	m.Genres = genres.String
	m.Cast = cast.String
	m.Collection = collection.String
	m.PosterPath = posterPath.String
	return m, nil
}

func (r *MovieRepository) queryMovies(query string, args ...any) ([]models.Movie, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

// List returns up to limit movies in id order.
func (r *MovieRepository) List(limit int) ([]models.Movie, error) {
	return r.queryMovies(
		`SELECT `+movieColumns+` FROM movies ORDER BY id LIMIT ?`, limit)
}

// FindByID returns the movie with the given id, or nil when absent.
func (r *MovieRepository) FindByID(id int64) (*models.Movie, error) {
	row := r.db.QueryRow(
		`SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find movie %d: %w", id, err)
	}
	return &m, nil
}

// SearchByTitle returns movies whose title contains query, case-insensitive.
func (r *MovieRepository) SearchByTitle(query string, limit int) ([]models.Movie, error) {
	return r.queryMovies(
		`SELECT `+movieColumns+` FROM movies WHERE title LIKE ? ESCAPE '\' LIMIT ?`,
		"%"+escapeLike(query)+"%", limit)
}

// SearchByOverview returns movies whose overview contains any of the given
// keywords, excluding excludeID. Serves the related lookup and the themed
// home sections.
func (r *MovieRepository) SearchByOverview(keywords []string, excludeID int64, limit int) ([]models.Movie, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(keywords))
	args := make([]any, 0, len(keywords)+2)
	for _, kw := range keywords {
		conds = append(conds, `overview LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(kw)+"%")
	}
	args = append(args, excludeID, limit)

	return r.queryMovies(
		`SELECT `+movieColumns+` FROM movies WHERE (`+strings.Join(conds, " OR ")+`) AND id != ? LIMIT ?`,
		args...)
}

// Random returns movies other than excludeID in a fresh random order,
// skipping offset rows. The order is re-drawn on every call, so offsets do
// not form stable page boundaries; callers that need stable paging must
// not use this.
func (r *MovieRepository) Random(excludeID int64, limit, offset int) ([]models.Movie, error) {
	return r.queryMovies(
		`SELECT `+movieColumns+` FROM movies WHERE id != ? ORDER BY RANDOM() LIMIT ? OFFSET ?`,
		excludeID, limit, offset)
}

// Recent returns the newest movies by id descending.
func (r *MovieRepository) Recent(limit int) ([]models.Movie, error) {
	return r.queryMovies(
		`SELECT `+movieColumns+` FROM movies ORDER BY id DESC LIMIT ?`, limit)
}

// InsertIfAbsent inserts the movie unless a row with its id already
// exists. Duplicate ids silently no-op, which makes the lazy-insert path
// safe under concurrent detail lookups for the same id.
func (r *MovieRepository) InsertIfAbsent(m models.Movie) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO movies (`+movieColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Overview, m.Genres, m.Cast, m.Collection, m.PosterPath)
	if err != nil {
		return fmt.Errorf("insert movie %d: %w", m.ID, err)
	}
	return nil
}

// Count returns the number of rows in the catalog.
func (r *MovieRepository) Count() (int64, error) {
	var n int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
