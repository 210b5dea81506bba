package database

import (
	"path/filepath"
	"testing"

	"reelbase/models"
)

// setupTestMovieRepo creates a test database and movie repository.
func setupTestMovieRepo(t *testing.T) *MovieRepository {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewMovieRepository(db.Connection())
}

func seedMovies(t *testing.T, repo *MovieRepository, movies ...models.Movie) {
	t.Helper()
	for _, m := range movies {
		if err := repo.InsertIfAbsent(m); err != nil {
			t.Fatalf("seed movie %d: %v", m.ID, err)
		}
	}
}

func TestInsertIfAbsent_AndFindByID(t *testing.T) {
	repo := setupTestMovieRepo(t)

	seedMovies(t, repo, models.Movie{
		ID:         603,
		Title:      "The Matrix",
		Overview:   "a hacker learns the truth",
		PosterPath: "/matrix.jpg",
	})

	m, err := repo.FindByID(603)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected movie to be found")
	}
	if m.Title != "The Matrix" {
		t.Errorf("expected title 'The Matrix', got %q", m.Title)
	}
	if m.PosterPath != "/matrix.jpg" {
		t.Errorf("expected poster path '/matrix.jpg', got %q", m.PosterPath)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo := setupTestMovieRepo(t)

	m, err := repo.FindByID(999)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if m != nil {
		t.Error("expected nil for non-existent movie")
	}
}

func TestInsertIfAbsent_DuplicateIsNoop(t *testing.T) {
	repo := setupTestMovieRepo(t)

	seedMovies(t, repo, models.Movie{ID: 1, Title: "Original"})

	// Second insert with the same id must neither error nor overwrite.
	if err := repo.InsertIfAbsent(models.Movie{ID: 1, Title: "Replacement"}); err != nil {
		t.Fatalf("duplicate insert returned error: %v", err)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after duplicate insert, got %d", count)
	}

	m, _ := repo.FindByID(1)
	if m.Title != "Original" {
		t.Errorf("expected original row to survive, got title %q", m.Title)
	}
}

func TestList_OrderAndLimit(t *testing.T) {
	repo := setupTestMovieRepo(t)

	seedMovies(t, repo,
		models.Movie{ID: 3, Title: "C"},
		models.Movie{ID: 1, Title: "A"},
		models.Movie{ID: 2, Title: "B"},
	)

	movies, err := repo.List(2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if movies[0].ID != 1 || movies[1].ID != 2 {
		t.Errorf("expected ids [1 2], got [%d %d]", movies[0].ID, movies[1].ID)
	}
}

func TestSearchByTitle_CaseInsensitiveSubstring(t *testing.T) {
	repo := setupTestMovieRepo(t)

	seedMovies(t, repo,
		models.Movie{ID: 1, Title: "Nova"},
		models.Movie{ID: 2, Title: "Supernova Rising"},
		models.Movie{ID: 3, Title: "Dune"},
	)

	movies, err := repo.SearchByTitle("nova", 10)
	if err != nil {
		t.Fatalf("SearchByTitle failed: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(movies))
	}
}

func TestSearchByTitle_EscapesWildcards(t *testing.T) {
	repo := setupTestMovieRepo(t)

	seedMovies(t, repo,
		models.Movie{ID: 1, Title: "100% Wolf"},
		models.Movie{ID: 2, Title: "100 Things"},
	)

	movies, err := repo.SearchByTitle("100%", 10)
	if err != nil {
		t.Fatalf("SearchByTitle failed: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected literal %% match only, got %d rows", len(movies))
	}
	if movies[0].ID != 1 {
		t.Errorf("expected id 1, got %d", movies[0].ID)
	}
}

func TestSearchByOverview_KeywordsAndExclusion(t *testing.T) {
	repo := setupTestMovieRepo(t)

	seedMovies(t, repo,
		models.Movie{ID: 1, Overview: "a future war"},
		models.Movie{ID: 2, Overview: "war never changes"},
		models.Movie{ID: 3, Overview: "lost in space"},
		models.Movie{ID: 4, Overview: "a quiet romance"},
	)

	movies, err := repo.SearchByOverview([]string{"war"}, 1, 10)
	if err != nil {
		t.Fatalf("SearchByOverview failed: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected 1 match after exclusion, got %d", len(movies))
	}
	if movies[0].ID != 2 {
		t.Errorf("expected id 2, got %d", movies[0].ID)
	}

	movies, err = repo.SearchByOverview([]string{"space", "future"}, 0, 10)
	if err != nil {
		t.Fatalf("SearchByOverview failed: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 matches for either keyword, got %d", len(movies))
	}
}

func TestRandom_ExcludesAndLimits(t *testing.T) {
	repo := setupTestMovieRepo(t)

	for i := int64(1); i <= 5; i++ {
		seedMovies(t, repo, models.Movie{ID: i})
	}

	movies, err := repo.Random(3, 10, 0)
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if len(movies) != 4 {
		t.Fatalf("expected 4 movies, got %d", len(movies))
	}
	for _, m := range movies {
		if m.ID == 3 {
			t.Error("excluded id 3 appeared in random sample")
		}
	}

	movies, err = repo.Random(0, 2, 3)
	if err != nil {
		t.Fatalf("Random with offset failed: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies with offset 3, got %d", len(movies))
	}
}

func TestRecent_DescendingByID(t *testing.T) {
	repo := setupTestMovieRepo(t)

	seedMovies(t, repo,
		models.Movie{ID: 10},
		models.Movie{ID: 30},
		models.Movie{ID: 20},
	)

	movies, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if movies[0].ID != 30 || movies[1].ID != 20 {
		t.Errorf("expected ids [30 20], got [%d %d]", movies[0].ID, movies[1].ID)
	}
}

func TestNewDB_IsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	NewMovieRepository(db.Connection())
	if err := db.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// Reopening against the same file must not fail on existing schema.
	db2, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	db2.Close()
}
