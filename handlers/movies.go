package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"reelbase/models"
	"reelbase/services/catalog"
)

// catalogService is the slice of the catalog the handlers consume.
type catalogService interface {
	ListMovies(ctx context.Context, limit int) ([]models.ShapedMovie, error)
	Search(ctx context.Context, query string) (models.SearchResult, error)
	GetDetail(ctx context.Context, id int64) (models.ShapedMovie, error)
	HomeSections(ctx context.Context) []models.HomeSection
	Related(ctx context.Context, id int64) ([]models.ShapedMovie, error)
	Feed(ctx context.Context, id int64, offset, limit int) ([]models.ShapedMovie, error)
	TrailerKey(ctx context.Context, id int64) (string, error)
	GenreNames(ctx context.Context, id int64) []string
	CastNames(ctx context.Context, id int64) []string
}

var _ catalogService = (*catalog.Service)(nil)

// MovieHandler serves the movie routes over the catalog service.
type MovieHandler struct {
	Service catalogService
}

func NewMovieHandler(s catalogService) *MovieHandler {
	return &MovieHandler{Service: s}
}

// Register mounts all movie routes on the router. Order matters: the
// literal /movies/search and /movies/home paths must be registered before
// the {id} routes.
func (h *MovieHandler) Register(r *mux.Router) {
	r.HandleFunc("/movies", h.List).Methods(http.MethodGet)
	r.HandleFunc("/movies/search", h.Search).Methods(http.MethodGet)
	r.HandleFunc("/movies/home", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/movies/{id}", h.Detail).Methods(http.MethodGet)
	r.HandleFunc("/movies/{id}/related", h.Related).Methods(http.MethodGet)
	r.HandleFunc("/movies/{id}/feed", h.Feed).Methods(http.MethodGet)
	r.HandleFunc("/movies/{id}/trailer", h.Trailer).Methods(http.MethodGet)
	r.HandleFunc("/movies/{id}/genres", h.Genres).Methods(http.MethodGet)
	r.HandleFunc("/movies/{id}/cast", h.Cast).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// movieID parses the {id} path variable. Non-integer ids are a client
// error, never coerced.
func movieID(r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(mux.Vars(r)["id"])
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", catalog.DefaultListLimit)

	movies, err := h.Service.ListMovies(r.Context(), limit)
	if err != nil {
		log.Printf("[movies] list error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list movies")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	result, err := h.Service.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, catalog.ErrQueryTooShort) {
			writeError(w, http.StatusBadRequest, "query must be at least 2 characters")
			return
		}
		log.Printf("[movies] search error query=%q: %v", query, err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HomeResponse wraps the ordered home sections.
type HomeResponse struct {
	Sections []models.HomeSection `json:"sections"`
}

func (h *MovieHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HomeResponse{Sections: h.Service.HomeSections(r.Context())})
}

func (h *MovieHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	movie, err := h.Service.GetDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "movie not found")
			return
		}
		log.Printf("[movies] detail error id=%d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load movie")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	movies, err := h.Service.Related(r.Context(), id)
	if err != nil {
		log.Printf("[movies] related error id=%d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load related movies")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *MovieHandler) Feed(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", catalog.DefaultFeedLimit)

	movies, err := h.Service.Feed(r.Context(), id, offset, limit)
	if err != nil {
		log.Printf("[movies] feed error id=%d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load feed")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// TrailerResponse carries the YouTube key of a movie's trailer.
type TrailerResponse struct {
	YouTubeKey string `json:"youtube_key"`
}

func (h *MovieHandler) Trailer(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	key, err := h.Service.TrailerKey(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "trailer not found")
		return
	}
	writeJSON(w, http.StatusOK, TrailerResponse{YouTubeKey: key})
}

func (h *MovieHandler) Genres(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	writeJSON(w, http.StatusOK, h.Service.GenreNames(r.Context(), id))
}

func (h *MovieHandler) Cast(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	writeJSON(w, http.StatusOK, h.Service.CastNames(r.Context(), id))
}
