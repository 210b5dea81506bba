package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, srv.Client())
	return client, srv
}

func TestSearch_Success(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("query") != "dune" {
			t.Errorf("expected query 'dune', got %q", r.URL.Query().Get("query"))
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Error("expected api_key to be sent")
		}
		w.Write([]byte(`{"results":[{"id":438631,"title":"Dune","overview":"desert planet","poster_path":"/dune.jpg"}]}`))
	}))
	defer srv.Close()

	movies, err := client.Search(context.Background(), "dune", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(movies))
	}
	if movies[0].ID != 438631 || movies[0].Title != "Dune" {
		t.Errorf("unexpected movie: %+v", movies[0])
	}
}

func TestGetDetail_NotFound(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := client.GetDetail(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetDetail_ServerErrorIsUnavailable(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := client.GetDetail(context.Background(), 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSearch_NetworkErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, srv.Client())
	srv.Close() // force connection failures

	_, err := client.Search(context.Background(), "dune", 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGetTrailerKey_PicksFirstYouTubeTrailer(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603/videos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"results":[
			{"key":"clip1","site":"YouTube","type":"Clip"},
			{"key":"vimeo1","site":"Vimeo","type":"Trailer"},
			{"key":"trailer1","site":"YouTube","type":"Trailer"},
			{"key":"trailer2","site":"YouTube","type":"Trailer"}
		]}`))
	}))
	defer srv.Close()

	key, err := client.GetTrailerKey(context.Background(), 603)
	if err != nil {
		t.Fatalf("GetTrailerKey failed: %v", err)
	}
	if key != "trailer1" {
		t.Errorf("expected key 'trailer1', got %q", key)
	}
}

func TestGetTrailerKey_NoTrailerIsNotFound(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"key":"clip1","site":"YouTube","type":"Featurette"}]}`))
	}))
	defer srv.Close()

	_, err := client.GetTrailerKey(context.Background(), 603)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetGenreNames_FailureDegradesToEmpty(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	names := client.GetGenreNames(context.Background(), 603)
	if names == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(names) != 0 {
		t.Fatalf("expected no names, got %v", names)
	}
}

func TestGetGenreNames_Success(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":603,"title":"The Matrix","genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}`))
	}))
	defer srv.Close()

	names := client.GetGenreNames(context.Background(), 603)
	if len(names) != 2 || names[0] != "Action" || names[1] != "Science Fiction" {
		t.Fatalf("unexpected genre names: %v", names)
	}
}

func TestGetCastNames_AppliesLimit(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603/credits" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"cast":[{"name":"A"},{"name":"B"},{"name":"C"}]}`))
	}))
	defer srv.Close()

	names := client.GetCastNames(context.Background(), 603, 2)
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Fatalf("unexpected cast names: %v", names)
	}
}
