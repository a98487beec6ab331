package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientFilms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/films" {
			t.Errorf("path = %s, want /films", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"f1","title":"Castle in the Sky","release_date":"1986"},
			{"id":"f2","title":"My Neighbor Totoro","release_date":"1988"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	films, err := client.Films(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(films) != 2 {
		t.Fatalf("got %d films, want 2", len(films))
	}
	// Server order is preserved.
	if films[0].ID != "f1" || films[1].ID != "f2" {
		t.Errorf("order = [%s %s], want [f1 f2]", films[0].ID, films[1].ID)
	}
	if films[1].Title != "My Neighbor Totoro" {
		t.Errorf("title = %q", films[1].Title)
	}
}

func TestClientNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.People(context.Background()); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestClientMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.Locations(context.Background()); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // already closed

	client := NewClient(server.URL, time.Second)
	if _, err := client.Films(context.Background()); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}
