package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestITunesSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("media") != "podcast" || q.Get("entity") != "podcast" {
			t.Errorf("query = %v", q)
		}
		if q.Get("term") != "tech weekly" {
			t.Errorf("term = %q", q.Get("term"))
		}
		if q.Get("limit") != "5" {
			t.Errorf("limit = %q", q.Get("limit"))
		}
		_, _ = w.Write([]byte(`{"results":[
			{"trackName":"Tech Weekly","artistName":"J. Doe","artworkUrl600":"https://img/600.jpg","collectionViewUrl":"https://pod/1","primaryGenreName":"Technology"},
			{"trackName":"No Metadata"}
		]}`))
	}))
	defer srv.Close()

	c := &ITunesClient{BaseURL: srv.URL, Timeout: time.Second, Client: srv.Client()}

	results, err := c.Search(context.Background(), "tech weekly", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Name != "Tech Weekly" || results[0].Hosts != "J. Doe" ||
		results[0].Category != "Technology" || results[0].ListenURL != "https://pod/1" {
		t.Fatalf("first result = %+v", results[0])
	}
	// Missing upstream fields come back as empty strings.
	if results[1].Hosts != "" || results[1].CoverImage != "" || results[1].ListenURL != "" {
		t.Fatalf("sparse result = %+v", results[1])
	}
}

func TestITunesSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &ITunesClient{BaseURL: srv.URL, Timeout: time.Second, Client: srv.Client()}
	if _, err := c.Search(context.Background(), "x", 5); err == nil {
		t.Fatalf("expected error for upstream 500")
	}
}

func TestITunesSearchTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := &ITunesClient{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Client: srv.Client()}

	_, err := c.Search(context.Background(), "x", 5)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
