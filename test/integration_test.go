//go:build integration

package test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sh00k-ThaD3v/hors/internal/engine"
	"github.com/Sh00k-ThaD3v/hors/internal/fetch"
	"github.com/Sh00k-ThaD3v/hors/internal/fingerprint"
	"github.com/Sh00k-ThaD3v/hors/pkg/useragent"
)

// fakeBing serves a canned Bing-shaped results page behind a consent cookie
// round-trip, the way the real site gates some regions.
func fakeBing(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a spoofed User-Agent")
		}
		if _, err := r.Cookie("SRCHD"); err != nil {
			http.SetCookie(w, &http.Cookie{Name: "SRCHD", Value: "AF=NOFORM"})
			http.Redirect(w, r, r.URL.String(), http.StatusFound)
			return
		}
		fmt.Fprint(w, `<html><body>
			<li class="b_algo"><h2><a href="https://stackoverflow.com/q/100"></a></h2></li>
			<li class="b_algo"><h2><a href="https://stackoverflow.com/q/200"></a></h2></li>
		</body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestIntegration_BingSearch(t *testing.T) {
	srv := fakeBing(t)

	fetcher := fetch.New(fetch.Config{
		Timeout:     5 * time.Second,
		Fingerprint: fingerprint.ProfileGo,
		UAPool:      useragent.NewPool(nil),
	}, nil)

	b := engine.NewBing(fetcher, nil)
	b.SearchURL = srv.URL + "/search?q="

	links, err := b.SearchLinks(context.Background(), "how-to-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 2 || links[0] != "https://stackoverflow.com/q/100" {
		t.Errorf("unexpected links: %v", links)
	}
}

func TestIntegration_NoResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html></html>")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	fetcher := fetch.New(fetch.Config{Fingerprint: fingerprint.ProfileGo}, nil)
	b := engine.NewBing(fetcher, nil)
	b.SearchURL = srv.URL + "/search?q="

	_, err := b.SearchLinks(context.Background(), "gibberish")
	if !errors.Is(err, engine.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestIntegration_AllEnginesAgainstOneServer(t *testing.T) {
	srv := fakeBing(t)

	fetcher := fetch.New(fetch.Config{Fingerprint: fingerprint.ProfileGo}, nil)

	bing := engine.NewBing(fetcher, nil)
	bing.SearchURL = srv.URL + "/search?q="
	google := engine.NewGoogle(fetcher, nil)
	google.SearchURL = srv.URL + "/search?q="

	links, err := engine.SearchAll(context.Background(), []engine.Engine{google, bing}, "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Google's extractor finds nothing in a Bing-shaped page, so the Bing
	// engine's links win despite its lower rank.
	if len(links) != 2 || links[0] != "https://stackoverflow.com/q/100" {
		t.Errorf("unexpected links: %v", links)
	}
}
