package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sh00k-ThaD3v/hors/internal/fetch"
	"github.com/Sh00k-ThaD3v/hors/internal/fingerprint"
)

func TestExtractBingLinks(t *testing.T) {
	page := `
<html>
    <body>
        <li class="b_algo">
            <h2><a target="_blank" href="https://test_link1"></a></h2>
        </li>
        <li class="b_algo">
            <h2><a target="_blank" href="https://test_link2"></a></h2>
        </li>
    </body>
</html>`

	links := extractBingLinks(page)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0] != "https://test_link1" || links[1] != "https://test_link2" {
		t.Errorf("expected links in document order, got %v", links)
	}
}

func TestExtractBingLinks_Empty(t *testing.T) {
	if links := extractBingLinks("<html></html>"); len(links) != 0 {
		t.Errorf("expected no links, got %v", links)
	}
}

func TestExtractBingLinks_AnchorWithoutHref(t *testing.T) {
	page := `
<li class="b_algo"><h2><a target="_blank"></a></h2></li>
<li class="b_algo"><h2><a href="https://kept"></a></h2></li>`

	links := extractBingLinks(page)
	if len(links) != 1 || links[0] != "https://kept" {
		t.Errorf("expected anchors without href to be skipped, got %v", links)
	}
}

func TestExtractBingLinks_DuplicatesKept(t *testing.T) {
	page := `
<li class="b_algo"><h2><a href="https://same"></a></h2></li>
<li class="b_algo"><h2><a href="https://same"></a></h2></li>`

	links := extractBingLinks(page)
	if len(links) != 2 {
		t.Errorf("expected duplicates to be kept, got %v", links)
	}
}

func TestExtractBingLinks_OutsideResultCard(t *testing.T) {
	page := `
<li class="b_other"><h2><a href="https://ignored"></a></h2></li>
<li class="b_algo"><div><a href="https://also_ignored_no_heading"></a></div></li>`

	if links := extractBingLinks(page); len(links) != 0 {
		t.Errorf("expected only b_algo h2 anchors to match, got %v", links)
	}
}

func TestExtractBingLinks_MalformedHTML(t *testing.T) {
	page := `<html><li class="b_algo"><h2><a href="https://partial">` // truncated

	links := extractBingLinks(page)
	if len(links) != 1 || links[0] != "https://partial" {
		t.Errorf("expected tolerant parsing of truncated markup, got %v", links)
	}
}

func TestExtractBingLinks_Pure(t *testing.T) {
	page := `<li class="b_algo"><h2><a href="https://a"></a></h2></li>`
	first := extractBingLinks(page)
	second := extractBingLinks(page)
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("expected identical output for identical input, got %v and %v", first, second)
	}
}

func newTestBing(t *testing.T, handler http.Handler) *Bing {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	b := NewBing(fetch.New(fetch.Config{Fingerprint: fingerprint.ProfileGo}, nil), nil)
	b.SearchURL = ts.URL + "/search?q=" + siteScope
	return b
}

func TestBing_SearchLinks(t *testing.T) {
	b := newTestBing(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Error("expected q parameter on search request")
		}
		_, _ = w.Write([]byte(`
			<li class="b_algo"><h2><a href="https://stackoverflow.com/q/1"></a></h2></li>
			<li class="b_algo"><h2><a href="https://stackoverflow.com/q/2"></a></h2></li>`))
	}))

	links, err := b.SearchLinks(context.Background(), "how%20to%20reverse%20a%20slice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 2 || links[0] != "https://stackoverflow.com/q/1" {
		t.Errorf("unexpected links: %v", links)
	}
}

func TestBing_SearchLinks_NoResult(t *testing.T) {
	b := newTestBing(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))

	_, err := b.SearchLinks(context.Background(), "gibberish")
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestBing_SearchLinks_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	b := NewBing(fetch.New(fetch.Config{Fingerprint: fingerprint.ProfileGo}, nil), nil)
	b.SearchURL = ts.URL + "/search?q="

	_, err := b.SearchLinks(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, ErrNoResult) {
		t.Fatal("transport errors must not be reported as no-result")
	}
}

func TestBing_Name(t *testing.T) {
	if got := NewBing(nil, nil).Name(); got != "bing" {
		t.Errorf("expected bing, got %s", got)
	}
}
