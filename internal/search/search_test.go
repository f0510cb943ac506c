package search

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const vendorPage = `<!DOCTYPE html>
<html><body>
<div class="search-result">
  <h3>Ultrasonic Couplant Gel</h3>
  <p class="description">High-viscosity couplant for vertical surfaces.</p>
  <span class="tag">UT</span>
  <span class="tag">couplant</span>
  <a href="/products/couplant-gel">View</a>
</div>
<div class="search-result">
  <h3>Eddy Current Probe Kit</h3>
  <p class="description">Surface probes, 100kHz-1MHz.</p>
  <span class="feature">ET</span>
  <a href="/products/ec-probes">View</a>
</div>
<div class="search-result">
  <h3>Card without a link</h3>
</div>
</body></html>`

func TestSearch_ParsesResultCards(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		io.WriteString(w, vendorPage)
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL}, 5*time.Second, testLogger())
	results := c.Search(context.Background(), "couplant gel")

	if gotQuery != "couplant gel" {
		t.Errorf("expected query %q forwarded, got %q", "couplant gel", gotQuery)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results (link-less card dropped), got %d", len(results))
	}

	first := results[0]
	if first.Title != "Ultrasonic Couplant Gel" {
		t.Errorf("expected title %q, got %q", "Ultrasonic Couplant Gel", first.Title)
	}
	if first.Description != "High-viscosity couplant for vertical surfaces." {
		t.Errorf("unexpected description %q", first.Description)
	}
	if len(first.Features) != 2 || first.Features[0] != "UT" || first.Features[1] != "couplant" {
		t.Errorf("unexpected features %v", first.Features)
	}
	if first.Link != "/products/couplant-gel" {
		t.Errorf("unexpected link %q", first.Link)
	}

	if results[1].Features[0] != "ET" {
		t.Errorf("expected feature-class chips collected, got %v", results[1].Features)
	}
}

func TestSearch_MergesSources(t *testing.T) {
	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<div class="search-result"><h3>A</h3><a href="/a">x</a></div>`)
	}))
	defer srvA.Close()
	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<div class="search-result"><h3>B</h3><a href="/b">x</a></div>`)
	}))
	defer srvB.Close()

	c := NewClient([]string{srvA.URL, srvB.URL}, 5*time.Second, testLogger())
	results := c.Search(context.Background(), "probe")

	if len(results) != 2 {
		t.Fatalf("expected 2 merged results, got %d", len(results))
	}
	if results[0].Title != "A" || results[1].Title != "B" {
		t.Errorf("expected source order preserved, got %q then %q", results[0].Title, results[1].Title)
	}
}

func TestSearch_FailedSourceSkipped(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<div class="search-result"><h3>Good</h3><a href="/g">x</a></div>`)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	c := NewClient([]string{bad.URL, good.URL}, 5*time.Second, testLogger())
	results := c.Search(context.Background(), "probe")

	if len(results) != 1 {
		t.Fatalf("expected 1 result from the healthy source, got %d", len(results))
	}
	if results[0].Title != "Good" {
		t.Errorf("expected result from healthy source, got %q", results[0].Title)
	}
}

func TestSearch_AllSourcesDownReturnsPlaceholder(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	down.Close() // Closed immediately: connection refused.

	c := NewClient([]string{down.URL}, 1*time.Second, testLogger())
	results := c.Search(context.Background(), "anything")

	if len(results) != 1 {
		t.Fatalf("expected exactly the placeholder result, got %d", len(results))
	}
	if results[0].Source != "system" || results[0].Title != "No results" {
		t.Errorf("unexpected placeholder %+v", results[0])
	}
}

func TestSearch_QueryIsEscaped(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		io.WriteString(w, "<html></html>")
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL}, 5*time.Second, testLogger())
	c.Search(context.Background(), "probe & cable")

	if rawQuery != "q=probe+%26+cable" {
		t.Errorf("expected escaped query string, got %q", rawQuery)
	}
}
