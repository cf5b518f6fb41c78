package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseMetadata_TitleAndDescription(t *testing.T) {
	html := `<html><head>
		<title>Hello</title>
		<meta name="description" content="World">
	</head></html>`
	meta := ParseMetadata(html)
	if meta["title"] != "Hello" {
		t.Errorf("title = %q, want Hello", meta["title"])
	}
	if meta["description"] != "World" {
		t.Errorf("description = %q, want World", meta["description"])
	}
}

func TestParseMetadata_PropertyTagsLowercased(t *testing.T) {
	html := `<meta property="OG:Title" content="Big News">
		<meta property="og:image" content="https://img.example/x.png">
		<meta name="twitter:site" content="@example">`
	meta := ParseMetadata(html)
	if meta["og:title"] != "Big News" {
		t.Errorf("og:title = %q", meta["og:title"])
	}
	if meta["og:image"] != "https://img.example/x.png" {
		t.Errorf("og:image = %q", meta["og:image"])
	}
	if meta["twitter:site"] != "@example" {
		t.Errorf("twitter:site = %q", meta["twitter:site"])
	}
}

func TestParseMetadata_SkipsUnmatchedShapes(t *testing.T) {
	// content before name is outside the expected pattern and is skipped.
	html := `<meta content="backwards" name="description">`
	meta := ParseMetadata(html)
	if _, ok := meta["description"]; ok {
		t.Error("reversed attribute order should be skipped")
	}
}

func TestNormalize_FallbackOrder(t *testing.T) {
	p := Normalize("https://example.com", map[string]string{
		"og:title":       "OG Title",
		"og:description": "OG Desc",
		"og:image":       "img.png",
		"og:site_name":   "Example",
	})
	if p.Title != "OG Title" || p.Description != "OG Desc" || p.Image != "img.png" || p.SiteName != "Example" {
		t.Errorf("normalized = %+v", p)
	}

	// Plain keys win over og: equivalents.
	p = Normalize("https://example.com", map[string]string{
		"title":    "Plain",
		"og:title": "OG",
	})
	if p.Title != "Plain" {
		t.Errorf("title = %q, want Plain", p.Title)
	}
}

func TestFetch_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<title>Served</title>`))
	}))
	defer srv.Close()

	f := NewFetcher(nil, 0, "")
	meta, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if meta["title"] != "Served" {
		t.Errorf("title = %q", meta["title"])
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestFetch_UpstreamErrorPropagatesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	f := NewFetcher(nil, 0, "")
	_, err := f.Fetch(context.Background(), srv.URL)
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if ue.Status != http.StatusTeapot {
		t.Errorf("status = %d, want 418", ue.Status)
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	f := NewFetcher(nil, 0, "")
	if _, err := f.Fetch(context.Background(), "not-a-url"); err == nil {
		t.Error("relative url should be rejected")
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	f := NewFetcher(nil, 50*time.Millisecond, "")
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("expected timeout error")
	}
}

func TestExtractURLs(t *testing.T) {
	text := "see https://a.example/x and http://b.example plus text"
	urls := ExtractURLs(text)
	if len(urls) != 2 || urls[0] != "https://a.example/x" || urls[1] != "http://b.example" {
		t.Errorf("urls = %v", urls)
	}
	if got := ExtractURLs("no links here"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestIsValidURL(t *testing.T) {
	if !IsValidURL("https://example.com/path") {
		t.Error("absolute url should be valid")
	}
	if IsValidURL("/relative/path") {
		t.Error("relative url should be invalid")
	}
}
