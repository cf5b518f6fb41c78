// Package preview fetches external pages and extracts their meta tags.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultTimeout bounds each outbound fetch. No retries: a failed or
// timed-out fetch surfaces as an error and the caller decides.
const DefaultTimeout = 5 * time.Second

// DefaultUserAgent identifies the proxy to upstream servers.
const DefaultUserAgent = "Mozilla/5.0 (compatible; TechTalkBot/1.0)"

var (
	titleRe = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
	metaRe  = regexp.MustCompile(`(?i)<meta[^>]+(?:name|property)=["']([^"']+)["'][^>]+content=["']([^"']+)["'][^>]*>`)
	urlRe   = regexp.MustCompile(`https?://[^\s]+`)
)

// UpstreamError reports a non-2xx response from the target server. The
// proxy endpoint propagates the upstream status to its own response.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("preview: failed to fetch: %d", e.Status)
}

// Fetcher retrieves pages and extracts metadata.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// NewFetcher creates a Fetcher. A nil client falls back to a default one.
func NewFetcher(client *http.Client, timeout time.Duration, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{client: client, timeout: timeout, userAgent: userAgent}
}

// Fetch validates rawurl, retrieves the page, and returns the extracted
// metadata mapping. Keys are lower-cased meta tag names; no Open Graph
// normalization happens at this layer.
func (f *Fetcher) Fetch(ctx context.Context, rawurl string) (map[string]string, error) {
	body, err := f.FetchRaw(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return ParseMetadata(body), nil
}

// FetchRaw validates rawurl and returns the page body as a string.
func (f *Fetcher) FetchRaw(ctx context.Context, rawurl string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil || !u.IsAbs() {
		return "", fmt.Errorf("preview: invalid url %q", rawurl)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return "", fmt.Errorf("preview: build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("preview: fetch %s: %w", rawurl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("preview: read body: %w", err)
	}
	return string(body), nil
}

// ParseMetadata extracts the <title> text and every name=/property= meta
// tag value via pattern matching. Tags split across lines or with an
// attribute order outside the expected pattern are silently skipped.
func ParseMetadata(html string) map[string]string {
	metadata := make(map[string]string)

	if m := titleRe.FindStringSubmatch(html); m != nil {
		metadata["title"] = strings.TrimSpace(m[1])
	}
	for _, m := range metaRe.FindAllStringSubmatch(html, -1) {
		metadata[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}
	return metadata
}

// Normalize folds the raw mapping into a preview, preferring plain keys
// and falling back to Open Graph and Twitter equivalents.
func Normalize(rawurl string, meta map[string]string) URLPreview {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := meta[k]; v != "" {
				return v
			}
		}
		return ""
	}
	return URLPreview{
		URL:         rawurl,
		Title:       first("title", "og:title", "twitter:title"),
		Description: first("description", "og:description", "twitter:description"),
		Image:       first("og:image", "twitter:image"),
		SiteName:    first("og:site_name", "twitter:site"),
	}
}

// URLPreview holds the normalized metadata of an external link.
type URLPreview struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
}

// ExtractURLs returns every http(s) URL appearing in text, in order,
// duplicates included.
func ExtractURLs(text string) []string {
	return urlRe.FindAllString(text, -1)
}

// IsValidURL reports whether raw parses as an absolute URL.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs()
}
