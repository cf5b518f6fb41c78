package client

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hyunsol/techtalk/internal/preview"
)

// previewConcurrency caps how many link lookups run at once per sync.
const previewConcurrency = 4

// PreviewFunc resolves metadata for one URL.
type PreviewFunc func(ctx context.Context, rawurl string) (*preview.URLPreview, error)

// Previews collects link previews for the URLs found in a piece of
// text. Each sync carries a generation number so a slow batch started
// against older text can never overwrite results from a newer one.
// Lookups that fail are simply absent; they are retried on the next
// sync.
type Previews struct {
	fetch PreviewFunc

	mu    sync.Mutex
	gen   uint64
	cache map[string]preview.URLPreview
	order []string
}

// NewPreviews creates a collection backed by the given lookup.
func NewPreviews(fetch PreviewFunc) *Previews {
	return &Previews{
		fetch: fetch,
		cache: make(map[string]preview.URLPreview),
	}
}

// Sync extracts the URLs from text and resolves any not already
// cached, fanning lookups out concurrently. It blocks until the batch
// finishes; stale batches are discarded on arrival.
func (p *Previews) Sync(ctx context.Context, text string) {
	urls := preview.ExtractURLs(text)

	p.mu.Lock()
	p.gen++
	gen := p.gen
	var missing []string
	seen := make(map[string]bool)
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		if _, ok := p.cache[u]; !ok {
			missing = append(missing, u)
		}
	}
	p.mu.Unlock()

	if len(missing) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(previewConcurrency)
	for _, u := range missing {
		u := u
		g.Go(func() error {
			pv, err := p.fetch(ctx, u)
			if err != nil || pv == nil {
				return nil
			}
			p.store(gen, u, *pv)
			return nil
		})
	}
	// workers never return errors; failures just leave the URL unresolved
	_ = g.Wait()
}

func (p *Previews) store(gen uint64, url string, pv preview.URLPreview) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	if _, ok := p.cache[url]; !ok {
		p.order = append(p.order, url)
	}
	p.cache[url] = pv
}

// All returns the resolved previews in the order their URLs were first
// resolved.
func (p *Previews) All() []preview.URLPreview {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]preview.URLPreview, 0, len(p.order))
	for _, u := range p.order {
		if pv, ok := p.cache[u]; ok {
			out = append(out, pv)
		}
	}
	return out
}

// Get returns the cached preview for a URL.
func (p *Previews) Get(url string) (preview.URLPreview, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pv, ok := p.cache[url]
	return pv, ok
}

// Remove drops one preview card by URL. The text that produced it is
// untouched; the card simply disappears until the URL is synced again.
func (p *Previews) Remove(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, url)
	for i, u := range p.order {
		if u == url {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Thumbnail returns the image of the first preview carrying one, used
// as the post's thumbnail at submit time.
func (p *Previews) Thumbnail() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range p.order {
		if pv, ok := p.cache[u]; ok && pv.Image != "" {
			return pv.Image
		}
	}
	return ""
}
