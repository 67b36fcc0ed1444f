package cache

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kmunkitt/skim/internal/logging"
)

// Class buckets a request path into one of the serving policies.
type Class int

const (
	// ClassData covers the data endpoints: network-first so fresh content
	// wins, cache fallback keeps the app usable offline.
	ClassData Class = iota
	// ClassShell covers app-shell documents, same policy as data so new
	// deploys are picked up immediately.
	ClassShell
	// ClassStatic covers everything else: cache-first for speed.
	ClassStatic
)

// Classify buckets a URL path. The policy keys purely on the path.
func Classify(path string) Class {
	if strings.Contains(path, "/data/") {
		return ClassData
	}
	if path == "/" ||
		strings.HasSuffix(path, ".html") ||
		strings.HasSuffix(path, ".js") ||
		strings.HasSuffix(path, ".css") {
		return ClassShell
	}
	return ClassStatic
}

// Proxy intercepts outbound requests and applies the offline policy.
// It implements http.RoundTripper so it can sit transparently inside an
// http.Client between the repository and the network.
//
// The generation it serves from is the currently active one, which is not
// necessarily the newest installed: a freshly installed generation only
// becomes the serving one once it takes control.
type Proxy struct {
	cache *Cache
	next  http.RoundTripper

	mu         sync.Mutex
	generation int
}

// NewProxy wraps next with the caching policy, serving from generation.
// A nil next falls back to http.DefaultTransport.
func NewProxy(c *Cache, next http.RoundTripper, generation int) *Proxy {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Proxy{cache: c, next: next, generation: generation}
}

// Generation returns the generation currently being served.
func (p *Proxy) Generation() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

// SetGeneration switches the proxy to a new generation, called when that
// generation takes control.
func (p *Proxy) SetGeneration(generation int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation = generation
}

// RoundTrip serves the request according to its path class.
func (p *Proxy) RoundTrip(req *http.Request) (*http.Response, error) {
	switch Classify(req.URL.Path) {
	case ClassData, ClassShell:
		return p.networkFirst(req)
	default:
		return p.cacheFirst(req)
	}
}

// networkFirst attempts a live fetch. On success the entry is overwritten
// asynchronously - the response is not delayed by the cache write. On
// network failure the last cached entry is served if present; otherwise
// the failure propagates.
func (p *Proxy) networkFirst(req *http.Request) (*http.Response, error) {
	resp, err := p.next.RoundTrip(req)
	if err != nil {
		if cached, cacheErr := p.cache.Get(p.Generation(), req.URL.String()); cacheErr == nil {
			logging.Debug("Serving cached copy", "url", req.URL.String())
			return cached.response(req), nil
		}
		return nil, err
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := Entry{
		URL:         req.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	}
	gen := p.Generation()
	go func() {
		if err := p.cache.Put(gen, entry); err != nil {
			logging.Warn("Cache write failed", "url", entry.URL, "error", err)
		}
	}()

	return resp, nil
}

// cacheFirst serves the cached entry when present, otherwise fetches from
// the network without re-caching.
func (p *Proxy) cacheFirst(req *http.Request) (*http.Response, error) {
	if cached, err := p.cache.Get(p.Generation(), req.URL.String()); err == nil {
		return cached.response(req), nil
	}
	return p.next.RoundTrip(req)
}

// response reconstructs an http.Response from a cached entry.
func (e Entry) response(req *http.Request) *http.Response {
	header := make(http.Header)
	if e.ContentType != "" {
		header.Set("Content-Type", e.ContentType)
	}
	return &http.Response{
		StatusCode:    e.StatusCode,
		Status:        http.StatusText(e.StatusCode),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}
}
