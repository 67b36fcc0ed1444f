package cache

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Class
	}{
		{"/data/rss.json", ClassData},
		{"/api/data/social.json", ClassData},
		{"/", ClassShell},
		{"/index.html", ClassShell},
		{"/app.js", ClassShell},
		{"/style.css", ClassShell},
		{"/icons/icon-192.png", ClassStatic},
		{"/manifest.json", ClassStatic},
	}
	for _, tt := range tests {
		if got := Classify(tt.path); got != tt.want {
			t.Errorf("Classify(%q): expected %v, got %v", tt.path, tt.want, got)
		}
	}
}

// failingTransport always fails, simulating offline.
type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network unreachable")
}

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// waitForEntry polls for the fire-and-forget cache write.
func waitForEntry(t *testing.T, c *Cache, gen int, url string) Entry {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e, err := c.Get(gen, url); err == nil {
			return e
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("entry for %s never appeared", url)
	return Entry{}
}

func TestNetworkFirstCachesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	c := openTestCache(t)
	proxy := NewProxy(c, nil, 1)
	client := &http.Client{Transport: proxy}

	resp, err := client.Get(server.URL + "/data/rss.json")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != `{"items":[]}` {
		t.Errorf("unexpected body: %s", body)
	}

	entry := waitForEntry(t, c, 1, server.URL+"/data/rss.json")
	if string(entry.Body) != `{"items":[]}` {
		t.Errorf("cached body mismatch: %s", entry.Body)
	}
	if entry.ContentType != "application/json" {
		t.Errorf("cached content type mismatch: %s", entry.ContentType)
	}
}

func TestNetworkFailureServesCache(t *testing.T) {
	c := openTestCache(t)
	if err := c.Put(1, Entry{
		URL:         "https://example.com/data/rss.json",
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(`{"items":[{"id":"a"}]}`),
		FetchedAt:   time.Now(),
	}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	proxy := NewProxy(c, failingTransport{}, 1)
	client := &http.Client{Transport: proxy}

	resp, err := client.Get("https://example.com/data/rss.json")
	if err != nil {
		t.Fatalf("expected cached fallback, got error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != `{"items":[{"id":"a"}]}` {
		t.Errorf("unexpected cached body: %s", body)
	}
}

func TestProxyServesPriorGenerationUntilSwitched(t *testing.T) {
	c := openTestCache(t)
	put := func(gen int, body string) {
		t.Helper()
		if err := c.Put(gen, Entry{
			URL:        "https://example.com/data/rss.json",
			StatusCode: 200,
			Body:       []byte(body),
			FetchedAt:  time.Now(),
		}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	put(1, `{"items":["old"]}`)
	put(2, `{"items":["new"]}`)

	// Generation 2 is installed but held waiting; generation 1 still
	// serves, including its offline fallback.
	proxy := NewProxy(c, failingTransport{}, 1)
	client := &http.Client{Transport: proxy}

	get := func() string {
		t.Helper()
		resp, err := client.Get("https://example.com/data/rss.json")
		if err != nil {
			t.Fatalf("expected cached fallback, got error: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return string(body)
	}

	if got := get(); got != `{"items":["old"]}` {
		t.Errorf("held update must not change the serving generation, got %s", got)
	}

	proxy.SetGeneration(2)
	if got := get(); got != `{"items":["new"]}` {
		t.Errorf("after taking control the new generation serves, got %s", got)
	}
}

func TestActiveGeneration(t *testing.T) {
	tests := []struct {
		name     string
		gens     []int
		incoming int
		want     int
	}{
		{"empty cache", nil, 2, 2},
		{"only incoming on disk", []int{2}, 2, 2},
		{"prior generation serves", []int{1, 2}, 2, 1},
		{"newest prior wins", []int{1, 3, 2}, 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActiveGeneration(tt.gens, tt.incoming); got != tt.want {
				t.Errorf("ActiveGeneration(%v, %d) = %d, want %d", tt.gens, tt.incoming, got, tt.want)
			}
		})
	}
}

func TestOfflineMissPropagates(t *testing.T) {
	c := openTestCache(t)
	proxy := NewProxy(c, failingTransport{}, 1)
	client := &http.Client{Transport: proxy}

	_, err := client.Get("https://example.com/data/never-cached.json")
	if err == nil {
		t.Error("expected failure when offline with no cached copy")
	}
}

func TestStaticIsCacheFirst(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	c := openTestCache(t)
	url := server.URL + "/icons/icon-192.png"
	if err := c.Put(1, Entry{URL: url, StatusCode: 200, Body: []byte("cached-png"), FetchedAt: time.Now()}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	proxy := NewProxy(c, nil, 1)
	client := &http.Client{Transport: proxy}

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if string(body) != "cached-png" {
		t.Errorf("expected cached copy, got %s", body)
	}
	if hits != 0 {
		t.Errorf("cache-first must not hit the network when cached, got %d hits", hits)
	}
}

func TestStaticMissFetchesWithoutRecache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fresh"))
	}))
	defer server.Close()

	c := openTestCache(t)
	proxy := NewProxy(c, nil, 1)
	client := &http.Client{Transport: proxy}

	url := server.URL + "/icons/icon-192.png"
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "fresh" {
		t.Errorf("unexpected body: %s", body)
	}

	// No forced re-cache for static misses.
	time.Sleep(50 * time.Millisecond)
	if _, err := c.Get(1, url); !errors.Is(err, ErrMiss) {
		t.Error("static fetch must not populate the cache")
	}
}

func TestGenerationPurge(t *testing.T) {
	c := openTestCache(t)
	c.Put(1, Entry{URL: "u1", StatusCode: 200, Body: []byte("old"), FetchedAt: time.Now()})
	c.Put(2, Entry{URL: "u1", StatusCode: 200, Body: []byte("new"), FetchedAt: time.Now()})

	if err := c.PurgeOthers(2); err != nil {
		t.Fatalf("PurgeOthers failed: %v", err)
	}

	if _, err := c.Get(1, "u1"); !errors.Is(err, ErrMiss) {
		t.Error("entries from a prior generation must not be servable")
	}
	if _, err := c.Get(2, "u1"); err != nil {
		t.Errorf("current generation entry lost: %v", err)
	}

	gens, err := c.Generations()
	if err != nil {
		t.Fatalf("Generations failed: %v", err)
	}
	if len(gens) != 1 || gens[0] != 2 {
		t.Errorf("expected only generation 2, got %v", gens)
	}
}
